// Copyright (c) 2026 Lawha. All rights reserved.

package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lawhahq/lawha/internal/auction"
	"github.com/lawhahq/lawha/internal/core/artwork"
	"github.com/lawhahq/lawha/internal/platform/config"
)

// streamCatalogStub satisfies the artwork dependency of the auction service
// without a real catalog behind it.
type streamCatalogStub struct{}

func (streamCatalogStub) Get(_ context.Context, id string) (*artwork.Artwork, error) {
	return &artwork.Artwork{ID: id, Status: artwork.StatusInAuction}, nil
}

func (streamCatalogStub) SetStatus(_ context.Context, _ string, _ artwork.Status) error {
	return nil
}

/*
TestServer_Shutdown_ClosesOpenEventStreams holds an auction event stream
open and verifies that Shutdown still returns promptly. The stream select
loop only watches its request context, so the server has to cancel those
contexts itself; otherwise Shutdown waits out its whole deadline on a
connection that never goes idle.
*/
func TestServer_Shutdown_ClosesOpenEventStreams(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	repo := auction.NewMemoryRepository()
	service := auction.NewService(repo, auction.NewMemoryBroker(), streamCatalogStub{}, logger)

	now := time.Now().UTC()
	live := &auction.Auction{
		ID:            "0198a001-0000-7000-8000-000000000001",
		ArtworkID:     "0198a001-0000-7000-8000-000000000002",
		SellerID:      "0198a001-0000-7000-8000-000000000003",
		Title:         "Evening Dunes",
		StartingPrice: 100000,
		BidIncrement:  5000,
		Currency:      "SAR",
		StartsAt:      now.Add(-time.Hour),
		EndsAt:        now.Add(time.Hour),
		Phase:         auction.StatusLive,
	}
	require.NoError(t, repo.Create(context.Background(), live))

	cfg := &config.Config{Environment: "development", ServerPort: "0"}
	server := NewServer(context.Background(), cfg, logger, nil, Handlers{
		Auction: auction.NewHandler(service),
	})

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() { _ = server.httpServer.Serve(listener) }()

	streamURL := fmt.Sprintf("http://%s/api/v1/auctions/%s/stream", listener.Addr(), live.ID)
	response, err := http.Get(streamURL)
	require.NoError(t, err)
	defer response.Body.Close()
	require.Equal(t, http.StatusOK, response.StatusCode)
	require.Equal(t, "text/event-stream", response.Header.Get("Content-Type"))

	done := make(chan error, 1)
	go func() { done <- server.Shutdown(5 * time.Second) }()

	select {
	case err := <-done:
		assert.NoError(t, err, "shutdown should not wait out its deadline on an open stream")
	case <-time.After(3 * time.Second):
		t.Fatal("shutdown did not return while an event stream was open")
	}
}
