package auction

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingRepository fails the test on any access. It proves authentication
// is rejected before the store is ever touched.
type failingRepository struct {
	Repository
	t *testing.T
}

func (repo *failingRepository) Get(context.Context, string) (*Auction, error) {
	repo.t.Fatal("store accessed for an unauthenticated request")
	return nil, nil
}

func (repo *failingRepository) PlaceBid(context.Context, string, func(a *Auction) (*Bid, error)) (*Bid, error) {
	repo.t.Fatal("store accessed for an unauthenticated request")
	return nil, nil
}

/*
TestHandler_PlaceBid_Unauthenticated posts a bid without credentials and
expects a 401 with no repository access at all.
*/
func TestHandler_PlaceBid_Unauthenticated(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewService(&failingRepository{t: t}, NewMemoryBroker(), newCatalogStub(), logger)
	router := NewHandler(service).Routes()

	request := httptest.NewRequest(http.MethodPost, "/11111111-1111-7111-8111-111111111111/bids", strings.NewReader(`{"amount":5200}`))
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

/*
TestHandler_Stream_SetsEventStreamHeaders opens the SSE endpoint, pushes one
event through the broker, and checks the wire format.
*/
func TestHandler_Stream_SetsEventStreamHeaders(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	service, repo, broker, _ := newTestService(t, now)
	seedLiveAuction(t, repo, now, nil)

	router := NewHandler(service).Routes()
	server := httptest.NewServer(router)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/11111111-1111-7111-8111-111111111111/stream", nil)
	require.NoError(t, err)

	response, err := http.DefaultClient.Do(request)
	require.NoError(t, err)
	defer response.Body.Close()

	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, "text/event-stream", response.Header.Get("Content-Type"))

	// Publish until the subscription is registered and the event lands.
	publishDone := make(chan struct{})
	defer close(publishDone)
	go func() {
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-publishDone:
				return
			case <-ticker.C:
				_ = broker.Publish(context.Background(), Event{
					Type:      EventBidPlaced,
					AuctionID: "11111111-1111-7111-8111-111111111111",
					Amount:    5200,
					At:        now,
				})
			}
		}
	}()

	buffer := make([]byte, 1024)
	n, err := response.Body.Read(buffer)
	require.NoError(t, err)

	payload := string(buffer[:n])
	assert.Contains(t, payload, "event: bid.placed")
	assert.Contains(t, payload, `"amount":5200`)
}
