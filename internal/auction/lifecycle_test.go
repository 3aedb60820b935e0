package auction

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lawhahq/lawha/internal/core/artwork"
	"github.com/lawhahq/lawha/pkg/pointer"
)

func newTestScheduler(service *Service) *Scheduler {
	return NewScheduler(service, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func drainEvents(events <-chan Event) []Event {
	var got []Event
	for {
		select {
		case event := <-events:
			got = append(got, event)
		default:
			return got
		}
	}
}

/*
TestScheduler_GoLive transitions an upcoming auction whose start time has
passed, and only announces it once.
*/
func TestScheduler_GoLive(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	service, repo, broker, _ := newTestService(t, now)

	seedLiveAuction(t, repo, now, func(a *Auction) {
		a.Phase = StatusUpcoming // startsat already in the past
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, err := broker.Subscribe(ctx, "11111111-1111-7111-8111-111111111111")
	require.NoError(t, err)

	scheduler := newTestScheduler(service)
	scheduler.Tick(context.Background())

	a, err := repo.Get(context.Background(), "11111111-1111-7111-8111-111111111111")
	require.NoError(t, err)
	assert.Equal(t, StatusLive, a.Phase)

	got := drainEvents(events)
	require.Len(t, got, 1)
	assert.Equal(t, EventAuctionLive, got[0].Type)

	// A second tick finds nothing due.
	scheduler.Tick(context.Background())
	assert.Empty(t, drainEvents(events))
}

/*
TestScheduler_SettlementReserveMet ends a live auction whose highest bid
clears the reserve: exactly one winning bid, artwork sold.
*/
func TestScheduler_SettlementReserveMet(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	service, repo, broker, catalog := newTestService(t, now)

	seedLiveAuction(t, repo, now, func(a *Auction) {
		a.ReservePrice = pointer.To(int64(1500))
	})

	_, err := service.PlaceBid(context.Background(), "bidder-1", "Sara", "11111111-1111-7111-8111-111111111111", 1000)
	require.NoError(t, err)
	_, err = service.PlaceBid(context.Background(), "bidder-2", "Mohammed", "11111111-1111-7111-8111-111111111111", 1600)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, err := broker.Subscribe(ctx, "11111111-1111-7111-8111-111111111111")
	require.NoError(t, err)

	// Move the clock past the end and tick.
	service.now = func() time.Time { return now.Add(2 * time.Hour) }
	newTestScheduler(service).Tick(context.Background())

	a, err := repo.Get(context.Background(), "11111111-1111-7111-8111-111111111111")
	require.NoError(t, err)
	assert.Equal(t, StatusEnded, a.Phase)
	require.NotNil(t, a.WinnerID)
	assert.Equal(t, "bidder-2", *a.WinnerID)

	bids, _, err := repo.ListBids(context.Background(), "11111111-1111-7111-8111-111111111111", 20, 0)
	require.NoError(t, err)

	winning := 0
	for _, bid := range bids {
		if bid.IsWinning {
			winning++
			assert.Equal(t, int64(1600), bid.Amount)
		}
	}
	assert.Equal(t, 1, winning)

	assert.Equal(t, artwork.StatusSold, catalog.statuses["22222222-2222-7222-8222-222222222222"])

	got := drainEvents(events)
	require.Len(t, got, 1)
	assert.Equal(t, EventAuctionEnded, got[0].Type)
}

/*
TestScheduler_SettlementReserveUnmet ends a live auction below its reserve:
no winner, no winning bid, artwork back on the market.
*/
func TestScheduler_SettlementReserveUnmet(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	service, repo, _, catalog := newTestService(t, now)

	seedLiveAuction(t, repo, now, func(a *Auction) {
		a.ReservePrice = pointer.To(int64(5000))
	})

	_, err := service.PlaceBid(context.Background(), "bidder-1", "Sara", "11111111-1111-7111-8111-111111111111", 1200)
	require.NoError(t, err)

	service.now = func() time.Time { return now.Add(2 * time.Hour) }
	newTestScheduler(service).Tick(context.Background())

	a, err := repo.Get(context.Background(), "11111111-1111-7111-8111-111111111111")
	require.NoError(t, err)
	assert.Equal(t, StatusEnded, a.Phase)
	assert.Nil(t, a.WinnerID)

	bids, _, err := repo.ListBids(context.Background(), "11111111-1111-7111-8111-111111111111", 20, 0)
	require.NoError(t, err)
	for _, bid := range bids {
		assert.False(t, bid.IsWinning)
	}

	assert.Equal(t, artwork.StatusListed, catalog.statuses["22222222-2222-7222-8222-222222222222"])
}

/*
TestScheduler_NoBids ends an auction nobody bid on without a winner.
*/
func TestScheduler_NoBids(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	service, repo, _, catalog := newTestService(t, now)
	seedLiveAuction(t, repo, now, nil)

	service.now = func() time.Time { return now.Add(2 * time.Hour) }
	newTestScheduler(service).Tick(context.Background())

	a, err := repo.Get(context.Background(), "11111111-1111-7111-8111-111111111111")
	require.NoError(t, err)
	assert.Equal(t, StatusEnded, a.Phase)
	assert.Nil(t, a.WinnerID)
	assert.Equal(t, artwork.StatusListed, catalog.statuses["22222222-2222-7222-8222-222222222222"])
}

/*
TestScheduler_SkippedLiveWindow covers an auction whose whole window fell
between ticks: both transitions are announced, in order, on one tick.
*/
func TestScheduler_SkippedLiveWindow(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	service, repo, broker, _ := newTestService(t, now)

	seedLiveAuction(t, repo, now, func(a *Auction) {
		a.Phase = StatusUpcoming
		a.StartsAt = now.Add(-2 * time.Minute)
		a.EndsAt = now.Add(-time.Minute)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, err := broker.Subscribe(ctx, "11111111-1111-7111-8111-111111111111")
	require.NoError(t, err)

	newTestScheduler(service).Tick(context.Background())

	a, err := repo.Get(context.Background(), "11111111-1111-7111-8111-111111111111")
	require.NoError(t, err)
	assert.Equal(t, StatusEnded, a.Phase)

	got := drainEvents(events)
	require.Len(t, got, 2)
	assert.Equal(t, EventAuctionLive, got[0].Type)
	assert.Equal(t, EventAuctionEnded, got[1].Type)
}

/*
TestScheduler_RunStopsOnCancel makes sure the loop exits with its context.
*/
func TestScheduler_RunStopsOnCancel(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	service, _, _, _ := newTestService(t, now)

	scheduler := newTestScheduler(service)
	scheduler.interval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		scheduler.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop on context cancellation")
	}
}
