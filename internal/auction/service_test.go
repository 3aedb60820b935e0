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
	"github.com/lawhahq/lawha/internal/platform/apperr"
)

// catalogStub stands in for the artwork service.
type catalogStub struct {
	pieces   map[string]*artwork.Artwork
	statuses map[string]artwork.Status
}

func newCatalogStub() *catalogStub {
	return &catalogStub{
		pieces:   make(map[string]*artwork.Artwork),
		statuses: make(map[string]artwork.Status),
	}
}

func (stub *catalogStub) Get(_ context.Context, id string) (*artwork.Artwork, error) {
	piece, ok := stub.pieces[id]
	if !ok {
		return nil, apperr.NotFound("Artwork")
	}
	return piece, nil
}

func (stub *catalogStub) SetStatus(_ context.Context, id string, status artwork.Status) error {
	stub.statuses[id] = status
	return nil
}

func newTestService(t *testing.T, now time.Time) (*Service, *MemoryRepository, *MemoryBroker, *catalogStub) {
	t.Helper()

	repo := NewMemoryRepository()
	broker := NewMemoryBroker()
	catalog := newCatalogStub()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := NewService(repo, broker, catalog, logger)
	service.now = func() time.Time { return now }
	return service, repo, broker, catalog
}

func seedLiveAuction(t *testing.T, repo *MemoryRepository, now time.Time, mutate func(*Auction)) *Auction {
	t.Helper()

	a := &Auction{
		ID:            "11111111-1111-7111-8111-111111111111",
		ArtworkID:     "22222222-2222-7222-8222-222222222222",
		SellerID:      "seller-1",
		Title:         "Desert Light",
		StartingPrice: 1000,
		BidIncrement:  100,
		Currency:      "SAR",
		StartsAt:      now.Add(-time.Hour),
		EndsAt:        now.Add(time.Hour),
		Phase:         StatusLive,
	}
	if mutate != nil {
		mutate(a)
	}
	require.NoError(t, repo.Create(context.Background(), a))
	return a
}

/*
TestService_PlaceBid_IncrementGuard exercises the minimum-increment rule:
with the current bid at 1000 and a 100 increment, 1050 is rejected and
1100 accepted; anything at or below the current bid is always rejected.
*/
func TestService_PlaceBid_IncrementGuard(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		amount   int64
		accepted bool
	}{
		{"below_increment", 1050, false},
		{"equal_to_current", 1000, false},
		{"below_current", 900, false},
		{"zero", 0, false},
		{"negative", -100, false},
		{"exactly_one_increment", 1100, true},
		{"above_increment", 1500, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo, _, _ := newTestService(t, now)
			seedLiveAuction(t, repo, now, func(a *Auction) {
				a.CurrentBid = 1000
				a.BidCount = 1
			})

			bid, err := service.PlaceBid(context.Background(), "bidder-1", "Mohammed", "11111111-1111-7111-8111-111111111111", tt.amount)

			if tt.accepted {
				require.NoError(t, err)
				assert.Equal(t, tt.amount, bid.Amount)
			} else {
				require.Error(t, err)
				assert.Nil(t, bid)
			}
		})
	}
}

/*
TestService_PlaceBid_FirstBid checks that the opening bid is measured
against the starting price, not the zero current bid.
*/
func TestService_PlaceBid_FirstBid(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	service, repo, _, _ := newTestService(t, now)
	seedLiveAuction(t, repo, now, nil)

	_, err := service.PlaceBid(context.Background(), "bidder-1", "Sara", "11111111-1111-7111-8111-111111111111", 999)
	require.Error(t, err)

	bid, err := service.PlaceBid(context.Background(), "bidder-1", "Sara", "11111111-1111-7111-8111-111111111111", 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), bid.Amount)
}

/*
TestService_PlaceBid_EndToEnd is the full accepted-bid flow: counters bump
and the event goes out on the auction channel with an anonymized bidder.
*/
func TestService_PlaceBid_EndToEnd(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	service, repo, broker, _ := newTestService(t, now)
	seedLiveAuction(t, repo, now, func(a *Auction) {
		a.CurrentBid = 5000
		a.BidCount = 4
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := broker.Subscribe(ctx, "11111111-1111-7111-8111-111111111111")
	require.NoError(t, err)

	bid, err := service.PlaceBid(context.Background(), "bidder-1", "Mohammed", "11111111-1111-7111-8111-111111111111", 5200)
	require.NoError(t, err)
	assert.Equal(t, int64(5200), bid.Amount)

	a, err := repo.Get(context.Background(), "11111111-1111-7111-8111-111111111111")
	require.NoError(t, err)
	assert.Equal(t, int64(5200), a.CurrentBid)
	assert.Equal(t, 5, a.BidCount)
	assert.GreaterOrEqual(t, a.CurrentBid, a.StartingPrice)

	select {
	case event := <-events:
		assert.Equal(t, EventBidPlaced, event.Type)
		assert.Equal(t, int64(5200), event.Amount)
		assert.Equal(t, 5, event.BidCount)
		assert.Equal(t, "Moh***", event.Bidder)
	case <-time.After(time.Second):
		t.Fatal("expected a bid.placed event")
	}
}

/*
TestService_PlaceBid_Rejections covers the non-amount guards: sellers on
their own auctions and auctions outside the live window.
*/
func TestService_PlaceBid_Rejections(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	t.Run("seller_own_auction", func(t *testing.T) {
		service, repo, _, _ := newTestService(t, now)
		seedLiveAuction(t, repo, now, nil)

		_, err := service.PlaceBid(context.Background(), "seller-1", "Seller", "11111111-1111-7111-8111-111111111111", 2000)
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "FORBIDDEN", ae.Code)
	})

	t.Run("not_yet_live", func(t *testing.T) {
		service, repo, _, _ := newTestService(t, now)
		seedLiveAuction(t, repo, now, func(a *Auction) {
			a.StartsAt = now.Add(time.Hour)
			a.EndsAt = now.Add(2 * time.Hour)
			a.Phase = StatusUpcoming
		})

		_, err := service.PlaceBid(context.Background(), "bidder-1", "Sara", "11111111-1111-7111-8111-111111111111", 2000)
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "UNPROCESSABLE", ae.Code)
	})

	t.Run("already_ended", func(t *testing.T) {
		service, repo, _, _ := newTestService(t, now)
		seedLiveAuction(t, repo, now, func(a *Auction) {
			a.StartsAt = now.Add(-2 * time.Hour)
			a.EndsAt = now.Add(-time.Hour)
		})

		_, err := service.PlaceBid(context.Background(), "bidder-1", "Sara", "11111111-1111-7111-8111-111111111111", 2000)
		require.Error(t, err)
	})

	t.Run("unknown_auction", func(t *testing.T) {
		service, _, _, _ := newTestService(t, now)

		_, err := service.PlaceBid(context.Background(), "bidder-1", "Sara", "missing", 2000)
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "NOT_FOUND", ae.Code)
	})
}

/*
TestService_ListBids_Anonymized checks that public listings never expose a
full bidder name.
*/
func TestService_ListBids_Anonymized(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	service, repo, _, _ := newTestService(t, now)
	seedLiveAuction(t, repo, now, nil)

	_, err := service.PlaceBid(context.Background(), "bidder-1", "Mohammed", "11111111-1111-7111-8111-111111111111", 1000)
	require.NoError(t, err)
	_, err = service.PlaceBid(context.Background(), "bidder-2", "Abdullah", "11111111-1111-7111-8111-111111111111", 1100)
	require.NoError(t, err)

	bids, total, err := service.ListBids(context.Background(), "11111111-1111-7111-8111-111111111111", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	// Newest first.
	assert.Equal(t, int64(1100), bids[0].Amount)
	assert.Equal(t, "Abd***", bids[0].BidderName)
	assert.Equal(t, "Moh***", bids[1].BidderName)
}

/*
TestService_ToggleWatch flips the flag twice and checks both directions.
*/
func TestService_ToggleWatch(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	service, repo, _, _ := newTestService(t, now)
	seedLiveAuction(t, repo, now, nil)

	watching, err := service.ToggleWatch(context.Background(), "11111111-1111-7111-8111-111111111111", "user-1")
	require.NoError(t, err)
	assert.True(t, watching)

	watching, err = service.ToggleWatch(context.Background(), "11111111-1111-7111-8111-111111111111", "user-1")
	require.NoError(t, err)
	assert.False(t, watching)
}
