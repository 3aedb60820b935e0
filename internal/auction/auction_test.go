package auction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lawhahq/lawha/pkg/pointer"
)

/*
TestAuction_StatusAt verifies the clock-derived status windows, including
the exact boundary instants.
*/
func TestAuction_StatusAt(t *testing.T) {
	start := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	a := &Auction{StartsAt: start, EndsAt: end}

	tests := []struct {
		name string
		at   time.Time
		want Status
	}{
		{"well_before_start", start.Add(-time.Hour), StatusUpcoming},
		{"instant_before_start", start.Add(-time.Nanosecond), StatusUpcoming},
		{"exactly_at_start", start, StatusLive},
		{"mid_window", start.Add(time.Hour), StatusLive},
		{"instant_before_end", end.Add(-time.Nanosecond), StatusLive},
		{"exactly_at_end", end, StatusEnded},
		{"long_after_end", end.Add(24 * time.Hour), StatusEnded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.StatusAt(tt.at))
		})
	}
}

/*
TestAuction_NextBidMinimum checks the floor for the next acceptable bid.
*/
func TestAuction_NextBidMinimum(t *testing.T) {
	tests := []struct {
		name    string
		auction Auction
		want    int64
	}{
		{"no_bids_yet", Auction{StartingPrice: 5000, BidIncrement: 100}, 5000},
		{"after_first_bid", Auction{StartingPrice: 5000, CurrentBid: 5000, BidIncrement: 100, BidCount: 1}, 5100},
		{"custom_increment", Auction{StartingPrice: 1000, CurrentBid: 1500, BidIncrement: 250, BidCount: 3}, 1750},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.auction.NextBidMinimum())
		})
	}
}

/*
TestNewDetail checks the derived view fields, including reserve privacy.
*/
func TestNewDetail(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	a := &Auction{
		StartsAt:     now.Add(-time.Hour),
		EndsAt:       now.Add(3600 * time.Second),
		ReservePrice: pointer.To(int64(9000)),
	}

	detail := NewDetail(a, now)
	assert.Equal(t, StatusLive, detail.Status)
	assert.Equal(t, "1h 0m 0s", detail.Countdown)
	assert.True(t, detail.HasReserve)
	assert.Equal(t, now, detail.ServerTime)
}
