// Package auction implements the timed-sale coordination service: the
// lifecycle state machine, bid ordering and validation, settlement, and the
// live event stream that pushes bid activity to connected clients.
package auction

import "time"

// Status is the phase of an auction. The authoritative value is always
// derived from the clock via [Auction.StatusAt]; the persisted phase column
// only records which transitions the scheduler has already announced.
type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusLive     Status = "live"
	StatusEnded    Status = "ended"
)

// Auction is a timed sale of a single artwork. Amounts are whole SAR.
type Auction struct {
	ID            string     `json:"id"`
	ArtworkID     string     `json:"artwork_id"`
	SellerID      string     `json:"seller_id"`
	Title         string     `json:"title"`
	StartingPrice int64      `json:"starting_price"`
	ReservePrice  *int64     `json:"-"` // never exposed to bidders
	CurrentBid    int64      `json:"current_bid"`
	BidIncrement  int64      `json:"bid_increment"`
	BidCount      int        `json:"bid_count"`
	Currency      string     `json:"currency"`
	StartsAt      time.Time  `json:"starts_at"`
	EndsAt        time.Time  `json:"ends_at"`
	Phase         Status     `json:"-"`
	WinnerID      *string    `json:"winner_id,omitempty"`
	WatchCount    int        `json:"watch_count"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"-"`
}

// StatusAt derives the auction status at instant t. Transitions are
// one-directional: upcoming until StartsAt, live until EndsAt, then ended.
func (a *Auction) StatusAt(t time.Time) Status {
	if t.Before(a.StartsAt) {
		return StatusUpcoming
	}
	if t.Before(a.EndsAt) {
		return StatusLive
	}
	return StatusEnded
}

// NextBidMinimum is the lowest amount the next bid may carry.
func (a *Auction) NextBidMinimum() int64 {
	if a.BidCount == 0 {
		return a.StartingPrice
	}
	return a.CurrentBid + a.BidIncrement
}

// Detail is the API shape of a single auction: the record plus the
// server-computed view fields clients need to render a consistent clock.
type Detail struct {
	*Auction
	Status     Status    `json:"status"`
	HasReserve bool      `json:"has_reserve"`
	Countdown  string    `json:"countdown"`
	ServerTime time.Time `json:"server_time"`
}

// NewDetail snapshots an auction as seen at instant now. The reserve amount
// itself stays private; bidders only learn whether one exists.
func NewDetail(a *Auction, now time.Time) *Detail {
	return &Detail{
		Auction:    a,
		Status:     a.StatusAt(now),
		HasReserve: a.ReservePrice != nil,
		Countdown:  Countdown(a.EndsAt.Sub(now)),
		ServerTime: now.UTC(),
	}
}

// Filter holds the parameters for a paginated auction search. Status filters
// on the derived status, not the persisted phase.
type Filter struct {
	Status    Status
	ArtworkID string
	SellerID  string
}

const (
	FieldArtworkID     = "artwork_id"
	FieldTitle         = "title"
	FieldStartingPrice = "starting_price"
	FieldReservePrice  = "reserve_price"
	FieldBidIncrement  = "bid_increment"
	FieldAmount        = "amount"
	FieldStartsAt      = "starts_at"
	FieldEndsAt        = "ends_at"
)
