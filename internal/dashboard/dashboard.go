// Package dashboard aggregates cross-domain read models for the seller and
// collector home screens.
package dashboard

import "time"

// AuctionSummary is the compact auction card shared by both dashboards.
type AuctionSummary struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	CurrentBid int64     `json:"current_bid"`
	BidCount   int       `json:"bid_count"`
	Currency   string    `json:"currency"`
	EndsAt     time.Time `json:"ends_at"`
}

// SellerDashboard summarizes a seller's catalog and sale performance.
type SellerDashboard struct {
	ArtworkCount     int              `json:"artwork_count"`
	AuctionsUpcoming int              `json:"auctions_upcoming"`
	AuctionsLive     int              `json:"auctions_live"`
	AuctionsEnded    int              `json:"auctions_ended"`
	LiveAuctions     []AuctionSummary `json:"live_auctions"`
	GrossSales       int64            `json:"gross_sales"`
}

// BidPosition is a collector's standing in one live auction.
type BidPosition struct {
	AuctionSummary
	MyHighestBid int64 `json:"my_highest_bid"`
	Leading      bool  `json:"leading"`
}

// CollectorDashboard summarizes a collector's auction activity.
type CollectorDashboard struct {
	ActiveBids      []BidPosition    `json:"active_bids"`
	WonAuctions     []AuctionSummary `json:"won_auctions"`
	WatchedAuctions []AuctionSummary `json:"watched_auctions"`
}
