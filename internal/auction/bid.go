package auction

import "time"

// Bid is an accepted offer on an auction. BidderName is denormalized at
// insert time so listings never join against the account table.
type Bid struct {
	ID         string    `json:"id"`
	AuctionID  string    `json:"auction_id"`
	BidderID   string    `json:"-"`
	BidderName string    `json:"bidder_name"`
	Amount     int64     `json:"amount"`
	IsWinning  bool      `json:"is_winning"`
	CreatedAt  time.Time `json:"created_at"`
}

// AnonymizeBidder shortens a display name for public bid listings:
// "Mohammed" becomes "Moh***". Names of three characters or fewer keep
// their first character only.
func AnonymizeBidder(name string) string {
	runes := []rune(name)
	if len(runes) == 0 {
		return "***"
	}
	if len(runes) <= 3 {
		return string(runes[:1]) + "***"
	}
	return string(runes[:3]) + "***"
}
