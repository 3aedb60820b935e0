package auction

import (
	"context"
	"time"
)

type Repository interface {
	List(context context.Context, f Filter, limit, offset int) ([]*Auction, int, error)
	Get(context context.Context, id string) (*Auction, error)
	Create(context context.Context, a *Auction) error
	Update(context context.Context, a *Auction) error
	Delete(context context.Context, id string) error

	// PlaceBid runs decide against the auction row held under an exclusive
	// lock, serializing concurrent bidders. When decide returns a bid, the
	// bid row and the bumped current_bid/bid_count are persisted in the same
	// transaction; any error from decide rolls everything back.
	PlaceBid(context context.Context, auctionID string, decide func(a *Auction) (*Bid, error)) (*Bid, error)
	ListBids(context context.Context, auctionID string, limit, offset int) ([]*Bid, int, error)
	HighestBid(context context.Context, auctionID string) (*Bid, error)

	// DueTransitions returns auctions whose persisted phase lags the status
	// derived at now. SetWinner with a nil bid records a no-sale settlement.
	DueTransitions(context context.Context, now time.Time) ([]*Auction, error)
	SetPhase(context context.Context, id string, phase Status) error
	SetWinner(context context.Context, auctionID string, winning *Bid) error

	// ToggleWatch flips the caller's watch flag and reports the new state.
	ToggleWatch(context context.Context, auctionID, userID string) (bool, error)
}
