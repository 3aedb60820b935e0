package auction

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/lawhahq/lawha/internal/platform/dberr"
)

// MemoryRepository is a mutex-guarded in-process Repository. It backs tests
// and local development without Postgres; the lock stands in for the row
// lock the SQL store takes, giving bids the same strict ordering.
type MemoryRepository struct {
	mu       sync.Mutex
	auctions map[string]*Auction
	bids     map[string][]*Bid
	watches  map[string]map[string]struct{}
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		auctions: make(map[string]*Auction),
		bids:     make(map[string][]*Bid),
		watches:  make(map[string]map[string]struct{}),
	}
}

func (repository *MemoryRepository) List(_ context.Context, f Filter, limit, offset int) ([]*Auction, int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	now := time.Now()
	var matched []*Auction
	for _, a := range repository.auctions {
		if a.DeletedAt != nil {
			continue
		}
		if f.Status != "" && a.StatusAt(now) != f.Status {
			continue
		}
		if f.ArtworkID != "" && a.ArtworkID != f.ArtworkID {
			continue
		}
		if f.SellerID != "" && a.SellerID != f.SellerID {
			continue
		}
		matched = append(matched, cloneAuction(a))
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].EndsAt.Before(matched[j].EndsAt) })

	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (repository *MemoryRepository) Get(_ context.Context, id string) (*Auction, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	a, ok := repository.auctions[id]
	if !ok || a.DeletedAt != nil {
		return nil, dberr.ErrNotFound
	}
	a.WatchCount = len(repository.watches[id])
	return cloneAuction(a), nil
}

func (repository *MemoryRepository) Create(_ context.Context, a *Auction) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	repository.auctions[a.ID] = cloneAuction(a)
	return nil
}

func (repository *MemoryRepository) Update(_ context.Context, a *Auction) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	existing, ok := repository.auctions[a.ID]
	if !ok || existing.DeletedAt != nil {
		return dberr.ErrNotFound
	}
	a.UpdatedAt = time.Now().UTC()
	repository.auctions[a.ID] = cloneAuction(a)
	return nil
}

func (repository *MemoryRepository) Delete(_ context.Context, id string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	a, ok := repository.auctions[id]
	if !ok || a.DeletedAt != nil {
		return dberr.ErrNotFound
	}
	now := time.Now().UTC()
	a.DeletedAt = &now
	return nil
}

func (repository *MemoryRepository) PlaceBid(_ context.Context, auctionID string, decide func(a *Auction) (*Bid, error)) (*Bid, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	a, ok := repository.auctions[auctionID]
	if !ok || a.DeletedAt != nil {
		return nil, dberr.ErrNotFound
	}

	bid, err := decide(cloneAuction(a))
	if err != nil {
		return nil, err
	}

	repository.bids[auctionID] = append(repository.bids[auctionID], bid)
	a.CurrentBid = bid.Amount
	a.BidCount++
	a.UpdatedAt = time.Now().UTC()
	return bid, nil
}

func (repository *MemoryRepository) ListBids(_ context.Context, auctionID string, limit, offset int) ([]*Bid, int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored := repository.bids[auctionID]
	newest := make([]*Bid, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		clone := *stored[i]
		newest = append(newest, &clone)
	}

	total := len(newest)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return newest[offset:end], total, nil
}

func (repository *MemoryRepository) HighestBid(_ context.Context, auctionID string) (*Bid, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	var highest *Bid
	for _, bid := range repository.bids[auctionID] {
		if highest == nil || bid.Amount > highest.Amount {
			highest = bid
		}
	}
	if highest == nil {
		return nil, dberr.ErrNotFound
	}
	clone := *highest
	return &clone, nil
}

func (repository *MemoryRepository) DueTransitions(_ context.Context, now time.Time) ([]*Auction, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	var due []*Auction
	for _, a := range repository.auctions {
		if a.DeletedAt != nil {
			continue
		}
		if (a.Phase == StatusUpcoming && !a.StartsAt.After(now)) ||
			(a.Phase == StatusLive && !a.EndsAt.After(now)) {
			due = append(due, cloneAuction(a))
		}
	}

	sort.Slice(due, func(i, j int) bool { return due[i].EndsAt.Before(due[j].EndsAt) })
	return due, nil
}

func (repository *MemoryRepository) SetPhase(_ context.Context, id string, phase Status) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	a, ok := repository.auctions[id]
	if !ok || a.DeletedAt != nil {
		return dberr.ErrNotFound
	}
	a.Phase = phase
	return nil
}

func (repository *MemoryRepository) SetWinner(_ context.Context, auctionID string, winning *Bid) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	a, ok := repository.auctions[auctionID]
	if !ok {
		return dberr.ErrNotFound
	}

	for _, bid := range repository.bids[auctionID] {
		bid.IsWinning = winning != nil && bid.ID == winning.ID
	}

	if winning == nil {
		a.WinnerID = nil
	} else {
		bidderID := winning.BidderID
		a.WinnerID = &bidderID
	}
	return nil
}

func (repository *MemoryRepository) ToggleWatch(_ context.Context, auctionID, userID string) (bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.watches[auctionID] == nil {
		repository.watches[auctionID] = make(map[string]struct{})
	}

	if _, watching := repository.watches[auctionID][userID]; watching {
		delete(repository.watches[auctionID], userID)
		return false, nil
	}
	repository.watches[auctionID][userID] = struct{}{}
	return true, nil
}

func cloneAuction(a *Auction) *Auction {
	clone := *a
	if a.ReservePrice != nil {
		reserve := *a.ReservePrice
		clone.ReservePrice = &reserve
	}
	if a.WinnerID != nil {
		winner := *a.WinnerID
		clone.WinnerID = &winner
	}
	return &clone
}
