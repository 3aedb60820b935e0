package auction

import (
	"context"
	"sync"
	"time"
)

// # Event types

const (
	EventBidPlaced    = "bid.placed"
	EventAuctionLive  = "auction.live"
	EventAuctionEnded = "auction.ended"
)

// Event is one item on an auction's live channel. Bidder is already
// anonymized when the event is published.
type Event struct {
	Type      string    `json:"type"`
	AuctionID string    `json:"auction_id"`
	Amount    int64     `json:"amount,omitempty"`
	BidCount  int       `json:"bid_count,omitempty"`
	Bidder    string    `json:"bidder,omitempty"`
	At        time.Time `json:"at"`
}

// Broker fans auction events out to stream subscribers. The production
// implementation rides Redis Pub/Sub so every API instance sees every event;
// the in-memory implementation backs tests and single-node setups.
type Broker interface {
	// Publish delivers the event to all current subscribers of its auction.
	Publish(ctx context.Context, event Event) error
	// Subscribe returns a channel of events for one auction. The channel is
	// closed when ctx is cancelled; slow consumers drop events rather than
	// block the publisher.
	Subscribe(ctx context.Context, auctionID string) (<-chan Event, error)
}

// MemoryBroker is a process-local Broker.
type MemoryBroker struct {
	mu   sync.RWMutex
	subs map[string]map[chan Event]struct{}
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{subs: make(map[string]map[chan Event]struct{})}
}

func (broker *MemoryBroker) Publish(_ context.Context, event Event) error {
	broker.mu.RLock()
	defer broker.mu.RUnlock()

	for ch := range broker.subs[event.AuctionID] {
		select {
		case ch <- event:
		default: // drop for slow consumers
		}
	}
	return nil
}

func (broker *MemoryBroker) Subscribe(ctx context.Context, auctionID string) (<-chan Event, error) {
	ch := make(chan Event, 16)

	broker.mu.Lock()
	if broker.subs[auctionID] == nil {
		broker.subs[auctionID] = make(map[chan Event]struct{})
	}
	broker.subs[auctionID][ch] = struct{}{}
	broker.mu.Unlock()

	go func() {
		<-ctx.Done()

		broker.mu.Lock()
		delete(broker.subs[auctionID], ch)
		if len(broker.subs[auctionID]) == 0 {
			delete(broker.subs, auctionID)
		}
		broker.mu.Unlock()

		close(ch)
	}()

	return ch, nil
}
