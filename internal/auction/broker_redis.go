package auction

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/lawhahq/lawha/internal/platform/constants"
)

// RedisBroker fans events out through a per-auction Pub/Sub channel so
// subscribers on every API instance see the same stream.
type RedisBroker struct {
	client *redis.Client
	logger *slog.Logger
}

func NewRedisBroker(client *redis.Client, logger *slog.Logger) *RedisBroker {
	return &RedisBroker{client: client, logger: logger}
}

func channelFor(auctionID string) string {
	return constants.RedisPrefixAuctionEvent + auctionID
}

func (broker *RedisBroker) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return broker.client.Publish(ctx, channelFor(event.AuctionID), payload).Err()
}

func (broker *RedisBroker) Subscribe(ctx context.Context, auctionID string) (<-chan Event, error) {
	pubsub := broker.client.Subscribe(ctx, channelFor(auctionID))

	// Force the subscription onto the wire before the caller starts waiting.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	events := make(chan Event, 16)

	go func() {
		defer close(events)
		defer pubsub.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case message, ok := <-pubsub.Channel():
				if !ok {
					return
				}

				var event Event
				if err := json.Unmarshal([]byte(message.Payload), &event); err != nil {
					broker.logger.Warn("auction_event_decode_failed",
						slog.String("auction_id", auctionID),
						slog.String("error", err.Error()),
					)
					continue
				}

				select {
				case events <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return events, nil
}
