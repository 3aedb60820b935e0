package auction

import (
	"context"
	"log/slog"
	"time"

	"github.com/lawhahq/lawha/internal/platform/constants"
)

// Scheduler drives time-based auction transitions. It wakes on a fixed tick,
// finds auctions whose persisted phase lags the clock, and lets the service
// persist the transition, settle, and publish events. It runs until its
// context is cancelled.
type Scheduler struct {
	service  *Service
	logger   *slog.Logger
	interval time.Duration
}

func NewScheduler(service *Service, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		service:  service,
		logger:   logger,
		interval: constants.AuctionTickInterval,
	}
}

// Run blocks until ctx is cancelled. A failed tick is logged and retried on
// the next one; transitions are idempotent so a retry never double-settles.
func (scheduler *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(scheduler.interval)
	defer ticker.Stop()

	scheduler.logger.Info("auction_scheduler_started",
		slog.Duration("interval", scheduler.interval),
	)

	for {
		select {
		case <-ctx.Done():
			scheduler.logger.Info("auction_scheduler_stopped")
			return
		case <-ticker.C:
			scheduler.Tick(ctx)
		}
	}
}

// Tick processes every transition due at the current instant.
func (scheduler *Scheduler) Tick(ctx context.Context) {
	now := scheduler.service.now()

	due, err := scheduler.service.repo.DueTransitions(ctx, now)
	if err != nil {
		scheduler.logger.Error("auction_scheduler_query_failed", slog.String("error", err.Error()))
		return
	}

	for _, a := range due {
		if err := scheduler.service.transition(ctx, a, now); err != nil {
			scheduler.logger.Error("auction_transition_failed",
				slog.String("auction_id", a.ID),
				slog.String("error", err.Error()),
			)
		}
	}
}
