// Copyright (c) 2026 Lawha. All rights reserved.

// Command api is the entry point for the Lawha HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire domain services and HTTP handlers.
//  7. Start the auction lifecycle scheduler.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/lawhahq/lawha/internal/api"
	"github.com/lawhahq/lawha/internal/auction"
	"github.com/lawhahq/lawha/internal/commerce/invoice"
	"github.com/lawhahq/lawha/internal/commerce/shipping"
	"github.com/lawhahq/lawha/internal/core/artist"
	"github.com/lawhahq/lawha/internal/core/artwork"
	"github.com/lawhahq/lawha/internal/core/event"
	"github.com/lawhahq/lawha/internal/core/gallery"
	"github.com/lawhahq/lawha/internal/core/workshop"
	"github.com/lawhahq/lawha/internal/dashboard"
	"github.com/lawhahq/lawha/internal/platform/config"
	"github.com/lawhahq/lawha/internal/platform/constants"
	"github.com/lawhahq/lawha/internal/platform/migration"
	pgstore "github.com/lawhahq/lawha/internal/platform/postgres"
	redisstore "github.com/lawhahq/lawha/internal/platform/redis"
	"github.com/lawhahq/lawha/internal/platform/sec"
	"github.com/lawhahq/lawha/internal/users/account"
	"github.com/lawhahq/lawha/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "lawha"))
	slog.SetDefault(log)

	log.Info("[Lawha] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "lawha"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Auth Service ───────────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	authService := auth.NewService(
		auth.NewUserRepository(pool),
		auth.NewSessionRepository(pool),
		auth.NewResetTokenRepository(rdb),
		auth.NewVerificationTokenRepository(rdb),
		jwtSvc,
	)

	accountService := account.NewService(
		account.NewAccountRepository(pool),
		account.NewSessionRepository(pool),
		log,
	)

	galleryService := gallery.NewService(gallery.NewPostgresRepository(pool), log)
	artistService := artist.NewService(artist.NewPostgresRepository(pool), log)
	artworkService := artwork.NewService(artwork.NewPostgresRepository(pool), log)

	broker := auction.NewRedisBroker(rdb, log)
	auctionService := auction.NewService(auction.NewPostgresRepository(pool), broker, artworkService, log)
	scheduler := auction.NewScheduler(auctionService, log)

	eventService := event.NewService(event.NewPostgresRepository(pool), log)
	workshopService := workshop.NewService(workshop.NewPostgresRepository(pool), log)

	invoiceService := invoice.NewService(
		invoice.NewPostgresRepository(pool),
		cfg.ZATCASellerName, cfg.ZATCAVATNumber,
		log,
	)
	shippingService := shipping.NewService(shipping.NewPostgresRepository(pool), log)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,

		Auth:    auth.NewHandler(authService),
		Account: account.NewHandler(accountService),

		Gallery: gallery.NewHandler(galleryService),
		Artist:  artist.NewHandler(artistService),
		Artwork: artwork.NewHandler(artworkService),
		Auction: auction.NewHandler(auctionService),

		Event:    event.NewHandler(eventService),
		Workshop: workshop.NewHandler(workshopService),

		Invoice:  invoice.NewHandler(invoiceService),
		Shipping: shipping.NewHandler(shippingService),

		Dashboard: dashboard.NewHandler(dashboard.NewPostgresRepository(pool)),
	}

	// Long-lived context for background workers, cancelled at shutdown.
	runCtx, runCancel := context.WithCancel(context.Background())
	defer runCancel()

	server := api.NewServer(runCtx, cfg, log, jwtSvc, handlers)

	// ── 10. Auction lifecycle scheduler ───────────────────────────────────
	var workers sync.WaitGroup
	workers.Add(1)
	go func() {
		defer workers.Done()
		scheduler.Run(runCtx)
	}()

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	// Stop the scheduler and any open event subscriptions.
	runCancel()
	workers.Wait()

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
