// Copyright (c) 2026 Lawha. All rights reserved.

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

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
	"github.com/lawhahq/lawha/internal/platform/middleware"
	"github.com/lawhahq/lawha/internal/users/account"
	"github.com/lawhahq/lawha/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger

	// stopStreams cancels every open event-stream request. Shutdown calls it
	// first: an SSE connection never goes idle on its own, so without this
	// [http.Server.Shutdown] would wait out its full deadline.
	stopStreams context.CancelFunc
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles authentication routes (login, register, refresh, reset).
	Auth *auth.Handler

	// Account handles the member profile and the admin user surface.
	Account *account.Handler

	// Gallery, Artist, and Artwork form the public catalog.
	Gallery *gallery.Handler
	Artist  *artist.Handler
	Artwork *artwork.Handler

	// Auction handles timed sales, bids, watches, and the live event stream.
	Auction *auction.Handler

	// Event and Workshop cover gallery programming.
	Event    *event.Handler
	Workshop *workshop.Handler

	// Invoice and Shipping are the seller commerce surface.
	Invoice  *invoice.Handler
	Shipping *shipping.Handler

	// Dashboard serves the seller and collector home screens.
	Dashboard *dashboard.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(runContext context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	// Streams end when the run context is cancelled or Shutdown begins,
	// whichever comes first.
	streamContext, stopStreams := context.WithCancel(runContext)

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(streamAwareTimeout(constants.GlobalRequestTimeout, streamContext))
	r.Use(middleware.RateLimit(runContext))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/me", h.Account.Routes())
		api.Mount("/admin/users", h.Account.AdminRoutes())

		api.Mount("/galleries", h.Gallery.Routes())
		api.Mount("/artists", h.Artist.Routes())
		api.Mount("/artworks", h.Artwork.Routes())
		api.Mount("/auctions", h.Auction.Routes())

		api.Mount("/events", h.Event.Routes())
		api.Mount("/workshops", h.Workshop.Routes())

		api.Mount("/invoices", h.Invoice.Routes())
		api.Mount("/shipping", h.Shipping.Routes())

		api.Mount("/seller", h.Dashboard.SellerRoutes())
		api.Mount("/collector", h.Dashboard.CollectorRoutes())
	})

	return &Server{
		router:      r,
		log:         log,
		stopStreams: stopStreams,
		httpServer: &http.Server{
			Addr:    ":" + cfg.ServerPort,
			Handler: r,
			// WriteTimeout stays unset: the auction event stream holds its
			// connection open indefinitely. Slow-request protection comes
			// from the per-request timeout middleware instead.
			ReadTimeout:       constants.DefaultReadTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// streamAwareTimeout applies the global request deadline to everything
// except the long-lived SSE endpoints. Stream requests instead inherit
// cancellation from streamContext so that server shutdown closes them.
func streamAwareTimeout(timeout time.Duration, streamContext context.Context) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		bounded := chimw.Timeout(timeout)(next)
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if strings.HasSuffix(request.URL.Path, "/stream") {
				requestContext, cancel := context.WithCancel(request.Context())
				defer cancel()
				defer context.AfterFunc(streamContext, cancel)()

				next.ServeHTTP(writer, request.WithContext(requestContext))
				return
			}
			bounded.ServeHTTP(writer, request)
		})
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
//
// Open event streams are cancelled up front; without that, Shutdown would
// wait its full deadline on connections that never go idle.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.stopStreams()

	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
