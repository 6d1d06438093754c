// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

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
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taibuivan/repairment/internal/platform/config"
	"github.com/taibuivan/repairment/internal/platform/constants"
	"github.com/taibuivan/repairment/internal/platform/middleware"
	"github.com/taibuivan/repairment/internal/repair/category"
	"github.com/taibuivan/repairment/internal/repair/ticket"
	"github.com/taibuivan/repairment/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler; it returns 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler; it returns 200 when Postgres and Redis answer.
	Readiness http.HandlerFunc

	// Account handles login, signup, session and logout.
	Account *auth.Handler

	// Ticket handles registration, triage and the pricing workflow.
	Ticket *ticket.Handler

	// Category serves and creates repair categories.
	Category *category.Handler
}

// Observability bundles the request metrics and the registry they are exposed from.
type Observability struct {
	Metrics  *middleware.Metrics
	Gatherer prometheus.Gatherer
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
//
// Authentication runs after the request logger so that the logger's writer
// can pick up the username.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, observability Observability, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	r.Use(middleware.RequestID())
	r.Use(observability.Metrics.Instrument)
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(middleware.RateLimit(context))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(observability.Gatherer, promhttp.HandlerOpts{}))

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.NoStore)
		api.Use(chimw.Timeout(constants.GlobalRequestTimeout))
		api.Use(middleware.Authenticate(verifier))

		api.Mount("/user", h.Account.Routes())
		api.Route("/service", func(service chi.Router) {
			service.Mount("/applications", h.Ticket.Routes())
			service.Mount("/statuses", h.Ticket.StatusRoutes())
			service.Mount("/categories", h.Category.Routes())
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router. Tests serve requests through it without a listener.
func (s *Server) Handler() http.Handler {
	return s.router
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
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
