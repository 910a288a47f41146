// Copyright (c) 2026 SJD-Portal. All rights reserved.
// Author: dev@sjdportal.in

/*
Package api wires together the HTTP router, middleware chain, and the
portal handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/portal are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/sjdportal/darbar/internal/platform/config"
	"github.com/sjdportal/darbar/internal/platform/constants"
	"github.com/sjdportal/darbar/internal/platform/middleware"
	"github.com/sjdportal/darbar/internal/portal"
	"github.com/sjdportal/darbar/internal/routing"
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

// Handlers groups the HTTP handler sets the server mounts.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when the backend (and
	// Redis, when configured) respond.
	Readiness http.HandlerFunc

	// Portal serves the auth entry points, the landing page, and every
	// role subtree.
	Portal *portal.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
//
// The six role subtrees come straight from the [routing] tables, so adding
// a role there mounts its routes here with no server change.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.NewRateLimiter(ctx, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst).Middleware())
	r.Use(middleware.PanicRecovery(log))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Portal Surface
	// Credential attempts get their own, much stricter bucket.
	loginThrottle := middleware.NewRateLimiter(ctx, constants.LoginRateLimitRPS, constants.LoginRateLimitBurst)
	h.Portal.RegisterAuthRoutes(r, loginThrottle.Middleware())

	for _, subtree := range routing.Subtrees() {
		r.Mount(subtree.Prefix, h.Portal.SubtreeRoutes(subtree))
	}

	r.Get("/", h.Portal.PublicHome)
	r.NotFound(h.Portal.NotFoundRedirect)

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
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
