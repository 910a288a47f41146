// Copyright (c) 2026 SJD-Portal. All rights reserved.
// Author: dev@sjdportal.in

// Command portal is the entry point for the SJD-Portal gateway.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load .env (development convenience) and environment configuration.
//  3. Construct the backend client with the bearer interceptor.
//  4. Select the durable session store (file or Redis).
//  5. Resume any persisted session — before the listener starts, so the
//     route guard never observes a half-resumed session.
//  6. Wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
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
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/sjdportal/darbar/internal/api"
	"github.com/sjdportal/darbar/internal/backend"
	"github.com/sjdportal/darbar/internal/platform/config"
	"github.com/sjdportal/darbar/internal/platform/constants"
	redisclient "github.com/sjdportal/darbar/internal/platform/redis"
	"github.com/sjdportal/darbar/internal/platform/sec"
	"github.com/sjdportal/darbar/internal/portal"
	"github.com/sjdportal/darbar/internal/session"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("[SJD-Portal] gateway_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn("dotenv_load_failed", slog.Any("error", err))
	}

	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("backend", cfg.BackendURL),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Backend Client ─────────────────────────────────────────────────
	client := backend.NewClient(cfg.BackendURL, cfg.UploadsURL, log)

	// ── 4. Session Store ──────────────────────────────────────────────────
	var store session.Store
	var rdb *redis.Client
	if cfg.UseRedisStore() {
		rdb, err = redisclient.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()
		store = session.NewRedisStore(rdb, cfg.DeskID)
	} else {
		store = session.NewFileStore(cfg.SessionFile)
	}

	// ── 5. Session Resume ─────────────────────────────────────────────────
	sess := session.NewSession(client, store, log, session.WithIdleWindow(cfg.IdleWindow))
	must(log, sess.Start(startupCtx), "resume session")
	defer sess.Close()

	// ── 6. Security & Handlers ────────────────────────────────────────────
	cookieService, err := sec.NewCookieService(cfg.CookieSecret, constants.CookieIssuer)
	must(log, err, "initialize cookie service")

	healthDeps := api.HealthDependencies{
		CheckBackend: func() error {
			return client.Ping(context.Background())
		},
	}
	if rdb != nil {
		healthDeps.CheckCache = func() error {
			return redisclient.Ping(context.Background(), rdb)
		}
	}
	liveness, readiness := api.NewHealthHandlers(healthDeps, log)

	portalHandler := portal.NewHandler(sess, client, cookieService, log)

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Portal:    portalHandler,
	})

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
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
