// Copyright (c) 2026 SJD-Portal. All rights reserved.
// Author: dev@sjdportal.in

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (backend client, session) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the gateway is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/sjdportal/darbar/internal/platform/constants"
)

// # Configuration Schema

// Config holds all runtime configuration for the SJD-Portal gateway.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"4000"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Grievance backend REST API base URL (external collaborator).
	BackendURL string `env:"SJD_BACKEND_URL,required"`

	// Static-asset base URL used to resolve relative photo paths.
	// Defaults to <BackendURL>/uploads when empty.
	UploadsURL string `env:"SJD_UPLOADS_URL"`

	// IdleWindow is the inactivity span before forced logout.
	IdleWindow time.Duration `env:"SJD_IDLE_WINDOW" envDefault:"60m"`

	// SessionFile is the durable session state file (file store).
	SessionFile string `env:"SJD_SESSION_FILE" envDefault:"./sjd_session.json"`

	// RedisURL, when set, switches durable session storage to Redis.
	RedisURL string `env:"REDIS_URL"`

	// DeskID namespaces Redis session keys so several kiosk gateways can
	// share one Redis instance.
	DeskID string `env:"SJD_DESK_ID" envDefault:"desk-1"`

	// CookieSecret signs the browser-binding session cookie.
	CookieSecret string `env:"SJD_COOKIE_SECRET,required"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	cfg.BackendURL = strings.TrimRight(cfg.BackendURL, "/")

	// Derive the uploads base from the backend URL unless overridden.
	if cfg.UploadsURL == "" {
		cfg.UploadsURL = cfg.BackendURL + "/uploads"
	}
	cfg.UploadsURL = strings.TrimRight(cfg.UploadsURL, "/")

	if cfg.IdleWindow <= 0 {
		cfg.IdleWindow = constants.DefaultIdleWindow
	}

	return cfg, nil
}

// IsDevelopment reports whether the gateway is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the gateway is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// UseRedisStore reports whether durable session storage should use Redis
// instead of the local state file.
func (c *Config) UseRedisStore() bool {
	return c.RedisURL != ""
}
