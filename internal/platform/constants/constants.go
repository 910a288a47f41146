// Copyright (c) 2026 SJD-Portal. All rights reserved.
// Author: dev@sjdportal.in

/*
Package constants provides centralized, immutable values for the portal gateway.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Session: Durable storage keys, cookie configuration, idle window.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "sjd-portal-gateway"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle,
	// including the proxied backend round trip.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second

	// BackendRequestTimeout is the per-call deadline for the grievance backend.
	BackendRequestTimeout = 15 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 50.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 75

	// LoginRateLimitRPS throttles credential attempts per IP. Kept very low:
	// the backend is the real brute-force defense, this only blunts loops.
	LoginRateLimitRPS = 1.0

	// LoginRateLimitBurst allows a short run of retries after a typo.
	LoginRateLimitBurst = 5

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Session & Identity

const (
	// CookieIssuer is the standard 'iss' claim in the gateway session cookie.
	CookieIssuer = "sjd-portal"

	// SessionCookieName is the cookie that binds the browser to the gateway session.
	SessionCookieName = "sjd_session"

	// SessionCookieTTL bounds how long a minted browser binding stays valid.
	// The inactivity monitor usually logs the session out first.
	SessionCookieTTL = 12 * time.Hour

	// DefaultIdleWindow is the inactivity span after which the session is
	// forcibly logged out. Matches the original portal's 60-minute timer.
	DefaultIdleWindow = 60 * time.Minute

	// StorageKeyToken is the durable storage key for the bearer token.
	StorageKeyToken = "sjd_token"

	// StorageKeyUser is the durable storage key for the serialized profile.
	StorageKeyUser = "sjd_user"

	// RedisPrefixSession namespaces gateway session keys in shared Redis.
	RedisPrefixSession = "sjd:session:"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderAuthorization = "Authorization"
	HeaderOrigin        = "Origin"
)

// # Route Surface

const (
	// PathLogin is the login entry point every forced logout navigates to.
	PathLogin = "/login"

	// PathHome is the public home unauthorized role access redirects to.
	PathHome = "/"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldChecks  = "checks"
)
