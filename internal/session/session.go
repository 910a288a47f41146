// Copyright (c) 2026 SJD-Portal. All rights reserved.
// Author: dev@sjdportal.in

/*
Package session implements the portal's single source of truth for "who is
logged in".

It owns the bearer token, the confirmed profile, durable persistence, the
inactivity monitor, and the forced-logout paths (idle expiry and backend 401).

# State Machine

	ANONYMOUS --Login()--> AUTHENTICATING --profile confirmed--> AUTHENTICATED
	AUTHENTICATING --profile fetch fails--> ANONYMOUS (internal logout)
	AUTHENTICATED  --Logout()------------> ANONYMOUS

A process-restart resume enters AUTHENTICATING directly from the durable
store and settles before the route surface serves traffic.

# Concurrency

The mutex is held only for state mutation, never across a network call.
Transitions are serialized by a generation counter: Login and Logout each
bump it, and any in-flight operation that finds the counter moved discards
its result instead of resurrecting stale state.
*/
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sjdportal/darbar/internal/backend"
	"github.com/sjdportal/darbar/internal/platform/apperr"
	"github.com/sjdportal/darbar/internal/platform/constants"
)

// # Contracts & Types

// State is the session lifecycle phase.
type State string

const (
	// StateAnonymous means no token is held.
	StateAnonymous State = "anonymous"

	// StateAuthenticating means a token is held but the profile is not yet confirmed.
	StateAuthenticating State = "authenticating"

	// StateAuthenticated means both token and confirmed profile are held.
	StateAuthenticated State = "authenticated"
)

// Backend is the slice of the backend client the session depends on.
//
// # Why an interface?
//
// Decoupling from [backend.Client] lets tests drive the full state machine
// with a scripted fake, including a profile fetch that blocks until the test
// releases it.
type Backend interface {
	Login(ctx context.Context, input backend.LoginInput) (string, error)
	Profile(ctx context.Context) (*backend.Profile, error)
	Register(ctx context.Context, input backend.RegisterInput) error

	SetToken(token string)
	ClearToken()
	InstallUnauthorizedHook(hook func())
	RemoveUnauthorizedHook()
}

// Session is the process-wide login state. One instance exists per running
// gateway; it is constructed at startup and injected into consumers, never
// reached through a package-level global.
type Session struct {
	backend    Backend
	store      Store
	log        *slog.Logger
	idleWindow time.Duration
	navigate   func(target string)

	mu         sync.Mutex
	token      string
	user       *backend.Profile
	loading    bool
	generation uint64
	idle       *IdleMonitor
	started    bool
}

// Option customizes a [Session].
type Option func(*Session)

// WithIdleWindow overrides the default 60-minute inactivity window.
// A zero or negative window disables the monitor.
func WithIdleWindow(window time.Duration) Option {
	return func(s *Session) { s.idleWindow = window }
}

// WithNavigator sets the hook invoked with the login path whenever a logout
// (voluntary or forced) completes. The route guard performs the actual
// redirect; this hook exists for UI surfaces that need to react immediately.
func WithNavigator(navigate func(target string)) Option {
	return func(s *Session) { s.navigate = navigate }
}

// NewSession constructs an anonymous [Session].
func NewSession(client Backend, store Store, logger *slog.Logger, options ...Option) *Session {
	s := &Session{
		backend:    client,
		store:      store,
		log:        logger,
		idleWindow: constants.DefaultIdleWindow,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// # Lifecycle

/*
Start installs the response interceptor and resumes a persisted session.

Description: If the durable store holds a token, it is attached as the
process-wide bearer credential and confirmed with a profile fetch. Any
failure to confirm clears the session (no token without a confirmed
profile). Start completes before the route surface serves traffic, so the
guard never observes a mid-resume session.

Returns:
  - error: nil in all session-outcome cases; resume rejection is a normal
    path, not a startup failure.
*/
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = true
	s.mu.Unlock()

	// Installed once per session lifetime; removed in Close. Replaces any
	// stale registration, so remounts never double-register.
	s.backend.InstallUnauthorizedHook(func() {
		s.log.Info("session_unauthorized_response")
		s.Logout(context.Background())
	})

	snapshot, err := s.store.Load(ctx)
	if err != nil {
		s.log.Warn("session_resume_load_failed", slog.Any("error", err))
		return nil
	}
	if snapshot.Token == "" {
		return nil
	}

	// Resume: ANONYMOUS -> AUTHENTICATING with the stored token.
	s.mu.Lock()
	s.generation++
	generation := s.generation
	s.token = snapshot.Token
	s.user = snapshot.User
	s.loading = true
	s.mu.Unlock()
	s.backend.SetToken(snapshot.Token)

	profile, err := s.backend.Profile(ctx)
	if err != nil {
		// Treated identically to expiry: forced logout. The 401 interceptor
		// may already have done it; Logout is idempotent either way.
		s.log.Info("session_resume_rejected", slog.Any("error", err))
		s.logoutIfCurrent(ctx, generation)
		return nil
	}

	s.commitProfile(ctx, generation, snapshot.Token, profile)
	s.log.Info("session_resumed",
		slog.String("user", profile.Email),
		slog.String("role", profile.Role),
	)
	return nil
}

// Close tears the session machinery down without logging the user out:
// the interceptor is removed and the idle monitor stopped, but durable
// state survives for the next process start.
func (s *Session) Close() {
	s.backend.RemoveUnauthorizedHook()

	s.mu.Lock()
	idle := s.idle
	s.idle = nil
	s.mu.Unlock()

	if idle != nil {
		idle.Stop()
	}
}

// # Operations

/*
Login authenticates against the backend and establishes the session.

Description: Strictly sequences "store token, fetch profile, store profile".
Credential rejection mutates nothing and propagates the backend's message so
the login form can display it inline.

Parameters:
  - ctx: context.Context
  - email, password: credentials forwarded to POST /auth/login

Returns:
  - *backend.Profile: The confirmed profile, so the caller can route by role.
  - error: apperr.Unauthorized on rejection; upstream errors otherwise.
*/
func (s *Session) Login(ctx context.Context, email, password string) (*backend.Profile, error) {
	s.mu.Lock()
	s.generation++
	generation := s.generation
	s.loading = true
	s.mu.Unlock()

	token, err := s.backend.Login(ctx, backend.LoginInput{Email: email, Password: password})
	if err != nil {
		// Credential rejection: no session mutation occurred.
		s.setLoading(false)
		return nil, err
	}

	// Commit the token: memory, durable storage, default bearer header.
	// The session is now AUTHENTICATING.
	s.mu.Lock()
	if s.generation != generation {
		s.mu.Unlock()
		return nil, apperr.Unauthorized("Session was closed during sign-in")
	}
	s.token = token
	s.mu.Unlock()
	s.backend.SetToken(token)
	if err := s.store.Save(ctx, Snapshot{Token: token}); err != nil {
		s.log.Warn("session_persist_failed", slog.Any("error", err))
	}

	profile, err := s.backend.Profile(ctx)
	if err != nil {
		// No token without a confirmed profile: back to ANONYMOUS.
		s.logoutIfCurrent(ctx, generation)
		return nil, err
	}

	if !s.commitProfile(ctx, generation, token, profile) {
		// A logout won the race while the profile was in flight. The late
		// response must not resurrect the user.
		return nil, apperr.Unauthorized("Session was closed during sign-in")
	}

	s.log.Info("session_authenticated",
		slog.String("user", profile.Email),
		slog.String("role", profile.Role),
	)
	return profile, nil
}

/*
Logout clears the session. Idempotent: calling it twice in a row leaves the
same cleared state with no error.

Description: Clears token and user from memory and durable storage, removes
the bearer header, stops the inactivity monitor, bumps the generation so any
in-flight operation discards its result, and fires the navigation hook.
*/
func (s *Session) Logout(ctx context.Context) {
	s.mu.Lock()
	wasActive := s.token != "" || s.user != nil
	s.token = ""
	s.user = nil
	s.loading = false
	s.generation++
	idle := s.idle
	s.idle = nil
	s.mu.Unlock()

	s.backend.ClearToken()
	if idle != nil {
		idle.Stop()
	}
	if err := s.store.Clear(ctx); err != nil {
		s.log.Warn("session_clear_failed", slog.Any("error", err))
	}

	if wasActive {
		s.log.Info("session_logged_out")
		if s.navigate != nil {
			s.navigate(constants.PathLogin)
		}
	}
}

/*
Register forwards a registration payload to the backend.

Description: Pure passthrough with a loading-flag toggle; session state is
never mutated, whatever the outcome.
*/
func (s *Session) Register(ctx context.Context, input backend.RegisterInput) error {
	s.setLoading(true)
	defer s.setLoading(false)
	return s.backend.Register(ctx, input)
}

/*
RefreshUser re-fetches the profile using the current token.

Description: No-op without a token. A confirmed authentication failure (401)
forces logout — the same policy every call site applies. A pure transport
failure is logged and leaves the session intact, since the token has not
been proven bad.
*/
func (s *Session) RefreshUser(ctx context.Context) error {
	s.mu.Lock()
	if s.token == "" {
		s.mu.Unlock()
		return nil
	}
	generation := s.generation
	token := s.token
	s.loading = true
	s.mu.Unlock()

	profile, err := s.backend.Profile(ctx)
	if err != nil {
		s.setLoading(false)
		if apperr.IsUnauthorized(err) {
			s.logoutIfCurrent(ctx, generation)
			return err
		}
		s.log.Warn("profile_refresh_failed", slog.Any("error", err))
		return err
	}

	s.commitProfile(ctx, generation, token, profile)
	return nil
}

// Touch signals user activity to the inactivity monitor.
func (s *Session) Touch() {
	s.mu.Lock()
	idle := s.idle
	s.mu.Unlock()

	if idle != nil {
		idle.Touch()
	}
}

// # Inspection

// State derives the lifecycle phase from the held fields.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.token == "":
		return StateAnonymous
	case s.user == nil || s.loading:
		return StateAuthenticating
	default:
		return StateAuthenticated
	}
}

// User returns a copy of the confirmed profile, or nil when anonymous or
// still authenticating.
func (s *Session) User() *backend.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return nil
	}
	profile := *s.user
	return &profile
}

// Loading reports whether an async session operation is in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Generation returns the current session generation. Browser-binding cookies
// embed it so a cookie minted before a logout can never re-enter.
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// # Internal Transitions

// commitProfile finalizes AUTHENTICATING -> AUTHENTICATED for the given
// generation. It reports false when the generation has moved on, in which
// case the result is discarded.
func (s *Session) commitProfile(ctx context.Context, generation uint64, token string, profile *backend.Profile) bool {
	s.mu.Lock()
	if s.generation != generation {
		s.mu.Unlock()
		return false
	}
	s.user = profile
	s.loading = false
	if s.idle == nil && s.idleWindow > 0 {
		s.idle = NewIdleMonitor(s.idleWindow, s.idleExpired)
	}
	s.mu.Unlock()

	if err := s.store.Save(ctx, Snapshot{Token: token, User: profile}); err != nil {
		s.log.Warn("session_persist_failed", slog.Any("error", err))
	}
	return true
}

// logoutIfCurrent runs Logout only if no newer transition has superseded the
// caller's generation, so a stale failure can't wipe a fresh login.
func (s *Session) logoutIfCurrent(ctx context.Context, generation uint64) {
	s.mu.Lock()
	current := s.generation == generation
	s.mu.Unlock()

	if current {
		s.Logout(ctx)
	} else {
		s.setLoading(false)
	}
}

// idleExpired is the inactivity monitor's callback.
func (s *Session) idleExpired() {
	s.log.Info("session_idle_expired")
	s.Logout(context.Background())
}

func (s *Session) setLoading(value bool) {
	s.mu.Lock()
	s.loading = value
	s.mu.Unlock()
}
