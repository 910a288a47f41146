// Copyright (c) 2026 SJD-Portal. All rights reserved.
// Author: dev@sjdportal.in

package session_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sjdportal/darbar/internal/backend"
	"github.com/sjdportal/darbar/internal/platform/apperr"
	"github.com/sjdportal/darbar/internal/session"
)

// # Test Doubles

// fakeBackend scripts the backend client's auth surface. The profile call
// can be gated so tests can interleave a logout with an in-flight fetch.
type fakeBackend struct {
	mu   sync.Mutex
	hook func()

	token string

	loginToken string
	loginErr   error

	profile     *backend.Profile
	profileErr  error
	profileGate chan struct{}

	registerErr error

	loginCalls   int
	profileCalls int
}

func (f *fakeBackend) Login(_ context.Context, _ backend.LoginInput) (string, error) {
	f.mu.Lock()
	f.loginCalls++
	token, err := f.loginToken, f.loginErr
	f.mu.Unlock()
	return token, err
}

func (f *fakeBackend) Profile(_ context.Context) (*backend.Profile, error) {
	f.mu.Lock()
	f.profileCalls++
	gate := f.profileGate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	clone := *f.profile
	return &clone, nil
}

func (f *fakeBackend) Register(_ context.Context, _ backend.RegisterInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.registerErr
}

func (f *fakeBackend) SetToken(token string) {
	f.mu.Lock()
	f.token = token
	f.mu.Unlock()
}

func (f *fakeBackend) ClearToken() {
	f.mu.Lock()
	f.token = ""
	f.mu.Unlock()
}

func (f *fakeBackend) InstallUnauthorizedHook(hook func()) {
	f.mu.Lock()
	f.hook = hook
	f.mu.Unlock()
}

func (f *fakeBackend) RemoveUnauthorizedHook() {
	f.mu.Lock()
	f.hook = nil
	f.mu.Unlock()
}

func (f *fakeBackend) heldToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeBackend) fireHook() {
	f.mu.Lock()
	hook := f.hook
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
}

// memStore is an in-memory [session.Store].
type memStore struct {
	mu       sync.Mutex
	snapshot session.Snapshot
	saves    int
	clears   int
}

func (m *memStore) Load(_ context.Context) (session.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot, nil
}

func (m *memStore) Save(_ context.Context, snapshot session.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = snapshot
	m.saves++
	return nil
}

func (m *memStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = session.Snapshot{}
	m.clears++
	return nil
}

func (m *memStore) current() session.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot
}

// # Fixtures

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testProfile() *backend.Profile {
	return &backend.Profile{
		ID:        "u1",
		FirstName: "Asha",
		LastName:  "Kumari",
		Email:     "asha@example.com",
		Role:      "public",
	}
}

func newTestSession(t *testing.T, bk *fakeBackend, store *memStore, options ...session.Option) *session.Session {
	t.Helper()
	sess := session.NewSession(bk, store, discardLogger(), options...)
	require.NoError(t, sess.Start(context.Background()))
	t.Cleanup(sess.Close)
	return sess
}

// # Login

/*
TestSession_Login walks the happy path: ANONYMOUS through AUTHENTICATING to
AUTHENTICATED, with the token installed on the transport and both halves
persisted.
*/
func TestSession_Login(t *testing.T) {
	bk := &fakeBackend{loginToken: "tok-1", profile: testProfile()}
	store := &memStore{}
	sess := newTestSession(t, bk, store)

	assert.Equal(t, session.StateAnonymous, sess.State())

	profile, err := sess.Login(context.Background(), "asha@example.com", "secret123")
	require.NoError(t, err)

	assert.Equal(t, session.StateAuthenticated, sess.State())
	assert.Equal(t, "asha@example.com", profile.Email)
	assert.Equal(t, "tok-1", bk.heldToken())

	persisted := store.current()
	assert.Equal(t, "tok-1", persisted.Token)
	require.NotNil(t, persisted.User)
	assert.Equal(t, "u1", persisted.User.ID)
}

/*
TestSession_Login_Rejected verifies that a credential rejection mutates
nothing: no token, no persistence, state still anonymous, and the backend's
error reaches the caller.
*/
func TestSession_Login_Rejected(t *testing.T) {
	bk := &fakeBackend{loginErr: apperr.Unauthorized("Invalid email or password")}
	store := &memStore{}
	sess := newTestSession(t, bk, store)

	_, err := sess.Login(context.Background(), "asha@example.com", "wrong")

	require.Error(t, err)
	assert.Equal(t, "Invalid email or password", err.Error())
	assert.Equal(t, session.StateAnonymous, sess.State())
	assert.False(t, sess.Loading())
	assert.Empty(t, bk.heldToken())
	assert.Empty(t, store.current().Token)
}

/*
TestSession_Login_ProfileFails verifies the "no token without a confirmed
profile" rule: when the profile fetch fails after a successful credential
exchange, the session rolls back to anonymous everywhere.
*/
func TestSession_Login_ProfileFails(t *testing.T) {
	bk := &fakeBackend{loginToken: "tok-1", profileErr: apperr.Upstream(assert.AnError)}
	store := &memStore{}
	sess := newTestSession(t, bk, store)

	_, err := sess.Login(context.Background(), "asha@example.com", "secret123")

	require.Error(t, err)
	assert.Equal(t, session.StateAnonymous, sess.State())
	assert.Empty(t, bk.heldToken())
	assert.Empty(t, store.current().Token)
}

/*
TestSession_LateProfileMustNotResurrect interleaves a logout with an
in-flight profile fetch. The late response must be discarded: the logout
is the newer transition and wins.
*/
func TestSession_LateProfileMustNotResurrect(t *testing.T) {
	gate := make(chan struct{})
	bk := &fakeBackend{loginToken: "tok-1", profile: testProfile(), profileGate: gate}
	store := &memStore{}
	sess := newTestSession(t, bk, store)

	done := make(chan error, 1)
	go func() {
		_, err := sess.Login(context.Background(), "asha@example.com", "secret123")
		done <- err
	}()

	// Wait until the profile fetch is in flight, then log out underneath it.
	require.Eventually(t, func() bool {
		bk.mu.Lock()
		defer bk.mu.Unlock()
		return bk.profileCalls > 0
	}, time.Second, time.Millisecond)

	sess.Logout(context.Background())
	close(gate)

	err := <-done
	require.Error(t, err)
	assert.Equal(t, session.StateAnonymous, sess.State())
	assert.Nil(t, sess.User())
	assert.Empty(t, bk.heldToken())
	assert.Empty(t, store.current().Token)
}

// # Logout

/*
TestSession_Logout_Idempotent verifies that a second logout is a no-op: no
second navigation, state unchanged.
*/
func TestSession_Logout_Idempotent(t *testing.T) {
	var navigations []string
	bk := &fakeBackend{loginToken: "tok-1", profile: testProfile()}
	store := &memStore{}
	sess := newTestSession(t, bk, store, session.WithNavigator(func(target string) {
		navigations = append(navigations, target)
	}))

	_, err := sess.Login(context.Background(), "asha@example.com", "secret123")
	require.NoError(t, err)

	sess.Logout(context.Background())
	sess.Logout(context.Background())

	assert.Equal(t, session.StateAnonymous, sess.State())
	assert.Equal(t, []string{"/login"}, navigations)
	assert.Empty(t, bk.heldToken())
}

/*
TestSession_Logout_BumpsGeneration verifies that every login and logout
moves the generation counter, so stale cookies can be detected.
*/
func TestSession_Logout_BumpsGeneration(t *testing.T) {
	bk := &fakeBackend{loginToken: "tok-1", profile: testProfile()}
	sess := newTestSession(t, bk, &memStore{})

	initial := sess.Generation()

	_, err := sess.Login(context.Background(), "asha@example.com", "secret123")
	require.NoError(t, err)
	afterLogin := sess.Generation()
	assert.Greater(t, afterLogin, initial)

	sess.Logout(context.Background())
	assert.Greater(t, sess.Generation(), afterLogin)
}

// # Resume

/*
TestSession_Resume verifies process-restart resume: a persisted token is
installed and re-confirmed with a fresh profile fetch.
*/
func TestSession_Resume(t *testing.T) {
	bk := &fakeBackend{profile: testProfile()}
	store := &memStore{snapshot: session.Snapshot{Token: "tok-old", User: testProfile()}}

	sess := session.NewSession(bk, store, discardLogger())
	require.NoError(t, sess.Start(context.Background()))
	t.Cleanup(sess.Close)

	assert.Equal(t, session.StateAuthenticated, sess.State())
	assert.Equal(t, "tok-old", bk.heldToken())
	assert.Equal(t, 1, bk.profileCalls)
}

/*
TestSession_Resume_Rejected verifies that a stored token the backend no
longer accepts is discarded entirely, leaving a clean anonymous state.
*/
func TestSession_Resume_Rejected(t *testing.T) {
	bk := &fakeBackend{profileErr: apperr.Unauthorized("Token expired")}
	store := &memStore{snapshot: session.Snapshot{Token: "tok-stale"}}

	sess := session.NewSession(bk, store, discardLogger())
	require.NoError(t, sess.Start(context.Background()))
	t.Cleanup(sess.Close)

	assert.Equal(t, session.StateAnonymous, sess.State())
	assert.Empty(t, bk.heldToken())
	assert.Empty(t, store.current().Token)
}

// # Forced Logout Paths

/*
TestSession_UnauthorizedHook verifies that the interceptor hook installed at
Start forces a full logout when any backend response comes back 401.
*/
func TestSession_UnauthorizedHook(t *testing.T) {
	bk := &fakeBackend{loginToken: "tok-1", profile: testProfile()}
	store := &memStore{}
	sess := newTestSession(t, bk, store)

	_, err := sess.Login(context.Background(), "asha@example.com", "secret123")
	require.NoError(t, err)

	bk.fireHook()

	assert.Equal(t, session.StateAnonymous, sess.State())
	assert.Empty(t, bk.heldToken())
	assert.Empty(t, store.current().Token)
}

/*
TestSession_IdleExpiry verifies the inactivity window: an untouched
authenticated session is logged out after the window elapses.
*/
func TestSession_IdleExpiry(t *testing.T) {
	bk := &fakeBackend{loginToken: "tok-1", profile: testProfile()}
	sess := newTestSession(t, bk, &memStore{}, session.WithIdleWindow(20*time.Millisecond))

	_, err := sess.Login(context.Background(), "asha@example.com", "secret123")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return sess.State() == session.StateAnonymous
	}, time.Second, 5*time.Millisecond)
}

/*
TestSession_TouchDefersIdleExpiry verifies that activity resets the window.
*/
func TestSession_TouchDefersIdleExpiry(t *testing.T) {
	bk := &fakeBackend{loginToken: "tok-1", profile: testProfile()}
	sess := newTestSession(t, bk, &memStore{}, session.WithIdleWindow(60*time.Millisecond))

	_, err := sess.Login(context.Background(), "asha@example.com", "secret123")
	require.NoError(t, err)

	// Keep touching well inside the window; the session must survive.
	for i := 0; i < 5; i++ {
		time.Sleep(20 * time.Millisecond)
		sess.Touch()
	}
	assert.Equal(t, session.StateAuthenticated, sess.State())

	// Stop touching; now it expires.
	assert.Eventually(t, func() bool {
		return sess.State() == session.StateAnonymous
	}, time.Second, 5*time.Millisecond)
}

// # Profile Refresh

/*
TestSession_RefreshUser verifies the refresh policy: success re-syncs the
profile, a confirmed 401 forces logout, a transport failure leaves the
session intact.
*/
func TestSession_RefreshUser(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		bk := &fakeBackend{loginToken: "tok-1", profile: testProfile()}
		sess := newTestSession(t, bk, &memStore{})

		_, err := sess.Login(context.Background(), "asha@example.com", "secret123")
		require.NoError(t, err)

		bk.mu.Lock()
		bk.profile.District = "Patna"
		bk.mu.Unlock()

		require.NoError(t, sess.RefreshUser(context.Background()))
		assert.Equal(t, "Patna", sess.User().District)
	})

	t.Run("unauthorized_forces_logout", func(t *testing.T) {
		bk := &fakeBackend{loginToken: "tok-1", profile: testProfile()}
		sess := newTestSession(t, bk, &memStore{})

		_, err := sess.Login(context.Background(), "asha@example.com", "secret123")
		require.NoError(t, err)

		bk.mu.Lock()
		bk.profileErr = apperr.Unauthorized("Token expired")
		bk.mu.Unlock()

		require.Error(t, sess.RefreshUser(context.Background()))
		assert.Equal(t, session.StateAnonymous, sess.State())
	})

	t.Run("transport_failure_keeps_session", func(t *testing.T) {
		bk := &fakeBackend{loginToken: "tok-1", profile: testProfile()}
		sess := newTestSession(t, bk, &memStore{})

		_, err := sess.Login(context.Background(), "asha@example.com", "secret123")
		require.NoError(t, err)

		bk.mu.Lock()
		bk.profileErr = apperr.Upstream(assert.AnError)
		bk.mu.Unlock()

		require.Error(t, sess.RefreshUser(context.Background()))
		assert.Equal(t, session.StateAuthenticated, sess.State())
		require.NotNil(t, sess.User())
	})

	t.Run("noop_when_anonymous", func(t *testing.T) {
		bk := &fakeBackend{}
		sess := newTestSession(t, bk, &memStore{})

		require.NoError(t, sess.RefreshUser(context.Background()))
		assert.Zero(t, bk.profileCalls)
	})
}

/*
TestSession_UserReturnsCopy guards against aliasing: mutating the returned
profile must not leak into the session's own state.
*/
func TestSession_UserReturnsCopy(t *testing.T) {
	bk := &fakeBackend{loginToken: "tok-1", profile: testProfile()}
	sess := newTestSession(t, bk, &memStore{})

	_, err := sess.Login(context.Background(), "asha@example.com", "secret123")
	require.NoError(t, err)

	leaked := sess.User()
	leaked.Role = "superadmin"

	assert.Equal(t, "public", sess.User().Role)
}
