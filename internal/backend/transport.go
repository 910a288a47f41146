// Copyright (c) 2026 SJD-Portal. All rights reserved.
// Author: dev@sjdportal.in

package backend

import (
	"net/http"
	"sync"

	"github.com/sjdportal/darbar/internal/platform/constants"
)

// # Bearer Credential

// Credential is the process-wide holder of the session's bearer token.
//
// It is the Go rendition of the original portal's mutation of the HTTP
// client's default Authorization header: one shared slot, written by the
// session store, read by every outgoing request.
type Credential struct {
	mu    sync.RWMutex
	token string
}

// Set installs the bearer token for all subsequent requests.
func (c *Credential) Set(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Clear removes the bearer token.
func (c *Credential) Clear() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

// Get returns the current token and whether one is present.
func (c *Credential) Get() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token, c.token != ""
}

// # Bearer Transport & Response Interceptor

// bearerTransport decorates an [http.RoundTripper] with two behaviors:
//
//  1. Attach "Authorization: Bearer <token>" exactly when the credential
//     holds a token (and never otherwise).
//  2. Observe every response; on HTTP 401 invoke the unauthorized hook, then
//     return the response unchanged so the caller's own error handling still
//     runs.
//
// The hook slot is installed once at session start and removed on teardown
// to avoid duplicate registration.
type bearerTransport struct {
	base http.RoundTripper
	cred *Credential

	hookMu         sync.RWMutex
	onUnauthorized func()
}

// RoundTrip implements [http.RoundTripper].
func (t *bearerTransport) RoundTrip(request *http.Request) (*http.Response, error) {

	// Per the RoundTripper contract the request must not be mutated.
	if token, ok := t.cred.Get(); ok {
		request = request.Clone(request.Context())
		request.Header.Set(constants.HeaderAuthorization, "Bearer "+token)
	}

	response, err := t.base.RoundTrip(request)
	if err != nil {
		return nil, err
	}

	if response.StatusCode == http.StatusUnauthorized {
		t.hookMu.RLock()
		hook := t.onUnauthorized
		t.hookMu.RUnlock()
		if hook != nil {
			hook()
		}
	}

	return response, nil
}

// install registers the unauthorized hook, replacing any previous one.
func (t *bearerTransport) install(hook func()) {
	t.hookMu.Lock()
	t.onUnauthorized = hook
	t.hookMu.Unlock()
}

// remove deregisters the unauthorized hook.
func (t *bearerTransport) remove() {
	t.hookMu.Lock()
	t.onUnauthorized = nil
	t.hookMu.Unlock()
}
