// Copyright (c) 2026 SJD-Portal. All rights reserved.
// Author: dev@sjdportal.in

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/sjdportal/darbar/internal/platform/apperr"
	"github.com/sjdportal/darbar/internal/platform/constants"
	"github.com/sjdportal/darbar/pkg/pagination"
)

// # Client Definition

// Client talks to the grievance backend REST API.
//
// All methods are safe for concurrent use. The bearer credential is shared
// with the session store, which owns its lifecycle.
type Client struct {
	baseURL     string
	uploadsURL  string
	httpClient  *http.Client
	cred        *Credential
	interceptor *bearerTransport
	log         *slog.Logger
}

// NewClient constructs a backend [Client].
//
// # Parameters
//   - baseURL: REST API base, no trailing slash.
//   - uploadsURL: static-asset base for resolving relative photo paths.
//   - logger: structured logger for transport events.
func NewClient(baseURL, uploadsURL string, logger *slog.Logger) *Client {
	cred := &Credential{}
	transport := &bearerTransport{
		base: http.DefaultTransport,
		cred: cred,
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		uploadsURL: strings.TrimRight(uploadsURL, "/"),
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   constants.BackendRequestTimeout,
		},
		cred:        cred,
		interceptor: transport,
		log:         logger,
	}
}

// # Credential Management

// SetToken installs the bearer token on the shared transport.
func (c *Client) SetToken(token string) { c.cred.Set(token) }

// ClearToken removes the bearer token from the shared transport.
func (c *Client) ClearToken() { c.cred.Clear() }

// HasToken reports whether a bearer token is currently attached.
func (c *Client) HasToken() bool {
	_, ok := c.cred.Get()
	return ok
}

// InstallUnauthorizedHook registers the forced-logout hook invoked whenever
// any backend response comes back 401. Replaces a previously installed hook,
// so remounting the session never double-registers.
func (c *Client) InstallUnauthorizedHook(hook func()) { c.interceptor.install(hook) }

// RemoveUnauthorizedHook deregisters the forced-logout hook.
func (c *Client) RemoveUnauthorizedHook() { c.interceptor.remove() }

// UploadsURL returns the static-asset base for photo resolution.
func (c *Client) UploadsURL() string { return c.uploadsURL }

// # Auth Endpoints

/*
Login exchanges credentials for a bearer token via POST /auth/login.

The token is returned, not installed: the session store decides when the
credential becomes the process-wide default.

Returns:
  - string: The opaque bearer token.
  - error: apperr.Unauthorized carrying the backend's message on rejection.
*/
func (c *Client) Login(ctx context.Context, input LoginInput) (string, error) {
	var out loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", input, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", apperr.Upstream(fmt.Errorf("backend: login response carried no token"))
	}
	return out.Token, nil
}

// Profile fetches the authenticated user record via GET /auth/profile.
func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile persists mutable profile fields via PUT /auth/profile.
func (c *Client) UpdateProfile(ctx context.Context, profile *Profile) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodPut, "/auth/profile", profile, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register forwards a registration payload via POST /auth/register.
// It never touches session state.
func (c *Client) Register(ctx context.Context, input RegisterInput) error {
	return c.do(ctx, http.MethodPost, "/auth/register", input, nil)
}

// ForgotPassword starts the recovery flow via POST /auth/forgot-password.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	payload := map[string]string{"email": email}
	return c.do(ctx, http.MethodPost, "/auth/forgot-password", payload, nil)
}

// ResetPassword completes the recovery flow via POST /auth/reset-password/{token}.
func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	payload := map[string]string{"password": password}
	return c.do(ctx, http.MethodPost, "/auth/reset-password/"+url.PathEscape(token), payload, nil)
}

// # Complaint Endpoints

// ComplaintFilter narrows a complaint listing.
type ComplaintFilter struct {
	Status   string
	District string
}

// Complaints lists grievances via GET /complaints, scoped by the backend to
// the caller's role (citizens see their own, officers their assignments).
func (c *Client) Complaints(ctx context.Context, params pagination.Params, filter ComplaintFilter) (*ComplaintPage, error) {
	values := params.Encode(nil)
	if filter.Status != "" {
		values.Set("status", filter.Status)
	}
	if filter.District != "" {
		values.Set("district", filter.District)
	}

	var out ComplaintPage
	if err := c.do(ctx, http.MethodGet, "/complaints?"+values.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitComplaint files a new grievance via POST /complaints.
func (c *Client) SubmitComplaint(ctx context.Context, input ComplaintInput) (*Complaint, error) {
	var out Complaint
	if err := c.do(ctx, http.MethodPost, "/complaints", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ComplaintByID fetches one grievance via GET /complaints/{id}.
func (c *Client) ComplaintByID(ctx context.Context, id string) (*Complaint, error) {
	var out Complaint
	if err := c.do(ctx, http.MethodGet, "/complaints/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateComplaintStatus moves a grievance through its workflow via
// PUT /complaints/{id}/status.
func (c *Client) UpdateComplaintStatus(ctx context.Context, id string, input StatusUpdateInput) (*Complaint, error) {
	var out Complaint
	if err := c.do(ctx, http.MethodPut, "/complaints/"+url.PathEscape(id)+"/status", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// # Statistics & Health

// Stats fetches the aggregate dashboard counters via GET /stats/summary.
func (c *Client) Stats(ctx context.Context) (*StatsSummary, error) {
	var out StatsSummary
	if err := c.do(ctx, http.MethodGet, "/stats/summary", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ping probes the backend's health endpoint for the readiness check.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// # Request Plumbing

// do issues one backend request: marshal body, send, map non-2xx to apperr,
// decode the response into out when provided.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("backend: failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("backend: failed to build request: %w", err)
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		// Pure transport failure. Auth state is NOT touched for these: the
		// token has not been proven bad.
		return apperr.Upstream(err)
	}
	defer func() { _ = response.Body.Close() }()

	if response.StatusCode >= 400 {
		return c.decodeError(response)
	}

	if out == nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, response.Body)
		return nil
	}

	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return apperr.Upstream(fmt.Errorf("backend: malformed response for %s %s: %w", method, path, err))
	}

	return nil
}

// decodeError maps a non-2xx backend response to an [apperr.AppError],
// preserving the backend's message and status so callers (and the login
// form) surface the original wording.
func (c *Client) decodeError(response *http.Response) error {
	var wire errorResponse
	_ = json.NewDecoder(response.Body).Decode(&wire)

	message := wire.text()
	if message == "" {
		message = http.StatusText(response.StatusCode)
	}

	switch response.StatusCode {
	case http.StatusUnauthorized:
		return apperr.Unauthorized(message)
	case http.StatusForbidden:
		return apperr.Forbidden(message)
	case http.StatusNotFound:
		return &apperr.AppError{Code: "NOT_FOUND", Message: message, HTTPStatus: http.StatusNotFound}
	case http.StatusConflict:
		return apperr.Conflict(message)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return apperr.ValidationError(message)
	}

	return apperr.Upstream(fmt.Errorf("backend: %s (status %d)", message, response.StatusCode))
}
