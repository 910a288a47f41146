// Copyright (c) 2026 SJD-Portal. All rights reserved.
// Author: dev@sjdportal.in

package backend_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sjdportal/darbar/internal/backend"
	"github.com/sjdportal/darbar/internal/platform/apperr"
	"github.com/sjdportal/darbar/pkg/pagination"
)

func newTestClient(t *testing.T, handler http.Handler) (*backend.Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := backend.NewClient(server.URL, server.URL+"/uploads", slog.Default())
	return client, server
}

/*
TestClient_Login verifies the credential exchange: the token is returned
but never installed on the transport — that is the session store's call.
*/
func TestClient_Login(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"tok-123"}`))
	}))

	token, err := client.Login(context.Background(), backend.LoginInput{
		Email:    "citizen@example.com",
		Password: "secret123",
	})

	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)
	assert.False(t, client.HasToken(), "login must not install the token itself")
}

/*
TestClient_Login_Rejected verifies that the backend's own message survives
the error mapping, so the login form can display it verbatim.
*/
func TestClient_Login_Rejected(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid email or password"}`))
	}))

	_, err := client.Login(context.Background(), backend.LoginInput{
		Email:    "citizen@example.com",
		Password: "wrong",
	})

	require.Error(t, err)
	assert.True(t, apperr.IsUnauthorized(err))
	assert.Equal(t, "Invalid email or password", err.Error())
}

/*
TestClient_BearerHeader verifies the interceptor's core property: the
Authorization header is attached exactly when a token is held.
*/
func TestClient_BearerHeader(t *testing.T) {
	var seenAuth atomic.Value
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenAuth.Store(r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"_id":"u1","firstName":"A","lastName":"B","email":"a@b.in","role":"public"}`))
	}))

	// Anonymous: no header at all.
	_, err := client.Profile(context.Background())
	require.NoError(t, err)
	assert.Empty(t, seenAuth.Load())

	// With a token: Bearer header on every request.
	client.SetToken("tok-456")
	_, err = client.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-456", seenAuth.Load())

	// Cleared again: header gone.
	client.ClearToken()
	_, err = client.Profile(context.Background())
	require.NoError(t, err)
	assert.Empty(t, seenAuth.Load())
}

/*
TestClient_UnauthorizedHook verifies the 401 interceptor: the hook fires on
each 401 response, and the caller still receives the unauthorized error so
its own handling runs.
*/
func TestClient_UnauthorizedHook(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Token expired"}`))
	}))

	var fired atomic.Int32
	client.InstallUnauthorizedHook(func() { fired.Add(1) })

	client.SetToken("stale")
	_, err := client.Profile(context.Background())

	require.Error(t, err)
	assert.True(t, apperr.IsUnauthorized(err))
	assert.Equal(t, int32(1), fired.Load())

	// After removal the interceptor is silent.
	client.RemoveUnauthorizedHook()
	_, err = client.Profile(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), fired.Load())
}

/*
TestClient_TransportFailure verifies the split between "token proven bad"
and "backend unreachable": a connection failure maps to an upstream error
and never fires the unauthorized hook.
*/
func TestClient_TransportFailure(t *testing.T) {
	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	var fired atomic.Int32
	client.InstallUnauthorizedHook(func() { fired.Add(1) })

	_, err := client.Profile(context.Background())

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UPSTREAM", ae.Code)
	assert.False(t, apperr.IsUnauthorized(err))
	assert.Zero(t, fired.Load())
}

/*
TestClient_Complaints verifies pagination and filter forwarding plus the
page envelope decoding.
*/
func TestClient_Complaints(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/complaints", r.URL.Path)
		query := r.URL.Query()
		assert.Equal(t, "2", query.Get("page"))
		assert.Equal(t, "10", query.Get("limit"))
		assert.Equal(t, "pending", query.Get("status"))
		assert.Equal(t, "Patna", query.Get("district"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"complaints":[{"_id":"c1","subject":"Pothole","description":"...","category":"roads","district":"Patna","status":"pending"}],"total":41}`))
	}))

	page, err := client.Complaints(
		context.Background(),
		pagination.Params{Page: 2, Limit: 10},
		backend.ComplaintFilter{Status: "pending", District: "Patna"},
	)

	require.NoError(t, err)
	assert.Equal(t, 41, page.Total)
	require.Len(t, page.Complaints, 1)
	assert.Equal(t, "c1", page.Complaints[0].ID)
}

/*
TestClient_ErrorMapping covers the status-to-apperr table for the workflow
endpoints.
*/
func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantCode   string
		wantStatus int
	}{
		{"not_found", http.StatusNotFound, `{"message":"Complaint not found"}`, "NOT_FOUND", http.StatusNotFound},
		{"conflict", http.StatusConflict, `{"message":"Duplicate reference"}`, "CONFLICT", http.StatusConflict},
		{"bad_request", http.StatusBadRequest, `{"message":"Invalid status"}`, "VALIDATION_ERROR", http.StatusBadRequest},
		{"forbidden", http.StatusForbidden, `{"message":"Not your district"}`, "FORBIDDEN", http.StatusForbidden},
		{"server_error", http.StatusInternalServerError, `{"message":"boom"}`, "UPSTREAM", http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))

			_, err := client.ComplaintByID(context.Background(), "c1")

			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, tt.wantCode, ae.Code)
			assert.Equal(t, tt.wantStatus, ae.HTTPStatus)
		})
	}
}

/*
TestProfile_PhotoURL verifies relative photo paths resolve against the
uploads base while absolute URLs pass through.
*/
func TestProfile_PhotoURL(t *testing.T) {
	profile := &backend.Profile{Photo: "avatars/u1.jpg"}
	assert.Equal(t, "https://api.example.in/uploads/avatars/u1.jpg",
		profile.PhotoURL("https://api.example.in/uploads"))

	profile.Photo = "https://cdn.example.in/u1.jpg"
	assert.Equal(t, "https://cdn.example.in/u1.jpg",
		profile.PhotoURL("https://api.example.in/uploads"))

	profile.Photo = ""
	assert.Empty(t, profile.PhotoURL("https://api.example.in/uploads"))
}
