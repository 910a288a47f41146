// Copyright (c) 2026 SJD-Portal. All rights reserved.
// Author: dev@sjdportal.in

package session_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sjdportal/darbar/internal/backend"
	"github.com/sjdportal/darbar/internal/session"
)

/*
TestFileStore_RoundTrip verifies save-load-clear against a real temp file,
including the localStorage-compatible key names.
*/
func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "sjd_session.json")
	store := session.NewFileStore(path)
	ctx := context.Background()

	// Empty at first.
	snapshot, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, snapshot.Token)
	assert.Nil(t, snapshot.User)

	// Save and read back.
	saved := session.Snapshot{
		Token: "tok-1",
		User:  &backend.Profile{ID: "u1", Email: "asha@example.com", Role: "public"},
	}
	require.NoError(t, store.Save(ctx, saved))

	snapshot, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", snapshot.Token)
	require.NotNil(t, snapshot.User)
	assert.Equal(t, "asha@example.com", snapshot.User.Email)

	// On-disk shape keeps the original storage keys, and the file is
	// private since it carries a live token.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"sjd_token"`)
	assert.Contains(t, string(raw), `"sjd_user"`)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// Clear removes the file; clearing twice is fine.
	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))

	snapshot, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, snapshot.Token)
}

/*
TestFileStore_CorruptFile verifies that an unreadable state file degrades
to "no session" instead of failing startup.
*/
func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sjd_session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store := session.NewFileStore(path)
	snapshot, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, snapshot.Token)
	assert.Nil(t, snapshot.User)
}

/*
TestFileStore_SaveOverwrites verifies that a later save fully replaces the
previous snapshot, token-only saves included.
*/
func TestFileStore_SaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sjd_session.json")
	store := session.NewFileStore(path)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, session.Snapshot{
		Token: "tok-1",
		User:  &backend.Profile{ID: "u1"},
	}))
	require.NoError(t, store.Save(ctx, session.Snapshot{Token: "tok-2"}))

	snapshot, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", snapshot.Token)
	assert.Nil(t, snapshot.User, "token-only save must drop the stale profile")
}
