// Copyright (c) 2026 SJD-Portal. All rights reserved.
// Author: dev@sjdportal.in

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sjdportal/darbar/internal/backend"
)

// FileStore persists the session snapshot as a single JSON state file.
//
// This is the default store for single-machine deployments. The file carries
// the same key names the original portal used in browser localStorage.
type FileStore struct {
	path string
}

// NewFileStore creates a [FileStore] writing to the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// fileState is the on-disk JSON shape.
type fileState struct {
	Token string           `json:"sjd_token"`
	User  *backend.Profile `json:"sjd_user,omitempty"`
}

// Load reads the state file. A missing file yields an empty snapshot.
func (store *FileStore) Load(_ context.Context) (Snapshot, error) {
	data, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Snapshot{}, nil
		}
		return Snapshot{}, fmt.Errorf("session: failed to read state file: %w", err)
	}

	var state fileState
	if err := json.Unmarshal(data, &state); err != nil {
		// A corrupt state file is treated as no session rather than a fatal
		// startup error; the citizen simply logs in again.
		return Snapshot{}, nil
	}

	return Snapshot{Token: state.Token, User: state.User}, nil
}

// Save writes the snapshot atomically (temp file + rename) with 0600
// permissions, since the file holds a live bearer token.
func (store *FileStore) Save(_ context.Context, snapshot Snapshot) error {
	data, err := json.Marshal(fileState{Token: snapshot.Token, User: snapshot.User})
	if err != nil {
		return fmt.Errorf("session: failed to encode state: %w", err)
	}

	tmpPath := store.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(store.path), 0o700); err != nil {
		return fmt.Errorf("session: failed to create state directory: %w", err)
	}
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("session: failed to write state file: %w", err)
	}
	if err := os.Rename(tmpPath, store.path); err != nil {
		return fmt.Errorf("session: failed to replace state file: %w", err)
	}

	return nil
}

// Clear removes the state file. Removing an absent file is not an error.
func (store *FileStore) Clear(_ context.Context) error {
	if err := os.Remove(store.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("session: failed to remove state file: %w", err)
	}
	return nil
}
