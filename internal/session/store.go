// Copyright (c) 2026 SJD-Portal. All rights reserved.
// Author: dev@sjdportal.in

package session

import (
	"context"

	"github.com/sjdportal/darbar/internal/backend"
)

// # Durable Storage

// Snapshot is the persisted session state: the bearer token and the last
// confirmed profile. An empty token means no session is stored.
type Snapshot struct {
	Token string
	User  *backend.Profile
}

// Store is the durable storage contract for session state.
//
// It plays the role browser localStorage played in the original portal:
// a resumed gateway process reads the sjd_token / sjd_user pair back and
// re-validates it against the backend.
type Store interface {

	/*
		Load reads the persisted snapshot.

		Returns:
		  - Snapshot: Zero-valued (empty token) when nothing is stored.
		  - error: Storage access failures. A missing record is not an error.
	*/
	Load(ctx context.Context) (Snapshot, error)

	/*
		Save persists the snapshot, replacing any previous one.

		Returns:
		  - error: Storage write failures.
	*/
	Save(ctx context.Context, snapshot Snapshot) error

	/*
		Clear removes all persisted session state. Idempotent.

		Returns:
		  - error: Storage write failures.
	*/
	Clear(ctx context.Context) error
}
