// Copyright (c) 2026 SJD-Portal. All rights reserved.
// Author: dev@sjdportal.in

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/sjdportal/darbar/internal/backend"
	"github.com/sjdportal/darbar/internal/platform/constants"
)

// RedisStore persists the session snapshot in a shared Redis.
//
// Kiosk desks running several gateway processes use this store so a resumed
// session follows the citizen between machines. Keys carry no TTL: the
// inactivity monitor and the backend's own token expiry bound the session's
// lifetime, and Clear removes the keys on logout.
type RedisStore struct {
	client *redis.Client

	// deskID namespaces the keys so desks sharing one Redis don't collide.
	deskID string
}

// NewRedisStore creates a [RedisStore] scoped to the given desk ID.
func NewRedisStore(client *redis.Client, deskID string) *RedisStore {
	return &RedisStore{client: client, deskID: deskID}
}

func (store *RedisStore) tokenKey() string {
	return constants.RedisPrefixSession + store.deskID + ":" + constants.StorageKeyToken
}

func (store *RedisStore) userKey() string {
	return constants.RedisPrefixSession + store.deskID + ":" + constants.StorageKeyUser
}

// Load reads the persisted token/user pair. Absent keys yield an empty snapshot.
func (store *RedisStore) Load(ctx context.Context) (Snapshot, error) {
	token, err := store.client.Get(ctx, store.tokenKey()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Snapshot{}, nil
		}
		return Snapshot{}, fmt.Errorf("session: failed to read token from redis: %w", err)
	}

	snapshot := Snapshot{Token: token}

	userJSON, err := store.client.Get(ctx, store.userKey()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return snapshot, nil
		}
		return Snapshot{}, fmt.Errorf("session: failed to read profile from redis: %w", err)
	}

	var profile backend.Profile
	if err := json.Unmarshal([]byte(userJSON), &profile); err == nil {
		snapshot.User = &profile
	}

	return snapshot, nil
}

// Save persists the snapshot, replacing any previous one.
func (store *RedisStore) Save(ctx context.Context, snapshot Snapshot) error {
	if err := store.client.Set(ctx, store.tokenKey(), snapshot.Token, 0).Err(); err != nil {
		return fmt.Errorf("session: failed to write token to redis: %w", err)
	}

	if snapshot.User == nil {
		if err := store.client.Del(ctx, store.userKey()).Err(); err != nil {
			return fmt.Errorf("session: failed to clear stale profile in redis: %w", err)
		}
		return nil
	}

	encoded, err := json.Marshal(snapshot.User)
	if err != nil {
		return fmt.Errorf("session: failed to encode profile: %w", err)
	}
	if err := store.client.Set(ctx, store.userKey(), encoded, 0).Err(); err != nil {
		return fmt.Errorf("session: failed to write profile to redis: %w", err)
	}

	return nil
}

// Clear removes both keys. Idempotent.
func (store *RedisStore) Clear(ctx context.Context) error {
	if err := store.client.Del(ctx, store.tokenKey(), store.userKey()).Err(); err != nil {
		return fmt.Errorf("session: failed to clear redis session: %w", err)
	}
	return nil
}
