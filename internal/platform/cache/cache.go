// Copyright (c) 2026 Panelku. All rights reserved.
// Author: hello@panelku.id

// Package cache provides a small JSON read-through cache over Redis for
// catalog payloads.
//
// # Semantics
//
// The cache is strictly an accelerator: every method degrades to a miss or
// a no-op on Redis trouble, and callers must treat cached data as
// replaceable. Lifecycle writes invalidate the affected keys so readers
// never see a renamed or deleted comic for longer than one round-trip.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps a Redis client with JSON marshalling and a key namespace.
type Cache struct {
	client *redis.Client
	logger *slog.Logger
}

// New constructs a [Cache]. A nil client yields a disabled cache whose
// methods are all no-ops, which keeps the service layer testable without
// a running Redis.
func New(client *redis.Client, logger *slog.Logger) *Cache {
	return &Cache{client: client, logger: logger}
}

// GetJSON loads the value at key into target.
// It returns false on a miss, a disabled cache, or any Redis/decoding error.
func (cache *Cache) GetJSON(context context.Context, key string, target any) bool {
	if cache == nil || cache.client == nil {
		return false
	}

	payload, err := cache.client.Get(context, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			cache.logger.Warn("cache_get_failed", slog.String("key", key), slog.Any("error", err))
		}
		return false
	}

	if err := json.Unmarshal(payload, target); err != nil {
		cache.logger.Warn("cache_decode_failed", slog.String("key", key), slog.Any("error", err))
		return false
	}
	return true
}

// SetJSON stores value at key with the given TTL. Failures are logged, not
// returned, since a cold cache is not an application error.
func (cache *Cache) SetJSON(context context.Context, key string, value any, ttl time.Duration) {
	if cache == nil || cache.client == nil {
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		cache.logger.Warn("cache_encode_failed", slog.String("key", key), slog.Any("error", err))
		return
	}

	if err := cache.client.Set(context, key, payload, ttl).Err(); err != nil {
		cache.logger.Warn("cache_set_failed", slog.String("key", key), slog.Any("error", err))
	}
}

// Invalidate removes the given keys. Used by lifecycle writes.
func (cache *Cache) Invalidate(context context.Context, keys ...string) {
	if cache == nil || cache.client == nil || len(keys) == 0 {
		return
	}

	if err := cache.client.Del(context, keys...).Err(); err != nil {
		cache.logger.Warn("cache_invalidate_failed", slog.Any("keys", keys), slog.Any("error", err))
	}
}

// ComicKey returns the cache key for a single comic payload.
func ComicKey(id int64) string {
	return fmt.Sprintf("catalog:comic:%d", id)
}

// GenreListKey is the cache key for the full genre list.
const GenreListKey = "catalog:genres"
