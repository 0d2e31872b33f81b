// Package cache provides an explicit get-or-fetch contract over Redis so TTL
// handling lives in one place instead of timestamp comparisons at call sites.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache struct {
	client *redis.Client
}

func New(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// GetOrFetch returns the cached value for key, or runs fetch and stores the
// result for ttl. A Redis failure degrades to calling fetch directly: a cache
// outage must not take the read path down with it.
func (cache *Cache) GetOrFetch(ctx context.Context, key string, ttl time.Duration, fetch func(context.Context) ([]byte, error)) ([]byte, error) {
	value, err := cache.client.Get(ctx, key).Bytes()
	if err == nil {
		return value, nil
	}
	if !errors.Is(err, redis.Nil) {
		slog.Warn("cache read failed, fetching directly", "key", key, "error", err)
	}

	fetched, err := fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", key, err)
	}

	if err := cache.client.Set(ctx, key, fetched, ttl).Err(); err != nil {
		slog.Warn("cache write failed", "key", key, "error", err)
	}
	return fetched, nil
}

// Invalidate drops a key after a write so the next read refetches.
func (cache *Cache) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := cache.client.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("cache invalidation failed", "keys", keys, "error", err)
	}
}
