package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/arvin-shafiei/rental-app-sub001/internal/cache"
)

func newTestCache(t *testing.T) (*cache.Cache, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })
	return cache.New(client), server
}

func TestGetOrFetch_MissThenHit(t *testing.T) {
	testCache, _ := newTestCache(t)
	ctx := context.Background()

	fetchCount := 0
	fetch := func(context.Context) ([]byte, error) {
		fetchCount++
		return []byte(`{"value":1}`), nil
	}

	value, err := testCache.GetOrFetch(ctx, "dashboard:u1", time.Minute, fetch)
	if err != nil {
		t.Fatalf("first get: %v", err)
	}
	if string(value) != `{"value":1}` {
		t.Errorf("unexpected value: %s", value)
	}
	if fetchCount != 1 {
		t.Fatalf("expected one fetch, got %d", fetchCount)
	}

	_, err = testCache.GetOrFetch(ctx, "dashboard:u1", time.Minute, fetch)
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if fetchCount != 1 {
		t.Errorf("expected cached hit without refetch, got %d fetches", fetchCount)
	}
}

func TestGetOrFetch_TTLExpiry(t *testing.T) {
	testCache, server := newTestCache(t)
	ctx := context.Background()

	fetchCount := 0
	fetch := func(context.Context) ([]byte, error) {
		fetchCount++
		return []byte("payload"), nil
	}

	testCache.GetOrFetch(ctx, "k", 5*time.Minute, fetch)
	server.FastForward(6 * time.Minute)

	testCache.GetOrFetch(ctx, "k", 5*time.Minute, fetch)
	if fetchCount != 2 {
		t.Errorf("expected refetch after TTL expiry, got %d fetches", fetchCount)
	}
}

func TestGetOrFetch_DegradesWhenRedisDown(t *testing.T) {
	testCache, server := newTestCache(t)
	server.Close()

	value, err := testCache.GetOrFetch(context.Background(), "k", time.Minute, func(context.Context) ([]byte, error) {
		return []byte("direct"), nil
	})
	if err != nil {
		t.Fatalf("expected direct fetch despite cache outage, got %v", err)
	}
	if string(value) != "direct" {
		t.Errorf("unexpected value: %s", value)
	}
}

func TestInvalidate(t *testing.T) {
	testCache, _ := newTestCache(t)
	ctx := context.Background()

	fetchCount := 0
	fetch := func(context.Context) ([]byte, error) {
		fetchCount++
		return []byte("v"), nil
	}

	testCache.GetOrFetch(ctx, "k", time.Minute, fetch)
	testCache.Invalidate(ctx, "k")
	testCache.GetOrFetch(ctx, "k", time.Minute, fetch)

	if fetchCount != 2 {
		t.Errorf("expected refetch after invalidation, got %d fetches", fetchCount)
	}
}
