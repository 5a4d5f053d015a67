// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"inkwell/internal/models"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, trendingKeyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client, err := ConnectValkey(context.Background(), host, port, os.Getenv("VALKEY_PASSWORD"))
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	pong, err := client.Ping(context.Background()).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestConnectValkeyUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	client, err := ConnectValkey(ctx, "127.0.0.1", "1", "")
	if err == nil {
		client.Close()
		t.Fatal("expected an error for a closed port")
	}
	if client != nil {
		t.Error("client should be nil on failure")
	}
}

func TestTrendingCacheSetAndGet(t *testing.T) {
	tc := NewTrendingCache(testValkeyClient(t), time.Minute)
	ctx := context.Background()

	if _, ok := tc.GetTrending(ctx, 5); ok {
		t.Error("expected cache miss")
	}

	posts := []models.Post{
		{ID: uuid.New(), Title: "Hot", Slug: "hot", ViewCount: 42, AuthorUsername: "ana"},
		{ID: uuid.New(), Title: "Warm", Slug: "warm", ViewCount: 7, AuthorUsername: "bob"},
	}
	tc.SetTrending(ctx, 5, posts)

	got, ok := tc.GetTrending(ctx, 5)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(got) != 2 || got[0].Slug != "hot" || got[0].ViewCount != 42 || got[1].AuthorUsername != "bob" {
		t.Errorf("round trip mismatch: %+v", got)
	}

	if _, ok := tc.GetTrending(ctx, 3); ok {
		t.Error("different limit should miss")
	}
}

func TestTrendingCacheInvalidate(t *testing.T) {
	tc := NewTrendingCache(testValkeyClient(t), time.Minute)
	ctx := context.Background()

	tc.SetTrending(ctx, 5, []models.Post{{Slug: "a"}})
	tc.SetTrending(ctx, 10, []models.Post{{Slug: "b"}})

	tc.InvalidateTrending(ctx)

	for _, n := range []int{5, 10} {
		if _, ok := tc.GetTrending(ctx, n); ok {
			t.Errorf("expected miss for limit %d after invalidation", n)
		}
	}
}

func TestNewTrendingCacheDefaultTTL(t *testing.T) {
	tc := NewTrendingCache(nil, 0)
	if tc.ttl != DefaultTrendingTTL {
		t.Errorf("expected DefaultTrendingTTL (%v), got %v", DefaultTrendingTTL, tc.ttl)
	}
}
