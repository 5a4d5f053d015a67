// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"inkwell/internal/models"
)

const (
	// trendingKeyPrefix is the Valkey key prefix for cached trending lists.
	trendingKeyPrefix = "trending:"

	// DefaultTrendingTTL bounds how stale the sidebar can get between
	// invalidations. View counts change on every read, so they are never
	// used to invalidate.
	DefaultTrendingTTL = 60 * time.Second
)

// TrendingCache stores the trending sidebar in Valkey as JSON. Cache errors
// are logged and treated as misses so the caller falls back to the database.
type TrendingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTrendingCache creates a trending cache backed by the given Valkey client.
func NewTrendingCache(client *redis.Client, ttl time.Duration) *TrendingCache {
	if ttl == 0 {
		ttl = DefaultTrendingTTL
	}
	return &TrendingCache{client: client, ttl: ttl}
}

func trendingKey(limit int) string {
	return fmt.Sprintf("%s%d", trendingKeyPrefix, limit)
}

// GetTrending returns the cached top-limit list.
func (tc *TrendingCache) GetTrending(ctx context.Context, limit int) ([]models.Post, bool) {
	val, err := tc.client.Get(ctx, trendingKey(limit)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("trending cache get error", "limit", limit, "error", err)
		return nil, false
	}

	var posts []models.Post
	if err := json.Unmarshal(val, &posts); err != nil {
		slog.Warn("trending cache decode error", "limit", limit, "error", err)
		return nil, false
	}
	return posts, true
}

// SetTrending stores the top-limit list with the configured TTL.
func (tc *TrendingCache) SetTrending(ctx context.Context, limit int, posts []models.Post) {
	data, err := json.Marshal(posts)
	if err != nil {
		slog.Warn("trending cache encode error", "error", err)
		return
	}
	if err := tc.client.Set(ctx, trendingKey(limit), data, tc.ttl).Err(); err != nil {
		slog.Warn("trending cache set error", "limit", limit, "error", err)
	}
}

// InvalidateTrending removes every cached trending list.
func (tc *TrendingCache) InvalidateTrending(ctx context.Context) {
	var cursor uint64
	for {
		keys, next, err := tc.client.Scan(ctx, cursor, trendingKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("trending cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := tc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("trending cache delete error", "error", err)
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	slog.Debug("trending cache invalidated")
}
