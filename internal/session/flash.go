// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// FlashCookieName identifies the visitor's flash queue.
	FlashCookieName = "iw_flash"

	flashKeyPrefix = "flash:"

	// flashTTL bounds how long an unread flash survives.
	flashTTL = 5 * time.Minute
)

// Flash is a one-time notification shown on the next rendered page.
type Flash struct {
	Type    string `json:"type"` // "success", "error", "warning", "info"
	Message string `json:"message"`
}

// AddFlash queues a message for the visitor, issuing a flash cookie if the
// request has none.
func (s *Store) AddFlash(ctx context.Context, w http.ResponseWriter, r *http.Request, f Flash) error {
	id := ""
	if c, err := r.Cookie(FlashCookieName); err == nil && c.Value != "" {
		id = c.Value
	} else {
		var err error
		if id, err = generateID(); err != nil {
			return fmt.Errorf("flash id: %w", err)
		}
		s.setCookie(w, FlashCookieName, id, int(flashTTL.Seconds()))
	}

	payload, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("flash marshal: %w", err)
	}

	key := flashKeyPrefix + id
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, payload)
		pipe.Expire(ctx, key, flashTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("flash push: %w", err)
	}
	return nil
}

// PopFlashes returns and clears the visitor's queued messages in the order
// they were added.
func (s *Store) PopFlashes(ctx context.Context, r *http.Request) []Flash {
	c, err := r.Cookie(FlashCookieName)
	if err != nil || c.Value == "" {
		return nil
	}

	key := flashKeyPrefix + c.Value
	var items *redis.StringSliceCmd
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		items = pipe.LRange(ctx, key, 0, -1)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		slog.Warn("flash pop failed", "error", err)
		return nil
	}

	var flashes []Flash
	for _, raw := range items.Val() {
		var f Flash
		if err := json.Unmarshal([]byte(raw), &f); err != nil {
			continue
		}
		flashes = append(flashes, f)
	}
	return flashes
}
