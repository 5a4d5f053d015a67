// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

// URLResolver maps an object key to its public URL. *storage.Client
// implements it.
type URLResolver interface {
	FileURL(key string) string
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Public groups handlers that need no templates: uploaded media and the
// health check.
type Public struct {
	media URLResolver
	db    Pinger
}

// NewPublic creates a new Public handler group. media may be nil when
// object storage is not configured.
func NewPublic(media URLResolver, db Pinger) *Public {
	return &Public{media: media, db: db}
}

// Media redirects /media/{key} to the object's public storage URL.
func (p *Public) Media(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if p.media == nil || key == "" || strings.Contains(key, "..") {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.Redirect(w, r, p.media.FileURL(key), http.StatusFound)
}

// Health reports whether the database answers.
func (p *Public) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := p.db.PingContext(ctx); err != nil {
		slog.Error("health check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("unavailable"))
		return
	}
	w.Write([]byte("ok"))
}
