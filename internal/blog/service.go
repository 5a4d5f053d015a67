// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package blog implements the blogging rules on top of the stores: post
// authoring with atomic galleries, view counting, comments, profiles and
// accounts. Handlers call a *Service and map its errors to HTTP responses.
package blog

import (
	"context"
	"database/sql"

	"inkwell/internal/models"
	"inkwell/internal/store"
)

// ObjectStore persists uploaded files. *storage.Client implements it.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// TrendingCache caches the trending list. *cache.TrendingCache implements it.
type TrendingCache interface {
	GetTrending(ctx context.Context, limit int) ([]models.Post, bool)
	SetTrending(ctx context.Context, limit int, posts []models.Post)
	InvalidateTrending(ctx context.Context)
}

// Options configures optional collaborators. Leave Objects nil to run
// without uploads and Trending nil to skip caching.
type Options struct {
	Objects        ObjectStore
	Trending       TrendingCache
	MaxUploadBytes int64 // per file; defaults to DefaultMaxUploadBytes
}

// DefaultMaxUploadBytes is the per-file upload limit when none is configured.
const DefaultMaxUploadBytes = 10 << 20

// Service is the entry point for all blog operations.
type Service struct {
	db       *sql.DB
	users    *store.UserStore
	profiles *store.ProfileStore
	posts    *store.PostStore
	images   *store.PostImageStore
	comments *store.CommentStore

	objects   ObjectStore
	trending  TrendingCache
	maxUpload int64
}

// NewService creates a Service over db.
func NewService(db *sql.DB, opts Options) *Service {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	return &Service{
		db:        db,
		users:     store.NewUserStore(db),
		profiles:  store.NewProfileStore(db),
		posts:     store.NewPostStore(db),
		images:    store.NewPostImageStore(db),
		comments:  store.NewCommentStore(db),
		objects:   opts.Objects,
		trending:  opts.Trending,
		maxUpload: opts.MaxUploadBytes,
	}
}

// UploadsEnabled reports whether an object store is configured.
func (s *Service) UploadsEnabled() bool {
	return s.objects != nil
}
