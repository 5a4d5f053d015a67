// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Post is a blog entry. Slug is assigned once at creation and never changes.
type Post struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	AuthorID      uuid.UUID `json:"author_id"`
	Content       string    `json:"content"`
	FeaturedImage *string   `json:"featured_image,omitempty"` // object storage key
	ViewCount     int64     `json:"view_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Populated by list queries that join users; empty otherwise.
	AuthorUsername string `json:"author_username,omitempty"`

	// Populated when the caller loads the gallery.
	Images []PostImage `json:"images,omitempty"`
}

// HasFeaturedImage returns true if the post has a featured image key.
func (p *Post) HasFeaturedImage() bool {
	return p.FeaturedImage != nil && *p.FeaturedImage != ""
}

// IsAuthoredBy returns true if userID wrote the post.
func (p *Post) IsAuthoredBy(userID uuid.UUID) bool {
	return p.AuthorID == userID
}

// PostImage is one gallery image attached to a post.
type PostImage struct {
	ID        uuid.UUID `json:"id"`
	PostID    uuid.UUID `json:"post_id"`
	Image     string    `json:"image"` // object storage key
	Caption   string    `json:"caption"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment is a reader's reply on a post. Comments are shown oldest first.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	PostID    uuid.UUID `json:"post_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`

	AuthorUsername string `json:"author_username,omitempty"`
}
