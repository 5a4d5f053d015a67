// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// PostStore handles all post-related database operations.
type PostStore struct {
	db DBTX
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db DBTX) *PostStore {
	return &PostStore{db: db}
}

// postColumns selects a post joined with its author's username. Every
// query using it must alias posts as p and users as u.
const postColumns = `
	p.id, p.title, p.slug, p.author_id, p.content, p.featured_image,
	p.view_count, p.created_at, p.updated_at, u.username`

const postFrom = ` FROM posts p JOIN users u ON u.id = p.author_id`

func scanPost(row rowScanner) (*models.Post, error) {
	p := &models.Post{}
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.AuthorID, &p.Content, &p.FeaturedImage,
		&p.ViewCount, &p.CreatedAt, &p.UpdatedAt, &p.AuthorUsername,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostStore) queryPosts(ctx context.Context, query string, args ...any) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// Create inserts a new post and fills in its generated fields. Returns
// ErrSlugTaken when the slug collides with an existing post and
// ErrNotFound when the author does not exist.
func (s *PostStore) Create(ctx context.Context, p *models.Post) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO posts (title, slug, author_id, content, featured_image)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, view_count, created_at, updated_at
	`, p.Title, p.Slug, p.AuthorID, p.Content, p.FeaturedImage,
	).Scan(&p.ID, &p.ViewCount, &p.CreatedAt, &p.UpdatedAt)
	if violates(err, pgUniqueViolation, constraintPostSlug) {
		return ErrSlugTaken
	}
	if violates(err, pgForeignKeyViolation, "") {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

// SlugExists reports whether any post uses the given slug.
func (s *PostStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM posts WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return exists, nil
}

// FindBySlug retrieves a post by slug. Returns nil if not found.
func (s *PostStore) FindBySlug(ctx context.Context, slug string) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx, `SELECT `+postColumns+postFrom+` WHERE p.slug = $1`, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return p, nil
}

// FindByID retrieves a post by its UUID. Returns nil if not found.
func (s *PostStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx, `SELECT `+postColumns+postFrom+` WHERE p.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// List returns every post, newest first.
func (s *PostStore) List(ctx context.Context) ([]models.Post, error) {
	posts, err := s.queryPosts(ctx, `SELECT `+postColumns+postFrom+` ORDER BY p.created_at DESC, p.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// ListByAuthor returns the posts written by one user, newest first.
func (s *PostStore) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Post, error) {
	posts, err := s.queryPosts(ctx,
		`SELECT `+postColumns+postFrom+` WHERE p.author_id = $1 ORDER BY p.created_at DESC, p.id DESC`,
		authorID,
	)
	if err != nil {
		return nil, fmt.Errorf("list posts by author: %w", err)
	}
	return posts, nil
}

// Trending returns up to limit posts ordered by view count, then recency.
func (s *PostStore) Trending(ctx context.Context, limit int) ([]models.Post, error) {
	posts, err := s.queryPosts(ctx,
		`SELECT `+postColumns+postFrom+` ORDER BY p.view_count DESC, p.created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("trending posts: %w", err)
	}
	return posts, nil
}

// Update writes title, content and featured image. The slug and author
// are never changed.
func (s *PostStore) Update(ctx context.Context, p *models.Post) error {
	err := s.db.QueryRowContext(ctx, `
		UPDATE posts SET
			title = $1, content = $2, featured_image = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at
	`, p.Title, p.Content, p.FeaturedImage, p.ID).Scan(&p.UpdatedAt)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// Delete removes a post. Images and comments cascade.
func (s *PostStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete post rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementViewCount adds one to the post's view count in a single
// statement and returns the new value.
func (s *PostStore) IncrementViewCount(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `
		UPDATE posts SET view_count = view_count + 1
		WHERE id = $1
		RETURNING view_count
	`, id).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("increment view count: %w", err)
	}
	return count, nil
}
