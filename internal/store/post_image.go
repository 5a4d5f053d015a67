// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// PostImageStore handles gallery images attached to posts.
type PostImageStore struct {
	db DBTX
}

// NewPostImageStore creates a new PostImageStore with the given database connection.
func NewPostImageStore(db DBTX) *PostImageStore {
	return &PostImageStore{db: db}
}

// Create inserts a gallery image for a post.
func (s *PostImageStore) Create(ctx context.Context, img *models.PostImage) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO post_images (post_id, image, caption)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, img.PostID, img.Image, img.Caption).Scan(&img.ID, &img.CreatedAt)
	if violates(err, pgForeignKeyViolation, "") {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("create post image: %w", err)
	}
	return nil
}

// ListByPost returns a post's gallery in upload order.
func (s *PostImageStore) ListByPost(ctx context.Context, postID uuid.UUID) ([]models.PostImage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, post_id, image, caption, created_at
		FROM post_images
		WHERE post_id = $1
		ORDER BY created_at, id
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("list post images: %w", err)
	}
	defer rows.Close()

	var images []models.PostImage
	for rows.Next() {
		var img models.PostImage
		if err := rows.Scan(&img.ID, &img.PostID, &img.Image, &img.Caption, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan post image: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// ListByPosts loads the galleries of several posts in one query, keyed by
// post ID.
func (s *PostImageStore) ListByPosts(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID][]models.PostImage, error) {
	result := make(map[uuid.UUID][]models.PostImage)
	if len(postIDs) == 0 {
		return result, nil
	}

	args := make([]any, len(postIDs))
	for i, id := range postIDs {
		args[i] = id
	}

	query := `SELECT id, post_id, image, caption, created_at
		FROM post_images
		WHERE post_id IN (` + placeholders(1, len(postIDs)) + `)
		ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list images by posts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var img models.PostImage
		if err := rows.Scan(&img.ID, &img.PostID, &img.Image, &img.Caption, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan post image: %w", err)
		}
		result[img.PostID] = append(result[img.PostID], img)
	}
	return result, rows.Err()
}

// CountByPost returns the number of gallery images a post has.
func (s *PostImageStore) CountByPost(ctx context.Context, postID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM post_images WHERE post_id = $1`, postID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count post images: %w", err)
	}
	return count, nil
}
