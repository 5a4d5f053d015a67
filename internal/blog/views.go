package blog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/store"
)

// RecordView counts one view of a post and returns the new total. The
// increment happens in a single UPDATE, so concurrent views never lose
// counts.
func (s *Service) RecordView(ctx context.Context, postID uuid.UUID) (int64, error) {
	n, err := s.posts.IncrementViewCount(ctx, postID)
	if errors.Is(err, store.ErrNotFound) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("record view: %w", err)
	}
	return n, nil
}

// ViewPost loads a post for display and counts the visit. Every call
// counts; there is no per-visitor deduplication.
func (s *Service) ViewPost(ctx context.Context, postSlug string) (*models.Post, error) {
	post, err := s.GetPost(ctx, postSlug)
	if err != nil {
		return nil, err
	}
	n, err := s.RecordView(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	post.ViewCount = n
	return post, nil
}
