package blog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/store"
)

// AddComment attaches a comment by actor to the post with the given slug.
func (s *Service) AddComment(ctx context.Context, actor *models.User, postSlug string, in CommentInput) (*models.Comment, error) {
	if actor == nil {
		return nil, ErrAuthRequired
	}
	if err := ValidateComment(&in); err != nil {
		return nil, err
	}

	post, err := s.posts.FindBySlug(ctx, postSlug)
	if err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	if post == nil {
		return nil, ErrNotFound
	}

	c := &models.Comment{
		PostID:         post.ID,
		AuthorID:       actor.ID,
		Body:           in.Body,
		AuthorUsername: actor.Username,
	}
	if err := s.comments.Create(ctx, c); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("add comment: %w", err)
	}
	return c, nil
}

// ListComments returns a post's comments oldest first.
func (s *Service) ListComments(ctx context.Context, postID uuid.UUID) ([]models.Comment, error) {
	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return comments, nil
}
