// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/slug"
	"inkwell/internal/store"
)

// maxSlugAttempts bounds how often creation is retried after losing a slug
// race to a concurrent insert.
const maxSlugAttempts = 5

// validateUploads checks the post form and its files together so every
// problem is reported at once.
func (s *Service) validateUploads(in *PostInput, featured *Upload, gallery []Upload) (*preparedUpload, []*preparedUpload, error) {
	ve := postErrors(in)

	var feat *preparedUpload
	if featured != nil {
		feat = s.prepare("featured_image", prefixFeatured, *featured, ve)
	}

	if len(gallery) > MaxGalleryFiles {
		ve.Add("gallery", fmt.Sprintf("Upload at most %d gallery images at once.", MaxGalleryFiles))
	}
	var gal []*preparedUpload
	if len(gallery) <= MaxGalleryFiles {
		for _, u := range gallery {
			if p := s.prepare("gallery", prefixGallery, u, ve); p != nil {
				gal = append(gal, p)
			}
		}
	}

	if err := ve.orNil(); err != nil {
		return nil, nil, err
	}
	return feat, gal, nil
}

// CreatePost publishes a post by actor together with its optional
// featured image and gallery. Files are uploaded first; the post and all
// gallery rows are then written in one transaction, so readers see the
// post with every image or not at all. On failure the uploaded files are
// removed again.
func (s *Service) CreatePost(ctx context.Context, actor *models.User, in PostInput, featured *Upload, gallery []Upload) (*models.Post, error) {
	if actor == nil {
		return nil, ErrAuthRequired
	}

	feat, gal, err := s.validateUploads(&in, featured, gallery)
	if err != nil {
		return nil, err
	}
	return s.publish(ctx, actor, in, feat, gal)
}

// publish uploads validated files, then writes the post and its gallery
// rows. Any failure after the first upload removes every uploaded file.
func (s *Service) publish(ctx context.Context, actor *models.User, in PostInput, feat *preparedUpload, gal []*preparedUpload) (*models.Post, error) {
	uploads := gal
	if feat != nil {
		uploads = append([]*preparedUpload{feat}, gal...)
	}
	if err := s.put(ctx, uploads); err != nil {
		return nil, err
	}

	var (
		post *models.Post
		err  error
	)
	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		post, err = s.insertPost(ctx, actor, in, feat, gal)
		if !errors.Is(err, store.ErrSlugTaken) {
			break
		}
	}
	if err != nil {
		s.discard(ctx, keysOf(uploads)...)
		switch {
		case errors.Is(err, store.ErrSlugTaken), errors.Is(err, slug.ErrExhausted):
			return nil, fmt.Errorf("%w: could not assign a unique slug for %q", ErrConflict, in.Title)
		case errors.Is(err, store.ErrNotFound):
			// The author was deleted mid-request.
			return nil, ErrAuthRequired
		}
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.invalidateTrending(ctx)
	return post, nil
}

// insertPost runs one creation attempt in a transaction.
func (s *Service) insertPost(ctx context.Context, actor *models.User, in PostInput, feat *preparedUpload, gal []*preparedUpload) (*models.Post, error) {
	var post *models.Post
	err := store.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		posts := store.NewPostStore(tx)
		images := store.NewPostImageStore(tx)

		sl, err := slug.Unique(ctx, in.Title, posts.SlugExists)
		if err != nil {
			return err
		}

		p := &models.Post{
			Title:          in.Title,
			Slug:           sl,
			AuthorID:       actor.ID,
			Content:        in.Content,
			AuthorUsername: actor.Username,
		}
		if feat != nil {
			p.FeaturedImage = &feat.key
		}
		if err := posts.Create(ctx, p); err != nil {
			return err
		}

		for _, g := range gal {
			img := &models.PostImage{PostID: p.ID, Image: g.key, Caption: g.caption}
			if err := images.Create(ctx, img); err != nil {
				return err
			}
			p.Images = append(p.Images, *img)
		}

		post = p
		return nil
	})
	return post, err
}

// UpdatePost edits title and content, replaces the featured image when a
// new one is given and appends gallery images. The slug never changes.
func (s *Service) UpdatePost(ctx context.Context, actor *models.User, postSlug string, in PostInput, featured *Upload, gallery []Upload) (*models.Post, error) {
	if actor == nil {
		return nil, ErrAuthRequired
	}

	post, err := s.posts.FindBySlug(ctx, postSlug)
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	if post == nil {
		return nil, ErrNotFound
	}
	if !CanModify(actor, post.AuthorID) {
		return nil, ErrPermissionDenied
	}

	feat, gal, err := s.validateUploads(&in, featured, gallery)
	if err != nil {
		return nil, err
	}

	uploads := gal
	if feat != nil {
		uploads = append([]*preparedUpload{feat}, gal...)
	}
	if err := s.put(ctx, uploads); err != nil {
		return nil, err
	}

	var replaced *string
	post.Title = in.Title
	post.Content = in.Content
	if feat != nil {
		replaced = post.FeaturedImage
		post.FeaturedImage = &feat.key
	}

	err = store.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := store.NewPostStore(tx).Update(ctx, post); err != nil {
			return err
		}
		images := store.NewPostImageStore(tx)
		for _, g := range gal {
			img := &models.PostImage{PostID: post.ID, Image: g.key, Caption: g.caption}
			if err := images.Create(ctx, img); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.discard(ctx, keysOf(uploads)...)
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update post: %w", err)
	}

	if replaced != nil {
		s.discard(ctx, *replaced)
	}

	s.invalidateTrending(ctx)
	return s.GetPost(ctx, postSlug)
}

// DeletePost removes a post with its gallery and comments, then deletes
// the stored files.
func (s *Service) DeletePost(ctx context.Context, actor *models.User, postSlug string) error {
	if actor == nil {
		return ErrAuthRequired
	}

	post, err := s.posts.FindBySlug(ctx, postSlug)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if post == nil {
		return ErrNotFound
	}
	if !CanModify(actor, post.AuthorID) {
		return ErrPermissionDenied
	}

	images, err := s.images.ListByPost(ctx, post.ID)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	if err := s.posts.Delete(ctx, post.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete post: %w", err)
	}

	keys := make([]string, 0, len(images)+1)
	if post.HasFeaturedImage() {
		keys = append(keys, *post.FeaturedImage)
	}
	for _, img := range images {
		keys = append(keys, img.Image)
	}
	s.discard(ctx, keys...)

	s.invalidateTrending(ctx)
	return nil
}

// GetPost returns a post with its gallery.
func (s *Service) GetPost(ctx context.Context, postSlug string) (*models.Post, error) {
	post, err := s.posts.FindBySlug(ctx, postSlug)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	if post == nil {
		return nil, ErrNotFound
	}
	post.Images, err = s.images.ListByPost(ctx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("get post images: %w", err)
	}
	return post, nil
}

// ListPosts returns every post newest first, galleries included.
func (s *Service) ListPosts(ctx context.Context) ([]models.Post, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.withImages(ctx, posts)
}

// ListByAuthor returns a user's posts newest first, galleries included.
func (s *Service) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Post, error) {
	posts, err := s.posts.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	return s.withImages(ctx, posts)
}

// Trending returns up to n posts by view count, then recency. The list is
// served from the cache when one is configured.
func (s *Service) Trending(ctx context.Context, n int) ([]models.Post, error) {
	if s.trending != nil {
		if posts, ok := s.trending.GetTrending(ctx, n); ok {
			return posts, nil
		}
	}
	posts, err := s.posts.Trending(ctx, n)
	if err != nil {
		return nil, err
	}
	if s.trending != nil {
		s.trending.SetTrending(ctx, n, posts)
	}
	return posts, nil
}

func (s *Service) withImages(ctx context.Context, posts []models.Post) ([]models.Post, error) {
	if len(posts) == 0 {
		return posts, nil
	}
	ids := make([]uuid.UUID, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}
	byPost, err := s.images.ListByPosts(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].Images = byPost[posts[i].ID]
	}
	return posts, nil
}

func (s *Service) invalidateTrending(ctx context.Context) {
	if s.trending != nil {
		s.trending.InvalidateTrending(ctx)
	}
}
