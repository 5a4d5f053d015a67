// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blog

import (
	"context"
	"errors"
	"fmt"

	"inkwell/internal/imaging"
	"inkwell/internal/models"
	"inkwell/internal/store"
)

// GetOrCreateProfile returns the user and their profile, creating an empty
// profile on first access. Concurrent first calls still produce one row.
func (s *Service) GetOrCreateProfile(ctx context.Context, username string) (*models.User, *models.Profile, error) {
	user, err := s.FindUser(ctx, username)
	if err != nil {
		return nil, nil, err
	}

	profile, _, err := s.profiles.GetOrCreate(ctx, user.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("get profile: %w", err)
	}
	return user, profile, nil
}

// UpdateProfile applies the non-nil fields of in, and a new avatar if
// given, to username's profile. Only the owner may do this; anyone else is
// refused before the profile row is created or touched.
func (s *Service) UpdateProfile(ctx context.Context, actor *models.User, username string, in ProfileInput, avatar *Upload) (*models.Profile, error) {
	if actor == nil {
		return nil, ErrAuthRequired
	}

	user, err := s.FindUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if !CanEditProfile(actor, user.ID) {
		return nil, ErrPermissionDenied
	}

	ve := profileErrors(&in)
	var av *preparedUpload
	if avatar != nil {
		av = s.prepare("avatar", prefixAvatar, *avatar, ve)
	}
	if err := ve.orNil(); err != nil {
		return nil, err
	}

	if av != nil {
		data, contentType, err := imaging.Fit(av.data, avatarMaxWidth)
		if err != nil {
			return nil, fieldError("avatar", "Upload a valid image.")
		}
		if contentType != av.contentType {
			av.key = newKey(prefixAvatar, contentType)
		}
		av.data, av.contentType = data, contentType
		if err := s.put(ctx, []*preparedUpload{av}); err != nil {
			return nil, err
		}
	}

	profile, _, err := s.profiles.GetOrCreate(ctx, user.ID)
	if err != nil {
		if av != nil {
			s.discard(ctx, av.key)
		}
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	var replaced *string
	if in.Bio != nil {
		profile.Bio = *in.Bio
	}
	if in.Website != nil {
		profile.Website = *in.Website
	}
	if in.Location != nil {
		profile.Location = *in.Location
	}
	if av != nil {
		replaced = profile.Avatar
		profile.Avatar = &av.key
	}

	if err := s.profiles.Update(ctx, profile); err != nil {
		if av != nil {
			s.discard(ctx, av.key)
		}
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	if replaced != nil && *replaced != "" {
		s.discard(ctx, *replaced)
	}
	return profile, nil
}
