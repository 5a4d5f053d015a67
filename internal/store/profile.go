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

// ProfileStore handles profile rows (one per user).
type ProfileStore struct {
	db DBTX
}

// NewProfileStore creates a new ProfileStore with the given database connection.
func NewProfileStore(db DBTX) *ProfileStore {
	return &ProfileStore{db: db}
}

const profileColumns = `id, user_id, bio, avatar, website, location, updated_at`

func scanProfile(row rowScanner) (*models.Profile, error) {
	p := &models.Profile{}
	err := row.Scan(&p.ID, &p.UserID, &p.Bio, &p.Avatar, &p.Website, &p.Location, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// FindByUserID retrieves the profile of a user. Returns nil if none exists.
func (s *ProfileStore) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	p, err := scanProfile(s.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find profile by user: %w", err)
	}
	return p, nil
}

// GetOrCreate returns the user's profile, inserting an empty one first if
// none exists. The insert uses ON CONFLICT DO NOTHING so concurrent first
// visits still leave exactly one row. created reports whether this call
// inserted it.
func (s *ProfileStore) GetOrCreate(ctx context.Context, userID uuid.UUID) (p *models.Profile, created bool, err error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`, userID)
	if violates(err, pgForeignKeyViolation, "") {
		return nil, false, ErrNotFound
	}
	if err != nil {
		return nil, false, fmt.Errorf("insert profile: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("insert profile rows affected: %w", err)
	}

	p, err = s.FindByUserID(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if p == nil {
		// Deleted between insert and select (user removed concurrently).
		return nil, false, ErrNotFound
	}
	return p, n == 1, nil
}

// Update writes every editable field of p.
func (s *ProfileStore) Update(ctx context.Context, p *models.Profile) error {
	err := s.db.QueryRowContext(ctx, `
		UPDATE profiles SET
			bio = $1, avatar = $2, website = $3, location = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`, p.Bio, p.Avatar, p.Website, p.Location, p.ID).Scan(&p.UpdatedAt)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// CountByUserID returns how many profile rows a user has (0 or 1).
func (s *ProfileStore) CountByUserID(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count profiles: %w", err)
	}
	return count, nil
}
