package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Development superuser created by Seed.
const (
	seedUsername = "admin"
	seedPassword = "admin"
	seedEmail    = "admin@inkwell.local"
)

// Seed creates a development superuser with an empty profile when the
// users table is empty. It is safe to call on every start.
func Seed(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	// ON CONFLICT keeps concurrent seeders (parallel test packages) from failing.
	_, err = db.ExecContext(ctx, `
		WITH u AS (
			INSERT INTO users (username, email, password_hash, is_superuser)
			VALUES ($1, $2, $3, TRUE)
			ON CONFLICT (username) DO NOTHING
			RETURNING id
		)
		INSERT INTO profiles (user_id) SELECT id FROM u
	`, seedUsername, seedEmail, string(hash))
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	slog.Info("database seeded with default superuser",
		"username", seedUsername,
		"password", seedPassword,
	)

	return nil
}
