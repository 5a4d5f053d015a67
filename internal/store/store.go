// Package store provides database access methods for all Inkwell entities.
// Each store struct wraps a DBTX and exposes typed query methods, so the
// same store works on the pool or inside a transaction.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes and constraint names the stores translate.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"

	constraintPostSlug     = "posts_slug_key"
	constraintUserUsername = "users_username_key"
)

var (
	// ErrSlugTaken means another post already holds the slug.
	ErrSlugTaken = errors.New("store: slug already taken")

	// ErrUsernameTaken means another user already holds the username.
	ErrUsernameTaken = errors.New("store: username already taken")

	// ErrNotFound is returned by mutations whose target row does not exist.
	// Lookups return (nil, nil) instead.
	ErrNotFound = errors.New("store: not found")
)

// DBTX is the subset of *sql.DB and *sql.Tx the stores need.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn inside a transaction. The transaction is committed if fn
// returns nil and rolled back otherwise, including on panic.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// violates reports whether err is a PostgreSQL error with the given code
// and, when constraint is non-empty, that constraint name.
func violates(err error, code, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	if pgErr.Code != code {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// placeholders returns "$start, $start+1, ..." for n arguments.
func placeholders(start, n int) string {
	s := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("$%d", start+i)
	}
	return s
}
