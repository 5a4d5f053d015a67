// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered blog account.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	IsSuperuser  bool      `json:"is_superuser"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Profile holds the optional public details shown on a user's page.
// Exactly one row exists per user once the profile page has been visited.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Bio       string    `json:"bio"`
	Avatar    *string   `json:"avatar,omitempty"` // object storage key
	Website   string    `json:"website"`
	Location  string    `json:"location"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasAvatar returns true if an avatar image has been uploaded.
func (p *Profile) HasAvatar() bool {
	return p.Avatar != nil && *p.Avatar != ""
}
