package blog

import (
	"context"
	"errors"
	"fmt"

	"inkwell/internal/models"
	"inkwell/internal/store"
)

// Register creates a regular (non-superuser) account.
func (s *Service) Register(ctx context.Context, in SignupInput) (*models.User, error) {
	if err := ValidateSignup(&in); err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, in.Username, in.Email, in.Password, false)
	if errors.Is(err, store.ErrUsernameTaken) {
		return nil, fmt.Errorf("%w: username %q is taken", ErrConflict, in.Username)
	}
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return user, nil
}

// Authenticate checks a username and password.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if user == nil || !s.users.CheckPassword(user, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// FindUser returns the user with the given username or ErrNotFound.
func (s *Service) FindUser(ctx context.Context, username string) (*models.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}
