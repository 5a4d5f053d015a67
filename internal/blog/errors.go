// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blog

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrValidation matches every *ValidationError via errors.Is.
	ErrValidation = errors.New("invalid input")

	// ErrAuthRequired means the operation needs a signed-in user.
	ErrAuthRequired = errors.New("authentication required")

	// ErrPermissionDenied means the signed-in user may not act on the target.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrConflict means a uniqueness constraint could not be satisfied.
	ErrConflict = errors.New("conflict")

	// ErrNotFound means the target post or user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials is returned by Authenticate for an unknown
	// username or a wrong password; the two cases are indistinguishable.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// ValidationError carries one message per offending form field, keyed by
// the field's form name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Is lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Add records a message for field, keeping the first one if already set.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// orNil returns e if any field failed, nil otherwise.
func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// fieldError builds a single-field ValidationError.
func fieldError(field, msg string) *ValidationError {
	ve := &ValidationError{}
	ve.Add(field, msg)
	return ve
}
