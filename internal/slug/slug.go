// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings
// and picks the first free "-N" variant when a slug is already taken.
package slug

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// MaxLen is the storage limit for a slug (posts.slug is VARCHAR(220)).
	MaxLen = 220

	// MaxBaseLen leaves room for a numeric suffix under MaxLen.
	MaxBaseLen = 200

	// Fallback is used when a title contains nothing slug-worthy.
	Fallback = "post"

	// maxSuffix bounds the search for a free candidate.
	maxSuffix = 10_000
)

// ErrExhausted is returned by Unique when no free candidate was found.
var ErrExhausted = errors.New("slug: no free candidate")

var (
	// invalidChars matches anything that isn't a letter, digit, underscore,
	// whitespace or hyphen once the input is lowercased ASCII.
	invalidChars = regexp.MustCompile(`[^a-z0-9_\s-]`)
	// separators collapses runs of whitespace and hyphens into one hyphen.
	separators = regexp.MustCompile(`[-\s]+`)
)

// Generate creates a URL-friendly slug from the given string.
// Example: "Café Society, 2026!" → "cafe-society-2026"
func Generate(s string) string {
	result := strings.ToLower(foldAccents(s))
	result = invalidChars.ReplaceAllString(result, "")
	result = separators.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-_")

	if len(result) > MaxBaseLen {
		result = strings.TrimRight(result[:MaxBaseLen], "-_")
	}
	return result
}

// ExistsFunc reports whether a slug is already in use.
type ExistsFunc func(ctx context.Context, candidate string) (bool, error)

// Unique returns Generate(title), or the first of "base-2", "base-3", ...
// that exists reports as unused. The check and the later insert are not
// atomic; callers must still handle a unique-constraint violation.
func Unique(ctx context.Context, title string, exists ExistsFunc) (string, error) {
	base := Generate(title)
	if base == "" {
		base = Fallback
	}

	candidate := base
	for i := 2; i <= maxSuffix; i++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("slug exists check: %w", err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", ErrExhausted
}

// foldAccents decomposes s and drops combining marks, so "é" becomes "e".
// Characters without an ASCII decomposition are left for invalidChars.
func foldAccents(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
