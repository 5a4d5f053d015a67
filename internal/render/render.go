// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the public site.
// Every page template is parsed together with the shared base layout and
// executed into a buffer, so a template error never leaves a half-written
// response.
package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"inkwell/internal/markdown"
	"inkwell/internal/middleware"
	"inkwell/internal/session"
)

//go:embed templates/*.html templates/partials/*.html
var templateFS embed.FS

// PageData holds all data passed to templates.
type PageData struct {
	Title     string            // Page title for <title> tag
	Session   *session.Data     // Current user session (nil if anonymous)
	CSRFToken string            // CSRF token for hidden form fields
	Data      map[string]any    // Page-specific data
	Errors    map[string]string // Field errors keyed by form field name
	Flashes   []session.Flash   // One-time notification messages
}

// FlashSource yields the flashes queued for a visitor. *session.Store
// implements it.
type FlashSource interface {
	PopFlashes(ctx context.Context, r *http.Request) []session.Flash
}

// Renderer handles template parsing and execution.
type Renderer struct {
	templates map[string]*template.Template
	flashes   FlashSource
}

// funcMap is shared by every template.
var funcMap = template.FuncMap{
	"markdown": markdown.HTML,
	// media maps an object storage key to the /media/ redirect route.
	"media": func(key string) string {
		return "/media/" + key
	},
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"date": func(t time.Time) string {
		return t.Format("Jan 2, 2006 15:04")
	},
	"truncate": truncate,
	// owns reports whether the signed-in user may edit ownerID's content.
	"owns": func(sess *session.Data, ownerID uuid.UUID) bool {
		return sess != nil && (sess.IsSuperuser || sess.UserID == ownerID)
	},
	"isSelf": func(sess *session.Data, userID uuid.UUID) bool {
		return sess != nil && sess.UserID == userID
	},
	"plural": func(n int64, singular, plural string) string {
		if n == 1 {
			return singular
		}
		return plural
	},
}

// New parses every page template in the embedded filesystem, each paired
// with the base layout and the shared partials. flashes may be nil.
func New(flashes FlashSource) (*Renderer, error) {
	rn := &Renderer{
		templates: make(map[string]*template.Template),
		flashes:   flashes,
	}

	pages, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("glob templates: %w", err)
	}

	for _, page := range pages {
		name := strings.TrimSuffix(strings.TrimPrefix(page, "templates/"), ".html")
		if name == "base" {
			continue
		}

		tmpl, err := template.New("base.html").Funcs(funcMap).ParseFS(templateFS,
			"templates/base.html", "templates/partials/*.html", page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		rn.templates[name] = tmpl
	}

	return rn, nil
}

// Page renders a full page with status 200.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	rn.PageStatus(w, r, name, http.StatusOK, data)
}

// PageStatus renders a full page with the given status code. Session,
// CSRF token and pending flashes are filled in from the request.
func (rn *Renderer) PageStatus(w http.ResponseWriter, r *http.Request, name string, status int, data *PageData) {
	tmpl, ok := rn.templates[name]
	if !ok {
		slog.Error("template not found", "name", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if data == nil {
		data = &PageData{}
	}
	data.CSRFToken = middleware.CSRFTokenFromCtx(r.Context())
	if data.Session == nil {
		data.Session = middleware.SessionFromCtx(r.Context())
	}
	if rn.flashes != nil {
		data.Flashes = append(data.Flashes, rn.flashes.PopFlashes(r.Context(), r)...)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		slog.Error("template execution failed", "name", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// truncate shortens s to at most n runes, cutting at a word boundary and
// appending an ellipsis when anything was removed.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	cut := string(runes[:n])
	if i := strings.LastIndexAny(cut, " \n\t"); i > n/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " \n\t.,;:") + "…"
}
