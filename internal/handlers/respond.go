package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"inkwell/internal/blog"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/render"
	"inkwell/internal/session"
)

// Flasher queues one-time messages for the next page. *session.Store
// implements it.
type Flasher interface {
	AddFlash(ctx context.Context, w http.ResponseWriter, r *http.Request, f session.Flash) error
}

// actorFromCtx returns the signed-in user as the service layer sees it, or
// nil for anonymous requests.
func actorFromCtx(r *http.Request) *models.User {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		return nil
	}
	return &models.User{
		ID:          sess.UserID,
		Username:    sess.Username,
		IsSuperuser: sess.IsSuperuser,
	}
}

func addFlash(f Flasher, w http.ResponseWriter, r *http.Request, typ, msg string) {
	if f == nil {
		return
	}
	if err := f.AddFlash(r.Context(), w, r, session.Flash{Type: typ, Message: msg}); err != nil {
		slog.Warn("add flash failed", "error", err)
	}
}

// renderError renders the error page with status.
func renderError(rn *render.Renderer, w http.ResponseWriter, r *http.Request, status int, msg string) {
	rn.PageStatus(w, r, "error", status, &render.PageData{
		Title: http.StatusText(status),
		Data:  map[string]any{"Status": status, "Message": msg},
	})
}

// fieldErrors extracts per-field messages from a validation error.
func fieldErrors(err error) (map[string]string, bool) {
	var ve *blog.ValidationError
	if errors.As(err, &ve) {
		return ve.Fields, true
	}
	return nil, false
}

// serviceError answers errors that have a fixed HTTP mapping. Validation and
// conflict errors are left to the caller, which re-renders its form.
func serviceError(rn *render.Renderer, w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, blog.ErrAuthRequired):
		http.Redirect(w, r, middleware.LoginURL(r.URL.RequestURI()), http.StatusSeeOther)
	case errors.Is(err, blog.ErrPermissionDenied):
		renderError(rn, w, r, http.StatusForbidden, "You do not have permission to do that.")
	case errors.Is(err, blog.ErrNotFound):
		renderError(rn, w, r, http.StatusNotFound, "The page you requested does not exist.")
	case isBodyTooLarge(err):
		renderError(rn, w, r, http.StatusRequestEntityTooLarge, "The upload is too large.")
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		renderError(rn, w, r, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
}
