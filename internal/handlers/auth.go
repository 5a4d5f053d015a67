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

// SessionManager creates and destroys login sessions. *session.Store
// implements it.
type SessionManager interface {
	Create(ctx context.Context, w http.ResponseWriter, data *session.Data) (string, error)
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	renderer *render.Renderer
	sessions SessionManager
	service  *blog.Service
}

// NewAuth creates a new Auth handler group.
func NewAuth(renderer *render.Renderer, sessions SessionManager, service *blog.Service) *Auth {
	return &Auth{
		renderer: renderer,
		sessions: sessions,
		service:  service,
	}
}

// SignupPage renders the registration form.
func (a *Auth) SignupPage(w http.ResponseWriter, r *http.Request) {
	if middleware.SessionFromCtx(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	a.renderer.Page(w, r, "signup", &render.PageData{
		Title: "Sign up",
		Data:  map[string]any{"Username": "", "Email": ""},
	})
}

// SignupSubmit creates the account and signs the new user in.
func (a *Auth) SignupSubmit(w http.ResponseWriter, r *http.Request) {
	var in blog.SignupInput
	if err := decodeForm(r, &in); err != nil {
		serviceError(a.renderer, w, r, err)
		return
	}

	user, err := a.service.Register(r.Context(), in)
	if err != nil {
		errs, ok := fieldErrors(err)
		switch {
		case ok:
		case errors.Is(err, blog.ErrConflict):
			errs = map[string]string{"username": "A user with that username already exists."}
		default:
			serviceError(a.renderer, w, r, err)
			return
		}
		a.renderer.PageStatus(w, r, "signup", http.StatusUnprocessableEntity, &render.PageData{
			Title:  "Sign up",
			Data:   map[string]any{"Username": in.Username, "Email": in.Email},
			Errors: errs,
		})
		return
	}

	if err := a.login(w, r, user); err != nil {
		slog.Error("session create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slog.Info("user registered", "username", user.Username)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// LoginPage renders the login form.
func (a *Auth) LoginPage(w http.ResponseWriter, r *http.Request) {
	next := safeNext(r.URL.Query().Get("next"))
	if middleware.SessionFromCtx(r.Context()) != nil {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}

	a.renderer.Page(w, r, "login", &render.PageData{
		Title: "Log in",
		Data:  map[string]any{"Username": "", "Next": next},
	})
}

// LoginSubmit processes the login form.
func (a *Auth) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	var in LoginInput
	if err := decodeForm(r, &in); err != nil {
		serviceError(a.renderer, w, r, err)
		return
	}
	next := safeNext(in.Next)

	user, err := a.service.Authenticate(r.Context(), in.Username, in.Password)
	if err != nil {
		if !errors.Is(err, blog.ErrInvalidCredentials) {
			serviceError(a.renderer, w, r, err)
			return
		}
		a.renderer.PageStatus(w, r, "login", http.StatusUnauthorized, &render.PageData{
			Title:  "Log in",
			Data:   map[string]any{"Username": in.Username, "Next": next},
			Errors: map[string]string{"form": "Please enter a correct username and password."},
		})
		return
	}

	if err := a.login(w, r, user); err != nil {
		slog.Error("session create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, next, http.StatusSeeOther)
}

// Logout destroys the session and redirects to the home page.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// login replaces any existing session with a fresh one for user.
func (a *Auth) login(w http.ResponseWriter, r *http.Request, user *models.User) error {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	_, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Username:    user.Username,
		IsSuperuser: user.IsSuperuser,
	})
	return err
}
