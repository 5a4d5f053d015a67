// Package router sets up all HTTP routes and middleware chains for the
// Inkwell blog.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/handlers"
	"inkwell/internal/middleware"
)

// Deps carries everything the routes need.
type Deps struct {
	Sessions middleware.SessionGetter
	Blog     *handlers.Blog
	Auth     *handlers.Auth
	Profile  *handlers.Profile
	Public   *handlers.Public

	// Static is served at /static/.
	Static fs.FS

	// AuthLimiter throttles login and signup submissions per IP. May be nil.
	AuthLimiter *middleware.RateLimiter

	// MaxBodyBytes caps every request body.
	MaxBodyBytes int64

	// SecureCookies marks the CSRF cookie Secure.
	SecureCookies bool

	// MediaURL is the public base URL of uploaded images, allowed by the CSP.
	MediaURL string
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders(d.MediaURL))

	// Health check, static files and media need no session or CSRF.
	r.Get("/health", d.Public.Health)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(d.Static)))
	r.Get("/media/*", d.Public.Media)

	r.Group(func(r chi.Router) {
		if d.MaxBodyBytes > 0 {
			r.Use(middleware.LimitBody(d.MaxBodyBytes))
		}
		r.Use(middleware.NewCSRF(d.SecureCookies))
		r.Use(middleware.LoadSession(d.Sessions))

		r.Get("/", d.Blog.Home)
		r.Post("/", d.Blog.HomeCreate)

		r.Group(func(r chi.Router) {
			if d.AuthLimiter != nil {
				r.Use(postOnly(d.AuthLimiter.Middleware))
			}
			r.Get("/signup/", d.Auth.SignupPage)
			r.Post("/signup/", d.Auth.SignupSubmit)
			r.Get("/login/", d.Auth.LoginPage)
			r.Post("/login/", d.Auth.LoginSubmit)
		})
		r.Post("/logout/", d.Auth.Logout)

		r.With(middleware.RequireAuth).Get("/post/new/", d.Blog.PostNew)
		r.With(middleware.RequireAuth).Post("/post/new/", d.Blog.PostCreate)

		r.Route("/post/{slug}", func(r chi.Router) {
			r.Get("/", d.Blog.PostDetail)
			r.Post("/", d.Blog.CommentCreate)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Get("/edit/", d.Blog.PostEdit)
				r.Post("/edit/", d.Blog.PostUpdate)
				r.Get("/delete/", d.Blog.PostDeleteConfirm)
				r.Post("/delete/", d.Blog.PostDelete)
			})
		})

		r.Get("/u/{username}/", d.Profile.Show)
		r.Post("/u/{username}/", d.Profile.Update)
	})

	return r
}

// postOnly applies mw to POST requests and lets everything else through.
func postOnly(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		limited := mw(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				limited.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
