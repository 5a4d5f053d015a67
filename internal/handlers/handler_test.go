// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests. Tests are skipped when PostgreSQL or Valkey are unavailable.
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"inkwell/internal/blog"
	"inkwell/internal/cache"
	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/render"
	"inkwell/internal/session"
	"inkwell/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "inkwell")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "inkwell")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(context.Background(), db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:     envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379"),
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"session:*", "flash:*", "trending:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// recordingFlasher keeps flashes in memory so tests can assert on them
// without a flash cookie round trip.
type recordingFlasher struct {
	mu      sync.Mutex
	flashes []session.Flash
}

func (f *recordingFlasher) AddFlash(_ context.Context, _ http.ResponseWriter, _ *http.Request, fl session.Flash) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flashes = append(f.flashes, fl)
	return nil
}

func (f *recordingFlasher) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, fl := range f.flashes {
		out = append(out, fl.Message)
	}
	return out
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB       *sql.DB
	Valkey   *redis.Client
	Renderer *render.Renderer
	Sessions *session.Store
	Flashes  *recordingFlasher
	Users    *store.UserStore
	Service  *blog.Service
	Blog     *Blog
	Auth     *Auth
	Profile  *Profile
	Public   *Public
}

// newTestEnv creates a complete test environment with all handler
// dependencies. Object storage is left unconfigured.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	sessions := session.NewStore(vk, false)
	renderer, err := render.New(nil)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	service := blog.NewService(db, blog.Options{
		Trending: cache.NewTrendingCache(vk, time.Minute),
	})
	flashes := &recordingFlasher{}

	return &testEnv{
		DB:       db,
		Valkey:   vk,
		Renderer: renderer,
		Sessions: sessions,
		Flashes:  flashes,
		Users:    store.NewUserStore(db),
		Service:  service,
		Blog:     NewBlog(renderer, service, flashes),
		Auth:     NewAuth(renderer, sessions, service),
		Profile:  NewProfile(renderer, service, flashes),
		Public:   NewPublic(nil, db),
	}
}

// user creates a throwaway account that is removed when the test ends.
func (e *testEnv) user(t *testing.T, superuser bool) *models.User {
	t.Helper()
	name := "h_" + strings.ReplaceAll(uuid.NewString()[:12], "-", "")
	u, err := e.Users.Create(context.Background(), name, name+"@example.com", "correct horse battery", superuser)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	t.Cleanup(func() { e.Users.Delete(context.Background(), u.ID) })
	return u
}

// post creates a post by author through the service.
func (e *testEnv) post(t *testing.T, author *models.User, title string) *models.Post {
	t.Helper()
	p, err := e.Service.CreatePost(context.Background(), author, blog.PostInput{Title: title, Content: "Body of " + title}, nil, nil)
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	return p
}

// sessionFor builds the session a signed-in user would carry.
func sessionFor(u *models.User) *session.Data {
	return &session.Data{UserID: u.ID, Username: u.Username, IsSuperuser: u.IsSuperuser}
}

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, data)
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// withChiURLParamAndSession adds both chi URL param and session to a request.
func withChiURLParamAndSession(r *http.Request, key, value string, sess *session.Data) *http.Request {
	r = withChiURLParam(r, key, value)
	if sess != nil {
		r = r.WithContext(ctxWithSession(r.Context(), sess))
	}
	return r
}

// formRequest builds a urlencoded POST.
func formRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// multipartRequest builds a multipart POST with fields and files. files maps
// a field name to the contents of one file.
func multipartRequest(t *testing.T, target string, fields map[string]string, files map[string][]byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	for field, data := range files {
		fw, err := mw.CreateFormFile(field, field+".bin")
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(data)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}
