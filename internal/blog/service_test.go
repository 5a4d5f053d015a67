// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blog

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"image"
	"image/png"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"

	"inkwell/internal/database"
	"inkwell/internal/models"
	"inkwell/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens the test database and runs migrations, skipping the test
// when PostgreSQL is not reachable.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := "postgres://" + envOr("POSTGRES_USER", "inkwell") + ":" + envOr("POSTGRES_PASSWORD", "changeme") +
		"@" + envOr("POSTGRES_HOST", "localhost") + ":" + envOr("POSTGRES_PORT", "5432") +
		"/" + envOr("POSTGRES_DB", "inkwell") + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	require.NoError(t, database.Migrate(context.Background(), db))

	t.Cleanup(func() { db.Close() })
	return db
}

// fakeObjects is an in-memory ObjectStore. failOn makes the nth Put
// (1-based) fail.
type fakeObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	puts    int
	failOn  int
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: make(map[string][]byte)}
}

func (f *fakeObjects) Put(_ context.Context, key, _ string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts++
	if f.failOn > 0 && f.puts == f.failOn {
		return errors.New("bucket unavailable")
	}
	f.objects[key] = data
	return nil
}

func (f *fakeObjects) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

func (f *fakeObjects) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

func (f *fakeObjects) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

// fakeTrending records invalidations.
type fakeTrending struct {
	mu          sync.Mutex
	lists       map[int][]models.Post
	invalidated int
}

func (f *fakeTrending) GetTrending(_ context.Context, n int) ([]models.Post, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.lists[n]
	return p, ok
}

func (f *fakeTrending) SetTrending(_ context.Context, n int, posts []models.Post) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lists == nil {
		f.lists = make(map[int][]models.Post)
	}
	f.lists[n] = posts
}

func (f *fakeTrending) InvalidateTrending(context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = nil
	f.invalidated++
}

func pngUpload(t *testing.T, name string, w, h int) Upload {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return Upload{Filename: name, Data: buf.Bytes()}
}

type testEnv struct {
	db       *sql.DB
	svc      *Service
	objects  *fakeObjects
	trending *fakeTrending
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testDB(t)
	env := &testEnv{db: db, objects: newFakeObjects(), trending: &fakeTrending{}}
	env.svc = NewService(db, Options{Objects: env.objects, Trending: env.trending})
	return env
}

// user creates a throwaway account removed (with its posts) after the test.
func (e *testEnv) user(t *testing.T, username string, superuser bool) *models.User {
	t.Helper()
	ctx := context.Background()
	e.db.ExecContext(ctx, "DELETE FROM users WHERE username = $1", username)
	u, err := store.NewUserStore(e.db).Create(ctx, username, username+"@blog-test.local", "pass", superuser)
	require.NoError(t, err)
	t.Cleanup(func() {
		e.db.ExecContext(context.Background(), "DELETE FROM users WHERE id = $1", u.ID)
	})
	return u
}

func (e *testEnv) cleanSlugs(t *testing.T, prefix string) {
	t.Helper()
	clean := func() {
		e.db.ExecContext(context.Background(), "DELETE FROM posts WHERE slug LIKE $1", prefix+"%")
	}
	clean()
	t.Cleanup(clean)
}

func TestCreatePostAssignsUniqueSlugs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.user(t, "blog-slugs", false)
	env.cleanSlugs(t, "hello-world-of-slugs")

	in := PostInput{Title: "Hello, World of Slugs!", Content: "body"}
	first, err := env.svc.CreatePost(ctx, author, in, nil, nil)
	require.NoError(t, err)
	require.Equal(t, "hello-world-of-slugs", first.Slug)

	second, err := env.svc.CreatePost(ctx, author, in, nil, nil)
	require.NoError(t, err)
	require.Equal(t, "hello-world-of-slugs-2", second.Slug)

	third, err := env.svc.CreatePost(ctx, author, in, nil, nil)
	require.NoError(t, err)
	require.Equal(t, "hello-world-of-slugs-3", third.Slug)
}

func TestCreatePostConcurrentSameTitle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.user(t, "blog-slug-race", false)
	env.cleanSlugs(t, "racing-title")

	const n = 5
	slugs := make(chan string, n)
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := env.svc.CreatePost(ctx, author, PostInput{Title: "Racing Title", Content: "x"}, nil, nil)
			if err != nil {
				errs <- err
				return
			}
			slugs <- p.Slug
		}()
	}
	wg.Wait()
	close(slugs)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	seen := map[string]bool{}
	for s := range slugs {
		require.False(t, seen[s], "duplicate slug %q", s)
		seen[s] = true
	}
	require.Len(t, seen, n)
}

func TestCreatePostWithGallery(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.user(t, "blog-gallery", false)
	env.cleanSlugs(t, "gallery-post")

	featured := pngUpload(t, "cover.png", 64, 32)
	gallery := []Upload{
		pngUpload(t, "a.png", 8, 8),
		pngUpload(t, "b.png", 8, 8),
		pngUpload(t, "c.png", 8, 8),
	}
	gallery[1].Caption = "second"

	post, err := env.svc.CreatePost(ctx, author, PostInput{Title: "Gallery Post", Content: "pics"}, &featured, gallery)
	require.NoError(t, err)
	require.True(t, post.HasFeaturedImage())
	require.Len(t, post.Images, 3)
	require.Equal(t, 4, env.objects.count())
	require.Equal(t, 1, env.trending.invalidated)

	got, err := env.svc.GetPost(ctx, post.Slug)
	require.NoError(t, err)
	require.Len(t, got.Images, 3)
	require.Equal(t, "second", got.Images[1].Caption)
	for _, img := range got.Images {
		require.True(t, env.objects.has(img.Image))
	}
}

func TestCreatePostUploadFailureLeavesNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.user(t, "blog-upload-fail", false)
	env.cleanSlugs(t, "doomed-upload")

	env.objects.failOn = 3
	gallery := []Upload{pngUpload(t, "a.png", 4, 4), pngUpload(t, "b.png", 4, 4), pngUpload(t, "c.png", 4, 4)}

	_, err := env.svc.CreatePost(ctx, author, PostInput{Title: "Doomed Upload", Content: "x"}, nil, gallery)
	require.Error(t, err)
	require.Zero(t, env.objects.count(), "uploaded files must be removed")

	_, err = env.svc.GetPost(ctx, "doomed-upload")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreatePostDatabaseFailureRollsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.cleanSlugs(t, "ghost-author")

	// An actor whose row does not exist makes the insert fail inside the
	// transaction after the files were uploaded.
	ghost := &models.User{ID: uuid.New(), Username: "ghost"}
	gallery := []Upload{pngUpload(t, "a.png", 4, 4), pngUpload(t, "b.png", 4, 4)}

	_, err := env.svc.CreatePost(ctx, ghost, PostInput{Title: "Ghost Author", Content: "x"}, nil, gallery)
	require.ErrorIs(t, err, ErrAuthRequired)
	require.Zero(t, env.objects.count())

	var n int
	require.NoError(t, env.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts WHERE slug LIKE 'ghost-author%'").Scan(&n))
	require.Zero(t, n)
}

func TestCreatePostGalleryWriteFailureRollsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.user(t, "blog-gallery-fail", false)
	env.cleanSlugs(t, "half-a-gallery")

	in := PostInput{Title: "Half a Gallery", Content: "x"}
	featured := pngUpload(t, "cover.png", 8, 8)
	gallery := []Upload{
		pngUpload(t, "a.png", 4, 4),
		pngUpload(t, "b.png", 4, 4),
		pngUpload(t, "c.png", 4, 4),
	}
	feat, gal, err := env.svc.validateUploads(&in, &featured, gallery)
	require.NoError(t, err)

	// The second gallery row overflows caption VARCHAR(200), so the insert
	// fails after the post row and the first image row were written.
	gal[1].caption = strings.Repeat("x", maxCaptionLen+50)
	keys := append([]string{feat.key}, keysOf(gal)...)

	_, err = env.svc.publish(ctx, author, in, feat, gal)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrValidation)

	require.Zero(t, env.objects.count(), "uploaded files must be removed")

	var n int
	require.NoError(t, env.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM posts WHERE author_id = $1", author.ID).Scan(&n))
	require.Zero(t, n, "post row must be rolled back")

	for _, key := range keys {
		require.NoError(t, env.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM post_images WHERE image = $1", key).Scan(&n))
		require.Zero(t, n, "image row %s must be rolled back", key)
	}
}

func TestCreatePostValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.user(t, "blog-validate", false)

	_, err := env.svc.CreatePost(ctx, nil, PostInput{Title: "t", Content: "c"}, nil, nil)
	require.ErrorIs(t, err, ErrAuthRequired)

	bogus := Upload{Filename: "evil.png", Data: []byte("<script>alert(1)</script>")}
	_, err = env.svc.CreatePost(ctx, author, PostInput{Title: "", Content: "c"}, &bogus, nil)
	got := fields(t, err)
	require.Contains(t, got, "title")
	require.Contains(t, got, "featured_image")

	tooMany := make([]Upload, MaxGalleryFiles+1)
	for i := range tooMany {
		tooMany[i] = pngUpload(t, "x.png", 2, 2)
	}
	_, err = env.svc.CreatePost(ctx, author, PostInput{Title: "t", Content: "c"}, nil, tooMany)
	require.Contains(t, fields(t, err), "gallery")
	require.Zero(t, env.objects.count())

	noStorage := NewService(env.db, Options{})
	img := pngUpload(t, "a.png", 2, 2)
	_, err = noStorage.CreatePost(ctx, author, PostInput{Title: "t", Content: "c"}, &img, nil)
	require.Contains(t, fields(t, err), "featured_image")
}

func TestUpdatePostPermissions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.user(t, "blog-upd-author", false)
	stranger := env.user(t, "blog-upd-stranger", false)
	admin := env.user(t, "blog-upd-admin", true)
	env.cleanSlugs(t, "original-title")

	post, err := env.svc.CreatePost(ctx, author, PostInput{Title: "Original Title", Content: "v1"}, nil, nil)
	require.NoError(t, err)

	_, err = env.svc.UpdatePost(ctx, stranger, post.Slug, PostInput{Title: "Hijacked", Content: "x"}, nil, nil)
	require.ErrorIs(t, err, ErrPermissionDenied)

	_, err = env.svc.UpdatePost(ctx, nil, post.Slug, PostInput{Title: "Anon", Content: "x"}, nil, nil)
	require.ErrorIs(t, err, ErrAuthRequired)

	unchanged, err := env.svc.GetPost(ctx, post.Slug)
	require.NoError(t, err)
	require.Equal(t, "Original Title", unchanged.Title)

	updated, err := env.svc.UpdatePost(ctx, author, post.Slug, PostInput{Title: "Brand New Title", Content: "v2"}, nil, nil)
	require.NoError(t, err)
	require.Equal(t, "original-title", updated.Slug, "slug must not change on edit")
	require.Equal(t, "Brand New Title", updated.Title)
	require.Equal(t, "v2", updated.Content)

	_, err = env.svc.UpdatePost(ctx, admin, post.Slug, PostInput{Title: "Moderated", Content: "v3"}, nil, nil)
	require.NoError(t, err)

	_, err = env.svc.UpdatePost(ctx, author, "no-such-post-"+uuid.NewString(), PostInput{Title: "x", Content: "x"}, nil, nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePostReplacesFeaturedAndAppendsGallery(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.user(t, "blog-upd-images", false)
	env.cleanSlugs(t, "image-edits")

	cover := pngUpload(t, "cover.png", 4, 4)
	post, err := env.svc.CreatePost(ctx, author, PostInput{Title: "Image Edits", Content: "x"}, &cover, []Upload{pngUpload(t, "a.png", 4, 4)})
	require.NoError(t, err)
	oldCover := *post.FeaturedImage

	newCover := pngUpload(t, "cover2.png", 4, 4)
	updated, err := env.svc.UpdatePost(ctx, author, post.Slug, PostInput{Title: "Image Edits", Content: "x"}, &newCover, []Upload{pngUpload(t, "b.png", 4, 4)})
	require.NoError(t, err)
	require.NotEqual(t, oldCover, *updated.FeaturedImage)
	require.False(t, env.objects.has(oldCover), "replaced cover should be deleted")
	require.True(t, env.objects.has(*updated.FeaturedImage))
	require.Len(t, updated.Images, 2)
}

func TestDeletePostCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.user(t, "blog-delete", false)
	reader := env.user(t, "blog-delete-reader", false)
	env.cleanSlugs(t, "short-lived")

	cover := pngUpload(t, "cover.png", 4, 4)
	post, err := env.svc.CreatePost(ctx, author, PostInput{Title: "Short Lived", Content: "x"}, &cover, []Upload{pngUpload(t, "a.png", 4, 4)})
	require.NoError(t, err)
	_, err = env.svc.AddComment(ctx, reader, post.Slug, CommentInput{Body: "first!"})
	require.NoError(t, err)

	require.ErrorIs(t, env.svc.DeletePost(ctx, reader, post.Slug), ErrPermissionDenied)
	require.NoError(t, env.svc.DeletePost(ctx, author, post.Slug))

	_, err = env.svc.GetPost(ctx, post.Slug)
	require.ErrorIs(t, err, ErrNotFound)
	comments, err := env.svc.ListComments(ctx, post.ID)
	require.NoError(t, err)
	require.Empty(t, comments)
	require.Zero(t, env.objects.count())

	require.ErrorIs(t, env.svc.DeletePost(ctx, author, post.Slug), ErrNotFound)
}

func TestConcurrentViewsAreNotLost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.user(t, "blog-views", false)
	env.cleanSlugs(t, "popular-post")

	post, err := env.svc.CreatePost(ctx, author, PostInput{Title: "Popular Post", Content: "x"}, nil, nil)
	require.NoError(t, err)

	const views = 100
	var wg sync.WaitGroup
	errs := make(chan error, views)
	for i := 0; i < views; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := env.svc.ViewPost(ctx, post.Slug); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := env.svc.GetPost(ctx, post.Slug)
	require.NoError(t, err)
	require.EqualValues(t, views, got.ViewCount)

	_, err = env.svc.RecordView(ctx, uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTrendingUsesCache(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cached := []models.Post{{Slug: "from-cache"}}
	env.trending.SetTrending(ctx, 5, cached)

	got, err := env.svc.Trending(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, cached, got)

	env.trending.InvalidateTrending(ctx)
	_, err = env.svc.Trending(ctx, 5)
	require.NoError(t, err)
	_, ok := env.trending.GetTrending(ctx, 5)
	require.True(t, ok, "miss should populate the cache")
}

func TestAddComment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.user(t, "blog-comments", false)
	reader := env.user(t, "blog-commenter", false)
	env.cleanSlugs(t, "discussed")

	post, err := env.svc.CreatePost(ctx, author, PostInput{Title: "Discussed", Content: "x"}, nil, nil)
	require.NoError(t, err)

	_, err = env.svc.AddComment(ctx, nil, post.Slug, CommentInput{Body: "anon"})
	require.ErrorIs(t, err, ErrAuthRequired)

	_, err = env.svc.AddComment(ctx, reader, post.Slug, CommentInput{Body: "   "})
	require.ErrorIs(t, err, ErrValidation)

	_, err = env.svc.AddComment(ctx, reader, "missing-"+uuid.NewString(), CommentInput{Body: "hi"})
	require.ErrorIs(t, err, ErrNotFound)

	for _, body := range []string{"one", "two"} {
		c, err := env.svc.AddComment(ctx, reader, post.Slug, CommentInput{Body: "  " + body + "  "})
		require.NoError(t, err)
		require.Equal(t, body, c.Body)
	}

	comments, err := env.svc.ListComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	require.Equal(t, "one", comments[0].Body)
	require.Equal(t, "two", comments[1].Body)
	require.Equal(t, "blog-commenter", comments[0].AuthorUsername)
}

func TestGetOrCreateProfileConcurrent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.user(t, "blog-profile", false)

	const n = 10
	var wg sync.WaitGroup
	ids := make(chan uuid.UUID, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, p, err := env.svc.GetOrCreateProfile(ctx, user.Username)
			if err == nil {
				ids <- p.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	var first uuid.UUID
	got := 0
	for id := range ids {
		if got == 0 {
			first = id
		}
		require.Equal(t, first, id)
		got++
	}
	require.Equal(t, n, got)

	count, err := store.NewProfileStore(env.db).CountByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	_, _, err = env.svc.GetOrCreateProfile(ctx, "nobody-"+uuid.NewString()[:8])
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "blog-profile-owner", false)
	admin := env.user(t, "blog-profile-admin", true)
	str := func(s string) *string { return &s }

	_, err := env.svc.UpdateProfile(ctx, admin, owner.Username, ProfileInput{Bio: str("hacked")}, nil)
	require.ErrorIs(t, err, ErrPermissionDenied)

	_, err = env.svc.UpdateProfile(ctx, nil, owner.Username, ProfileInput{Bio: str("anon")}, nil)
	require.ErrorIs(t, err, ErrAuthRequired)

	p, err := env.svc.UpdateProfile(ctx, owner, owner.Username, ProfileInput{Bio: str("Writer"), Location: str("Cluj")}, nil)
	require.NoError(t, err)
	require.Equal(t, "Writer", p.Bio)
	require.Equal(t, "Cluj", p.Location)

	// nil fields are left alone
	avatar := pngUpload(t, "me.png", 1024, 512)
	p, err = env.svc.UpdateProfile(ctx, owner, owner.Username, ProfileInput{Website: str("https://example.com")}, &avatar)
	require.NoError(t, err)
	require.Equal(t, "Writer", p.Bio)
	require.Equal(t, "https://example.com", p.Website)
	require.True(t, p.HasAvatar())

	data := env.objects.objects[*p.Avatar]
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, avatarMaxWidth, cfg.Width)

	_, err = env.svc.UpdateProfile(ctx, owner, owner.Username, ProfileInput{Website: str("ftp://example.com")}, nil)
	require.Contains(t, fields(t, err), "website")

	// A blank website from the form clears it.
	p, err = env.svc.UpdateProfile(ctx, owner, owner.Username,
		ProfileInput{Bio: str("Writer"), Website: str(""), Location: str("Cluj")}, nil)
	require.NoError(t, err)
	require.Empty(t, p.Website)
	require.Equal(t, "Cluj", p.Location)
}

func TestUpdateProfileRefusesBeforeCreatingRow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "blog-profile-untouched", false)
	stranger := env.user(t, "blog-profile-stranger", false)
	str := func(s string) *string { return &s }

	_, err := env.svc.UpdateProfile(ctx, stranger, owner.Username, ProfileInput{Bio: str("mine now")}, nil)
	require.ErrorIs(t, err, ErrPermissionDenied)

	count, err := store.NewProfileStore(env.db).CountByUserID(ctx, owner.ID)
	require.NoError(t, err)
	require.Zero(t, count, "a refused update must not create the profile")

	_, err = env.svc.UpdateProfile(ctx, owner, "nobody-"+uuid.NewString()[:8], ProfileInput{}, nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRegisterAndAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.db.ExecContext(ctx, "DELETE FROM users WHERE username = 'blog-signup'")
	t.Cleanup(func() { env.db.ExecContext(context.Background(), "DELETE FROM users WHERE username = 'blog-signup'") })

	in := SignupInput{
		Username:        "blog-signup",
		Email:           "signup@blog-test.local",
		Password:        "violet-kettle-mountain-42",
		PasswordConfirm: "violet-kettle-mountain-42",
	}
	u, err := env.svc.Register(ctx, in)
	require.NoError(t, err)
	require.False(t, u.IsSuperuser)

	_, err = env.svc.Register(ctx, in)
	require.ErrorIs(t, err, ErrConflict)

	got, err := env.svc.Authenticate(ctx, "blog-signup", "violet-kettle-mountain-42")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	_, err = env.svc.Authenticate(ctx, "blog-signup", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = env.svc.Authenticate(ctx, "nobody-"+uuid.NewString()[:8], "x")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
