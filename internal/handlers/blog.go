// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/blog"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/render"
)

// trendingSize is how many posts the home page sidebar shows.
const trendingSize = 5

const conflictMessage = "Could not pick a unique address for this post. Please try again."

// Blog groups the post and comment handlers.
type Blog struct {
	renderer *render.Renderer
	service  *blog.Service
	flashes  Flasher
}

// NewBlog creates a new Blog handler group. flashes may be nil.
func NewBlog(renderer *render.Renderer, service *blog.Service, flashes Flasher) *Blog {
	return &Blog{
		renderer: renderer,
		service:  service,
		flashes:  flashes,
	}
}

// Home lists every post, newest first, with the trending sidebar.
func (b *Blog) Home(w http.ResponseWriter, r *http.Request) {
	b.renderHome(w, r, http.StatusOK, map[string]any{"Title": "", "Content": ""}, nil)
}

// HomeCreate handles the inline create form on the home page.
func (b *Blog) HomeCreate(w http.ResponseWriter, r *http.Request) {
	in, featured, gallery, err := postForm(r)
	if err != nil {
		serviceError(b.renderer, w, r, err)
		return
	}

	post, err := b.service.CreatePost(r.Context(), actorFromCtx(r), in, featured, gallery)
	if err != nil {
		form := map[string]any{"Title": in.Title, "Content": in.Content}
		if fields, ok := fieldErrors(err); ok {
			b.renderHome(w, r, http.StatusUnprocessableEntity, form, fields)
			return
		}
		if errors.Is(err, blog.ErrConflict) {
			b.renderHome(w, r, http.StatusConflict, form, map[string]string{"form": conflictMessage})
			return
		}
		serviceError(b.renderer, w, r, err)
		return
	}

	addFlash(b.flashes, w, r, "success", "Post created.")
	http.Redirect(w, r, postURL(post), http.StatusSeeOther)
}

func (b *Blog) renderHome(w http.ResponseWriter, r *http.Request, status int, form map[string]any, errs map[string]string) {
	ctx := r.Context()

	posts, err := b.service.ListPosts(ctx)
	if err != nil {
		serviceError(b.renderer, w, r, err)
		return
	}
	trending, err := b.service.Trending(ctx, trendingSize)
	if err != nil {
		serviceError(b.renderer, w, r, err)
		return
	}

	form["Posts"] = posts
	form["Trending"] = trending
	form["Uploads"] = b.service.UploadsEnabled()
	b.renderer.PageStatus(w, r, "home", status, &render.PageData{
		Data:   form,
		Errors: errs,
	})
}

// PostNew renders an empty create form.
func (b *Blog) PostNew(w http.ResponseWriter, r *http.Request) {
	b.renderer.Page(w, r, "post_form", &render.PageData{
		Title: "New post",
		Data:  map[string]any{"Title": "", "Content": "", "Uploads": b.service.UploadsEnabled()},
	})
}

// PostCreate handles the standalone create form.
func (b *Blog) PostCreate(w http.ResponseWriter, r *http.Request) {
	in, featured, gallery, err := postForm(r)
	if err != nil {
		serviceError(b.renderer, w, r, err)
		return
	}

	post, err := b.service.CreatePost(r.Context(), actorFromCtx(r), in, featured, gallery)
	if err != nil {
		b.formError(w, r, nil, in, err)
		return
	}

	addFlash(b.flashes, w, r, "success", "Post created.")
	http.Redirect(w, r, postURL(post), http.StatusSeeOther)
}

// PostDetail shows a post with its gallery and comments. Every request
// counts as a view.
func (b *Blog) PostDetail(w http.ResponseWriter, r *http.Request) {
	post, err := b.service.ViewPost(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		serviceError(b.renderer, w, r, err)
		return
	}
	b.renderDetail(w, r, http.StatusOK, post, "", nil)
}

func (b *Blog) renderDetail(w http.ResponseWriter, r *http.Request, status int, post *models.Post, body string, errs map[string]string) {
	comments, err := b.service.ListComments(r.Context(), post.ID)
	if err != nil {
		serviceError(b.renderer, w, r, err)
		return
	}

	b.renderer.PageStatus(w, r, "post_detail", status, &render.PageData{
		Title:  post.Title,
		Data:   map[string]any{"Post": post, "Comments": comments, "Body": body},
		Errors: errs,
	})
}

// CommentCreate adds a comment to the post. A missing post is a 404 for
// everyone; anonymous visitors are then sent to the login page.
func (b *Blog) CommentCreate(w http.ResponseWriter, r *http.Request) {
	post, err := b.service.GetPost(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		serviceError(b.renderer, w, r, err)
		return
	}

	actor := actorFromCtx(r)
	if actor == nil {
		addFlash(b.flashes, w, r, "error", "Login to comment.")
		http.Redirect(w, r, middleware.LoginURL(r.URL.Path), http.StatusSeeOther)
		return
	}

	var in blog.CommentInput
	if err := decodeForm(r, &in); err != nil {
		serviceError(b.renderer, w, r, err)
		return
	}

	if _, err := b.service.AddComment(r.Context(), actor, post.Slug, in); err != nil {
		if fields, ok := fieldErrors(err); ok {
			b.renderDetail(w, r, http.StatusUnprocessableEntity, post, in.Body, fields)
			return
		}
		serviceError(b.renderer, w, r, err)
		return
	}

	addFlash(b.flashes, w, r, "success", "Comment added.")
	http.Redirect(w, r, postURL(post), http.StatusSeeOther)
}

// PostEdit renders the edit form for the post's author or a superuser.
func (b *Blog) PostEdit(w http.ResponseWriter, r *http.Request) {
	post, ok := b.modifiable(w, r)
	if !ok {
		return
	}
	b.renderer.Page(w, r, "post_form", &render.PageData{
		Title: "Edit " + post.Title,
		Data: map[string]any{
			"Post": post, "Title": post.Title, "Content": post.Content,
			"Uploads": b.service.UploadsEnabled(),
		},
	})
}

// PostUpdate saves the edit form. The slug never changes.
func (b *Blog) PostUpdate(w http.ResponseWriter, r *http.Request) {
	postSlug := chi.URLParam(r, "slug")

	in, featured, gallery, err := postForm(r)
	if err != nil {
		serviceError(b.renderer, w, r, err)
		return
	}

	post, err := b.service.UpdatePost(r.Context(), actorFromCtx(r), postSlug, in, featured, gallery)
	if err != nil {
		if _, ok := fieldErrors(err); ok {
			current, gerr := b.service.GetPost(r.Context(), postSlug)
			if gerr != nil {
				serviceError(b.renderer, w, r, gerr)
				return
			}
			b.formError(w, r, current, in, err)
			return
		}
		serviceError(b.renderer, w, r, err)
		return
	}

	addFlash(b.flashes, w, r, "success", "Post updated.")
	http.Redirect(w, r, postURL(post), http.StatusSeeOther)
}

// PostDeleteConfirm asks before deleting.
func (b *Blog) PostDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	post, ok := b.modifiable(w, r)
	if !ok {
		return
	}
	b.renderer.Page(w, r, "post_confirm_delete", &render.PageData{
		Title: "Delete " + post.Title,
		Data:  map[string]any{"Post": post},
	})
}

// PostDelete removes the post with its gallery and comments.
func (b *Blog) PostDelete(w http.ResponseWriter, r *http.Request) {
	if err := b.service.DeletePost(r.Context(), actorFromCtx(r), chi.URLParam(r, "slug")); err != nil {
		serviceError(b.renderer, w, r, err)
		return
	}

	addFlash(b.flashes, w, r, "success", "Post deleted.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// modifiable loads the post named in the URL and checks that the current
// user may change it, answering the request itself when not.
func (b *Blog) modifiable(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	post, err := b.service.GetPost(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		serviceError(b.renderer, w, r, err)
		return nil, false
	}
	actor := actorFromCtx(r)
	if actor == nil {
		serviceError(b.renderer, w, r, blog.ErrAuthRequired)
		return nil, false
	}
	if !blog.CanModify(actor, post.AuthorID) {
		serviceError(b.renderer, w, r, blog.ErrPermissionDenied)
		return nil, false
	}
	return post, true
}

// formError re-renders the post form for validation and conflict errors.
func (b *Blog) formError(w http.ResponseWriter, r *http.Request, post *models.Post, in blog.PostInput, err error) {
	data := map[string]any{"Title": in.Title, "Content": in.Content, "Uploads": b.service.UploadsEnabled()}
	title := "New post"
	if post != nil {
		data["Post"] = post
		title = "Edit " + post.Title
	}

	if fields, ok := fieldErrors(err); ok {
		b.renderer.PageStatus(w, r, "post_form", http.StatusUnprocessableEntity, &render.PageData{
			Title: title, Data: data, Errors: fields,
		})
		return
	}
	if errors.Is(err, blog.ErrConflict) {
		b.renderer.PageStatus(w, r, "post_form", http.StatusConflict, &render.PageData{
			Title: title, Data: data, Errors: map[string]string{"form": conflictMessage},
		})
		return
	}
	serviceError(b.renderer, w, r, err)
}

func postURL(p *models.Post) string {
	return "/post/" + p.Slug + "/"
}
