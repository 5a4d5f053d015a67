package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/blog"
	"inkwell/internal/models"
	"inkwell/internal/render"
)

// Profile groups the user profile handlers.
type Profile struct {
	renderer *render.Renderer
	service  *blog.Service
	flashes  Flasher
}

// NewProfile creates a new Profile handler group. flashes may be nil.
func NewProfile(renderer *render.Renderer, service *blog.Service, flashes Flasher) *Profile {
	return &Profile{
		renderer: renderer,
		service:  service,
		flashes:  flashes,
	}
}

// Show renders a user's profile and posts, creating the profile row on
// first visit.
func (p *Profile) Show(w http.ResponseWriter, r *http.Request) {
	user, profile, err := p.service.GetOrCreateProfile(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		serviceError(p.renderer, w, r, err)
		return
	}
	p.render(w, r, http.StatusOK, user, profile, nil)
}

// Update saves the profile form. Only the profile's owner may submit it.
func (p *Profile) Update(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var in blog.ProfileInput
	if err := decodeForm(r, &in); err != nil {
		serviceError(p.renderer, w, r, err)
		return
	}
	avatar, err := formUpload(r, "avatar")
	if err != nil {
		serviceError(p.renderer, w, r, err)
		return
	}

	_, err = p.service.UpdateProfile(r.Context(), actorFromCtx(r), username, in, avatar)
	if err != nil {
		fields, ok := fieldErrors(err)
		if !ok {
			serviceError(p.renderer, w, r, err)
			return
		}
		user, profile, gerr := p.service.GetOrCreateProfile(r.Context(), username)
		if gerr != nil {
			serviceError(p.renderer, w, r, gerr)
			return
		}
		// Show what was submitted, not what is stored.
		edited := *profile
		if in.Bio != nil {
			edited.Bio = *in.Bio
		}
		if in.Website != nil {
			edited.Website = *in.Website
		}
		if in.Location != nil {
			edited.Location = *in.Location
		}
		p.render(w, r, http.StatusUnprocessableEntity, user, &edited, fields)
		return
	}

	addFlash(p.flashes, w, r, "success", "Profile updated.")
	http.Redirect(w, r, "/u/"+username+"/", http.StatusSeeOther)
}

func (p *Profile) render(w http.ResponseWriter, r *http.Request, status int, user *models.User, profile *models.Profile, errs map[string]string) {
	posts, err := p.service.ListByAuthor(r.Context(), user.ID)
	if err != nil {
		serviceError(p.renderer, w, r, err)
		return
	}

	p.renderer.PageStatus(w, r, "profile", status, &render.PageData{
		Title:  user.Username,
		Data: map[string]any{
			"User": user, "Profile": profile, "Posts": posts,
			"Uploads": p.service.UploadsEnabled(),
		},
		Errors: errs,
	})
}
