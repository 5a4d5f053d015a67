// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blog

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nbutton23/zxcvbn-go"
)

// Field limits, matching the column sizes in the migrations.
const (
	maxTitleLen    = 200
	maxContentLen  = 100_000
	maxCommentLen  = 10_000
	maxCaptionLen  = 200
	maxBioLen      = 5_000
	maxWebsiteLen  = 200
	maxLocationLen = 120
	maxUsernameLen = 150

	// MaxGalleryFiles caps gallery images accepted in one request.
	MaxGalleryFiles = 20

	// minPasswordScore is the lowest accepted zxcvbn score (0-4).
	minPasswordScore = 2
)

// PostInput is the create/edit post form.
type PostInput struct {
	Title   string `schema:"title" validate:"required,max=200"`
	Content string `schema:"content" validate:"required,max=100000"`
}

func (in *PostInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
}

// CommentInput is the comment form on the post page.
type CommentInput struct {
	Body string `schema:"body" validate:"required,max=10000"`
}

func (in *CommentInput) normalize() {
	in.Body = strings.TrimSpace(in.Body)
}

// ProfileInput is the profile edit form. A nil field is left unchanged;
// a blank website clears it.
type ProfileInput struct {
	Bio      *string `schema:"bio" validate:"omitempty,max=5000"`
	Website  *string `schema:"website" validate:"omitempty,max=200"`
	Location *string `schema:"location" validate:"omitempty,max=120"`
}

func (in *ProfileInput) normalize() {
	for _, f := range []*string{in.Bio, in.Website, in.Location} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
}

// SignupInput is the registration form.
type SignupInput struct {
	Username        string `schema:"username" validate:"required,max=150,username"`
	Email           string `schema:"email" validate:"required,max=254,email"`
	Password        string `schema:"password1" validate:"required"`
	PasswordConfirm string `schema:"password2" validate:"required,eqfield=Password"`
}

func (in *SignupInput) normalize() {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
}

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their form name so messages land next to the input.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("schema"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return v
}

// validateStruct runs the struct tags on in and converts failures into a
// ValidationError.
func validateStruct(in any) *ValidationError {
	ve := &ValidationError{}
	err := validate.Struct(in)
	if err == nil {
		return ve
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		ve.Add("form", "Invalid form data.")
		return ve
	}
	for _, fe := range fieldErrs {
		ve.Add(fe.Field(), message(fe))
	}
	return ve
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "email":
		return "Enter a valid email address."
	case "http_url":
		return "Enter a valid URL."
	case "eqfield":
		return "The two password fields didn't match."
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	default:
		return "Invalid value."
	}
}

// postErrors trims a post form in place and collects its field errors.
func postErrors(in *PostInput) *ValidationError {
	in.normalize()
	return validateStruct(in)
}

// ValidateComment checks a comment form after trimming it in place.
func ValidateComment(in *CommentInput) error {
	in.normalize()
	return validateStruct(in).orNil()
}

// profileErrors trims a profile form in place and collects its field
// errors. The URL check runs on the dereferenced website only when it is
// non-blank: omitempty on a pointer skips nil, not a pointer to "".
func profileErrors(in *ProfileInput) *ValidationError {
	in.normalize()
	ve := validateStruct(in)

	if in.Website != nil && *in.Website != "" {
		if _, bad := ve.Fields["website"]; !bad {
			var fieldErrs validator.ValidationErrors
			if err := validate.Var(*in.Website, "http_url"); errors.As(err, &fieldErrs) {
				ve.Add("website", message(fieldErrs[0]))
			}
		}
	}
	return ve
}

// ValidateSignup checks a registration form and rejects guessable
// passwords, scoring them against the username and email as well.
func ValidateSignup(in *SignupInput) error {
	in.normalize()
	ve := validateStruct(in)

	if _, bad := ve.Fields["password1"]; !bad && in.Password != "" {
		strength := zxcvbn.PasswordStrength(in.Password, []string{in.Username, in.Email})
		if strength.Score < minPasswordScore {
			ve.Add("password1", "This password is too easy to guess.")
		}
	}
	return ve.orNil()
}
