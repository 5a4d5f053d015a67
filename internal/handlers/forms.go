package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/schema"

	"inkwell/internal/blog"
)

// multipartMemory is how much of a multipart body is kept in memory before
// spilling file parts to disk.
const multipartMemory = 32 << 20

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true) // csrf_token, next and file inputs
	return d
}

// LoginInput is the login form.
type LoginInput struct {
	Username string `schema:"username"`
	Password string `schema:"password"`
	Next     string `schema:"next"`
}

// parseForm parses urlencoded and multipart bodies alike.
func parseForm(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return fmt.Errorf("parse multipart form: %w", err)
		}
		return nil
	}
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("parse form: %w", err)
	}
	return nil
}

// decodeForm parses the request body and decodes it into dst.
func decodeForm(r *http.Request, dst any) error {
	if err := parseForm(r); err != nil {
		return err
	}
	if err := decoder.Decode(dst, r.PostForm); err != nil {
		return fmt.Errorf("decode form: %w", err)
	}
	return nil
}

// formUpload reads the single file posted under field. It returns nil when
// no file was chosen.
func formUpload(r *http.Request, field string) (*blog.Upload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	headers := r.MultipartForm.File[field]
	if len(headers) == 0 || headers[0].Size == 0 {
		return nil, nil
	}
	u, err := readUpload(headers[0])
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// formUploads reads every file posted under field, tagging each with caption.
func formUploads(r *http.Request, field, caption string) ([]blog.Upload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	var out []blog.Upload
	for _, fh := range r.MultipartForm.File[field] {
		if fh.Size == 0 {
			continue
		}
		u, err := readUpload(fh)
		if err != nil {
			return nil, err
		}
		u.Caption = caption
		out = append(out, u)
	}
	return out, nil
}

func readUpload(fh *multipart.FileHeader) (blog.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return blog.Upload{}, fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return blog.Upload{}, fmt.Errorf("read upload %s: %w", fh.Filename, err)
	}
	return blog.Upload{Filename: fh.Filename, Data: data}, nil
}

// postForm decodes the create/edit post form and its files.
func postForm(r *http.Request) (blog.PostInput, *blog.Upload, []blog.Upload, error) {
	var in blog.PostInput
	if err := decodeForm(r, &in); err != nil {
		return in, nil, nil, err
	}
	featured, err := formUpload(r, "featured_image")
	if err != nil {
		return in, nil, nil, err
	}
	gallery, err := formUploads(r, "gallery", strings.TrimSpace(r.PostFormValue("caption")))
	if err != nil {
		return in, nil, nil, err
	}
	return in, featured, gallery, nil
}

// safeNext returns next if it is a local path, otherwise "/".
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, `/\`) {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" {
		return "/"
	}
	return next
}

// isBodyTooLarge reports whether err came from an exceeded LimitBody cap.
func isBodyTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}
