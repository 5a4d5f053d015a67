package blog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/imaging"
)

// Object key prefixes per upload kind.
const (
	prefixFeatured = "posts/featured"
	prefixGallery  = "posts/gallery"
	prefixAvatar   = "avatars"

	// avatarMaxWidth is the widest avatar kept; larger ones are downscaled.
	avatarMaxWidth = 512
)

// Upload is one file received from a form.
type Upload struct {
	Filename string
	Data     []byte
	Caption  string // gallery images only
}

// preparedUpload is an upload that passed validation and has a key.
type preparedUpload struct {
	key         string
	contentType string
	data        []byte
	caption     string
}

// prepare validates u and assigns it an object key under prefix.
func (s *Service) prepare(field, prefix string, u Upload, ve *ValidationError) *preparedUpload {
	if s.objects == nil {
		ve.Add(field, "Image uploads are not available.")
		return nil
	}
	if int64(len(u.Data)) > s.maxUpload {
		ve.Add(field, fmt.Sprintf("File %q is larger than %d MB.", u.Filename, s.maxUpload>>20))
		return nil
	}
	if len([]rune(u.Caption)) > maxCaptionLen {
		ve.Add(field, fmt.Sprintf("Ensure captions have at most %d characters.", maxCaptionLen))
		return nil
	}

	contentType, _, err := imaging.Inspect(u.Data)
	switch {
	case errors.Is(err, imaging.ErrTooLarge):
		ve.Add(field, fmt.Sprintf("Image %q has too many pixels.", u.Filename))
		return nil
	case err != nil:
		ve.Add(field, fmt.Sprintf("Upload a valid image. %q is not a JPEG, PNG, GIF or WebP file.", u.Filename))
		return nil
	}

	return &preparedUpload{
		key:         newKey(prefix, contentType),
		contentType: contentType,
		data:        u.Data,
		caption:     u.Caption,
	}
}

// newKey builds "prefix/yyyy/mm/uuid.ext".
func newKey(prefix, contentType string) string {
	return fmt.Sprintf("%s/%s/%s%s", prefix, time.Now().UTC().Format("2006/01"), uuid.NewString(), imaging.Extension(contentType))
}

// put writes every upload to object storage. If one fails, the ones already
// written are removed and the error is returned.
func (s *Service) put(ctx context.Context, uploads []*preparedUpload) error {
	for i, u := range uploads {
		if err := s.objects.Put(ctx, u.key, u.contentType, u.data); err != nil {
			s.discard(ctx, keysOf(uploads[:i])...)
			return fmt.Errorf("store upload: %w", err)
		}
	}
	return nil
}

// discard deletes objects best-effort. Failures leave orphans in the bucket
// and are only logged.
func (s *Service) discard(ctx context.Context, keys ...string) {
	if s.objects == nil || len(keys) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	for _, key := range keys {
		if err := s.objects.Delete(ctx, key); err != nil {
			slog.Warn("orphaned upload", "key", key, "error", err)
		}
	}
}

func keysOf(uploads []*preparedUpload) []string {
	keys := make([]string, 0, len(uploads))
	for _, u := range uploads {
		keys = append(keys, u.key)
	}
	return keys
}
