// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging inspects and downscales uploaded images. Content type is
// sniffed from the bytes, never trusted from the client, and dimensions are
// checked before a full decode to reject decompression bombs.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	"image/png"
	"net/http"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	// MaxPixels caps width*height. 10000x10000 is ~400 MB decoded in RGBA.
	MaxPixels = 100_000_000

	jpegQuality = 85
)

var (
	// ErrUnsupported means the bytes are not one of the accepted image types.
	ErrUnsupported = errors.New("imaging: unsupported image type")

	// ErrTooLarge means the image dimensions exceed MaxPixels.
	ErrTooLarge = errors.New("imaging: image dimensions too large")
)

// allowedTypes are the MIME types accepted for upload.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Sniff returns the MIME type detected from the first 512 bytes.
func Sniff(data []byte) string {
	if len(data) > 512 {
		data = data[:512]
	}
	return http.DetectContentType(data)
}

// Allowed reports whether contentType is an accepted image type.
func Allowed(contentType string) bool {
	_, ok := allowedTypes[contentType]
	return ok
}

// Extension returns the file extension for an accepted type, or "".
func Extension(contentType string) string {
	return allowedTypes[contentType]
}

// Inspect sniffs data, checks it decodes as an accepted image within
// MaxPixels, and returns its MIME type and dimensions.
func Inspect(data []byte) (contentType string, cfg image.Config, err error) {
	contentType = Sniff(data)
	if !Allowed(contentType) {
		return "", image.Config{}, ErrUnsupported
	}

	cfg, _, err = image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", image.Config{}, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return "", image.Config{}, ErrTooLarge
	}
	return contentType, cfg, nil
}

// Fit scales an image down to maxWidth preserving aspect ratio. Images
// already narrow enough are returned unchanged with their sniffed type.
// Resized PNGs stay PNG; everything else is re-encoded as JPEG.
func Fit(data []byte, maxWidth int) ([]byte, string, error) {
	contentType, cfg, err := Inspect(data)
	if err != nil {
		return nil, "", err
	}
	if cfg.Width <= maxWidth {
		return data, contentType, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	ratio := float64(maxWidth) / float64(bounds.Dx())
	newHeight := int(float64(bounds.Dy()) * ratio)
	if newHeight < 1 {
		newHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if contentType == "image/png" {
		if err := png.Encode(&buf, dst); err != nil {
			return nil, "", fmt.Errorf("encode png: %w", err)
		}
		return buf.Bytes(), "image/png", nil
	}
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, "", fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}
