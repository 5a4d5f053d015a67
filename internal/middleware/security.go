// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/url"
	"strings"
)

// SecureHeaders returns middleware that adds security headers to every
// response. mediaURL is the public base URL of object storage; its origin
// is allowed as an image source because /media/ redirects there. An empty
// mediaURL allows same-origin images only.
func SecureHeaders(mediaURL string) func(http.Handler) http.Handler {
	csp := contentSecurityPolicy(mediaOrigin(mediaURL))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Content-Security-Policy", csp)
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")

			next.ServeHTTP(w, r)
		})
	}
}

// contentSecurityPolicy allows no scripts at all; pages are plain forms.
func contentSecurityPolicy(imgOrigin string) string {
	img := "'self' data:"
	if imgOrigin != "" {
		img += " " + imgOrigin
	}
	return strings.Join([]string{
		"default-src 'self'",
		"script-src 'none'",
		"style-src 'self'",
		"img-src " + img,
		"form-action 'self'",
		"frame-ancestors 'none'",
		"base-uri 'self'",
	}, "; ")
}

// mediaOrigin reduces a base URL to scheme://host[:port].
func mediaOrigin(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
