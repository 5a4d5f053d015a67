package middleware

import "net/http"

// LimitBody caps request bodies at n bytes. Reads past the limit fail and
// multipart parsing reports an error the handler can show.
func LimitBody(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, n)
			next.ServeHTTP(w, r)
		})
	}
}
