package middleware

import (
	"net/http"
)

// MaxBytes caps the request body size. Exceeding it makes the body reader
// fail with http.MaxBytesError, which handlers surface as 413 with a fixed
// human-readable message.
func MaxBytes(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
