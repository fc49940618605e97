package middleware

import "net/http"

// defaultMaxBodySize caps request bodies at 1MB when no limit is set.
const defaultMaxBodySize int64 = 1 << 20

// Security applies baseline hardening headers for a JSON API and caps
// the request body size.
func Security(maxBodySize int64) func(http.Handler) http.Handler {
	if maxBodySize <= 0 {
		maxBodySize = defaultMaxBodySize
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Cache-Control", "no-store")

			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
			}

			next.ServeHTTP(w, r)
		})
	}
}
