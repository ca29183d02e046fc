package middleware

import (
	"net/http"
	"strings"

	"festas/pkg/logger"
)

// ContentTypeValidation rejects mutating requests that do not declare a JSON
// body. GETs and bodyless requests pass through.
func ContentTypeValidation(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
				if r.ContentLength > 0 {
					contentType := r.Header.Get("Content-Type")
					if !strings.HasPrefix(contentType, "application/json") {
						log.Warn("Rejected request with unsupported content type",
							"request_id", RequestIDFrom(r.Context()),
							"content_type", contentType,
							"path", r.URL.Path,
						)
						w.Header().Set("Content-Type", "application/json")
						w.WriteHeader(http.StatusUnsupportedMediaType)
						_, _ = w.Write([]byte(`{"error":"Content-Type must be application/json"}`))
						return
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// MaxRequestSize caps the request body; oversized bodies fail at decode time
// with http.MaxBytesError.
func MaxRequestSize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
