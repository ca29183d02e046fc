package middleware

import (
	"context"
	"net/http"
	"strings"

	apperrors "festas/pkg/errors"
	"festas/pkg/logger"
	"festas/pkg/model"
)

const userKey contextKey = "current_user"

// SessionResolver turns a bearer token into the signed-in user. Implemented
// by the identity service.
type SessionResolver interface {
	CurrentUser(ctx context.Context, token string) (*model.User, error)
}

func UserFrom(ctx context.Context) *model.User {
	if user, ok := ctx.Value(userKey).(*model.User); ok {
		return user
	}
	return nil
}

// Authenticate guards every route behind it: requests without a valid
// session get 401 and never reach a handler.
func Authenticate(resolver SessionResolver, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeUnauthorized(w, "Missing bearer token")
				return
			}

			user, err := resolver.CurrentUser(r.Context(), token)
			if err != nil {
				appErr := apperrors.AsAppError(err)
				if appErr.Code != apperrors.CodeUnauthorized {
					log.Error("Session lookup failed",
						"request_id", RequestIDFrom(r.Context()),
						"error", err,
					)
				}
				writeUnauthorized(w, "Invalid or expired session")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}`))
}
