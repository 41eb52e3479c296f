// Package middleware holds the REST server middleware chain.
package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ZzaizZ/goblog/api/rest"
	"github.com/ZzaizZ/goblog/internal/auth"
)

// RequireAuth validates the bearer token and stores the caller in the
// request context. Requests without a valid token get 401.
func RequireAuth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	log := slog.Default().With(slog.String("middleware", "auth"))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				unauthorized(w, "missing authorization token")
				return
			}
			token := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := jwtManager.ValidateToken(token)
			if err != nil {
				log.Debug("token validation failed", slog.String("error", err.Error()))
				unauthorized(w, "invalid or expired token")
				return
			}

			ctx := auth.SetUserInContext(r.Context(), &auth.UserContext{
				UserID:   claims.Subject,
				Username: claims.Username,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: message})
}
