// Package middleware provides HTTP middleware shared by the feature routers.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"banking/internal/app/auth"

	"go.uber.org/zap"
)

type contextKey string

const userIDKey contextKey = "user_id"

// Authenticator validates the Bearer token and stores the authenticated user
// id in the request context. A missing or invalid token is always a 401,
// never an anonymous principal.
func Authenticator(jwtSecret []byte, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Missing Authorization header", http.StatusUnauthorized)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "Invalid Authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := auth.ParseToken(jwtSecret, parts[1])
			if err != nil {
				logger.Warn("Token validation failed", zap.String("path", r.URL.Path), zap.Error(err))
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := WithUserID(r.Context(), claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserID extracts the authenticated user id from the request context.
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}
