package auth_http

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"banking/internal/app/auth"
)

// RegisterRoutes mounts the public auth endpoints.
func RegisterRoutes(r chi.Router, s auth.AuthService, l *zap.Logger) {
	handler := NewAuthHandler(s, l.With(zap.String("component", "AuthHTTPHandler")))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", handler.RegisterHandler)
		r.Post("/login", handler.LoginHandler)
	})
}

// RegisterProtectedRoutes mounts the auth endpoints that require a token.
func RegisterProtectedRoutes(r chi.Router, s auth.AuthService, l *zap.Logger) {
	handler := NewAuthHandler(s, l.With(zap.String("component", "AuthHTTPHandler")))

	r.Get("/me", handler.MeHandler)
}
