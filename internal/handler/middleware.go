package handler

import (
	"context"
	"net/http"
	"strings"

	"edem-chat-server/internal/domain"
)

// AuthMiddleware validates Supabase JWT tokens
type AuthMiddleware struct {
	authService domain.AuthClient
	logger      domain.Logger
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(authService domain.AuthClient, logger domain.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		logger:      logger,
	}
}

// Middleware resolves the bearer token into a user and stores it on the
// request context. Requests without a valid token never reach the handler.
func (m *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			writeError(w, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		user, err := m.authService.ValidateToken(parts[1])
		if err != nil {
			m.logger.Debug("Token validation failed", "error", err)
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
