package handler

import (
	"context"
	"net/http"
	"strings"

	"context-builder/internal/domain"
	apperrors "context-builder/pkg/errors"
)

// AuthMiddleware resolves Supabase access tokens into request users.
type AuthMiddleware struct {
	authService domain.AuthService
	logger      domain.Logger
}

func NewAuthMiddleware(authService domain.AuthService, logger domain.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		logger:      logger,
	}
}

// Middleware rejects requests without a valid bearer token or session cookie.
func (m *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ""
		authHeader := r.Header.Get("Authorization")
		switch {
		case authHeader != "":
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeError(w, http.StatusUnauthorized, "Invalid authorization header format")
				return
			}
			token = parts[1]
			if token == "" {
				writeError(w, http.StatusUnauthorized, "Token required")
				return
			}
		default:
			token = sessionCookieToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "Authorization header required")
				return
			}
		}

		user, err := m.authService.ValidateToken(r.Context(), token)
		if err != nil {
			if apperrors.IsType(err, apperrors.ErrorTypeUpstream) {
				writeError(w, http.StatusBadGateway, apperrors.GetMessage(err))
				return
			}
			m.logger.Debug("Token validation failed", "path", r.URL.Path, "error", err)
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user, token)))
	})
}

// Optional attaches the user when the request carries a valid token and
// otherwise lets the request through signed out.
func (m *AuthMiddleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, fromCookie := requestToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.authService.ValidateToken(r.Context(), token)
		if err != nil {
			if fromCookie && apperrors.IsType(err, apperrors.ErrorTypeUnauthorized) {
				clearSessionCookie(w, r)
			}
			m.logger.Debug("Continuing signed out", "path", r.URL.Path, "error", err)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user, token)))
	})
}

func requestToken(r *http.Request) (token string, fromCookie bool) {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if t, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return strings.TrimSpace(t), false
		}
		return "", false
	}
	return sessionCookieToken(r), true
}

func withUser(ctx context.Context, user *domain.SupabaseUser, token string) context.Context {
	ctx = context.WithValue(ctx, userContextKey, user)
	return context.WithValue(ctx, tokenContextKey, token)
}
