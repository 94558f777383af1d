package supabase

import (
	"errors"
	"fmt"
	"time"

	"context-builder/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// authenticatedAudience is the audience Supabase stamps on user access tokens.
const authenticatedAudience = "authenticated"

// accessTokenClaims is the subset of a Supabase access token we rely on.
type accessTokenClaims struct {
	Email        string                 `json:"email"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	jwt.RegisteredClaims
}

// TokenVerifier checks HS256 access tokens signed with the project JWT secret.
type TokenVerifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewTokenVerifier(secret []byte) *TokenVerifier {
	return &TokenVerifier{
		secret: secret,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithAudience(authenticatedAudience),
		),
	}
}

// Verify parses the token and returns the user it was issued to.
func (v *TokenVerifier) Verify(token string) (*domain.SupabaseUser, error) {
	if token == "" {
		return nil, errors.New("empty token")
	}

	claims := &accessTokenClaims{}
	_, err := v.parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}
	if claims.Subject == "" {
		return nil, errors.New("access token has no subject")
	}

	user := &domain.SupabaseUser{
		ID:           claims.Subject,
		Email:        claims.Email,
		UserMetadata: claims.UserMetadata,
		ExpiresAt:    claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		user.CreatedAt = claims.IssuedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	return user, nil
}

// unverifiedExpiry reads exp from a token the provider has already accepted.
func unverifiedExpiry(token string) time.Time {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil || claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
