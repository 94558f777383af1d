package domain

import (
	"strings"
	"time"
)

// SupabaseUser represents a user from Supabase Auth
type SupabaseUser struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	UserMetadata map[string]interface{} `json:"user_metadata,omitempty"`
	CreatedAt    string                 `json:"created_at,omitempty"`
	UpdatedAt    string                 `json:"updated_at,omitempty"`

	// ExpiresAt is when the access token the user was resolved from expires.
	// Zero when unknown.
	ExpiresAt time.Time `json:"-"`
}

// DisplayName prefers the name stored in user metadata and falls back to the email.
func (u *SupabaseUser) DisplayName() string {
	if u == nil {
		return ""
	}
	if name, ok := u.UserMetadata["name"].(string); ok && strings.TrimSpace(name) != "" {
		return strings.TrimSpace(name)
	}
	return u.Email
}

// Session is the authentication state of a single request as reported by the provider.
// A zero Session is signed out.
type Session struct {
	User        *SupabaseUser `json:"user,omitempty"`
	AccessToken string        `json:"-"`
}

// SignedIn reports whether the provider recognised the request's credentials.
func (s Session) SignedIn() bool {
	return s.User != nil && s.User.ID != ""
}
