package domain

import "context"

// SignUpRequest carries the credentials collected by the sign-up widget.
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name,omitempty" validate:"max=120"`
}

// SignUpResult is the provider's answer to a sign-up.
// AccessToken is empty when the provider requires email confirmation first.
type SignUpResult struct {
	User         *SupabaseUser
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
}

// NeedsConfirmation reports whether the account exists but no session was issued yet.
func (r *SignUpResult) NeedsConfirmation() bool {
	return r != nil && r.AccessToken == ""
}

type AuthService interface {
	ValidateToken(ctx context.Context, token string) (*SupabaseUser, error)
	SignUp(ctx context.Context, req SignUpRequest) (*SignUpResult, error)
}
