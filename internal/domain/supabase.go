package domain

import "github.com/supabase-community/supabase-go"

type SupabaseClient interface {
	Initialize() error
	ValidateToken(token string) (*SupabaseUser, error)
	SignUp(req SignUpRequest) (*SignUpResult, error)

	DB() *supabase.Client
}
