package supabase

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"context-builder/internal/domain"

	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go/types"
	"github.com/supabase-community/supabase-go"
)

// SupabaseClient implements the domain.SupabaseClient interface
type SupabaseClient struct {
	client   *supabase.Client
	config   domain.Config
	logger   domain.Logger
	verifier *TokenVerifier
}

// NewSupabaseClient creates a new Supabase client instance
func NewSupabaseClient(config domain.Config, logger domain.Logger) *SupabaseClient {
	c := &SupabaseClient{
		config: config,
		logger: logger,
	}
	if secret := config.GetJWTSecret(); secret != "" {
		c.verifier = NewTokenVerifier([]byte(secret))
	}
	return c
}

func (s *SupabaseClient) DB() *supabase.Client {
	return s.client
}

// Initialize establishes a connection to Supabase
func (s *SupabaseClient) Initialize() error {
	supabaseURL := s.config.GetSupabaseURL()
	supabaseKey := s.config.GetSupabaseKey()

	if supabaseURL == "" || supabaseKey == "" {
		return fmt.Errorf("supabase URL and key must be provided")
	}

	client, err := supabase.NewClient(supabaseURL, supabaseKey, &supabase.ClientOptions{})
	if err != nil {
		return fmt.Errorf("failed to create Supabase client: %w", err)
	}

	s.client = client
	s.logger.Info("Supabase client initialized successfully", "url", supabaseURL)
	return nil
}

// ValidateToken validates a Supabase JWT token and returns user info.
// Tokens are verified locally when the project JWT secret is configured.
func (s *SupabaseClient) ValidateToken(token string) (*domain.SupabaseUser, error) {
	if s.verifier != nil {
		user, err := s.verifier.Verify(token)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
		}
		return user, nil
	}

	if s.client == nil {
		return nil, fmt.Errorf("%w: supabase client not initialized", domain.ErrProviderUnavailable)
	}

	// Passing "Authorization" via Supabase client headers does not affect GoTrue requests.
	user, err := s.client.Auth.WithToken(token).GetUser()
	if err != nil {
		s.logger.Error("Failed to validate token with Supabase", err)
		return nil, classifyAuthError(err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user not found", domain.ErrInvalidToken)
	}

	domainUser := toDomainUser(user.User)
	domainUser.ExpiresAt = unverifiedExpiry(token)
	return domainUser, nil
}

// SignUp registers a new account with Supabase Auth
func (s *SupabaseClient) SignUp(req domain.SignUpRequest) (*domain.SignUpResult, error) {
	if s.client == nil {
		return nil, fmt.Errorf("%w: supabase client not initialized", domain.ErrProviderUnavailable)
	}

	signup := types.SignupRequest{
		Email:    req.Email,
		Password: req.Password,
	}
	if req.Name != "" {
		signup.Data = map[string]interface{}{"name": req.Name}
	}

	resp, err := s.client.Auth.Signup(signup)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "already registered") {
			return nil, fmt.Errorf("%w: %v", domain.ErrUserAlreadyExists, err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}

	// With autoconfirm off only the user is returned; with it on the user lives in the session.
	user := resp.User
	if user.ID == uuid.Nil {
		user = resp.Session.User
	}

	return &domain.SignUpResult{
		User:         toDomainUser(user),
		AccessToken:  resp.Session.AccessToken,
		RefreshToken: resp.Session.RefreshToken,
		ExpiresIn:    resp.Session.ExpiresIn,
	}, nil
}

// classifyAuthError tells a rejected token apart from an unreachable or
// failing provider. gotrue reports non-2xx answers only as formatted text.
func classifyAuthError(err error) error {
	var code int
	if _, scanErr := fmt.Sscanf(err.Error(), "response status code %d", &code); scanErr != nil {
		return fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	if code >= http.StatusInternalServerError || code == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
}

func toDomainUser(user types.User) *domain.SupabaseUser {
	return &domain.SupabaseUser{
		ID:           user.ID.String(),
		Email:        user.Email,
		UserMetadata: user.UserMetadata,
		CreatedAt:    user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    user.UpdatedAt.Format(time.RFC3339),
	}
}
