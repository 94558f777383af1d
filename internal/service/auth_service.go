package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"context-builder/internal/domain"
	apperrors "context-builder/pkg/errors"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const (
	validatedTokenCacheTTL  = 30 * time.Second
	validatedTokenCacheSize = 1024
)

type validatedTokenEntry struct {
	user      *domain.SupabaseUser
	expiresAt time.Time
}

type authService struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
	validate       *validator.Validate
	signUps        metric.Int64Counter
	now            func() time.Time

	tokenCacheMu sync.RWMutex
	tokenCache   map[string]validatedTokenEntry
}

func NewAuthService(
	supabaseClient domain.SupabaseClient,
	logger domain.Logger,
) *authService {
	var signUps metric.Int64Counter = noop.Int64Counter{}
	counter, err := otel.Meter(instrumentationName).Int64Counter(
		"auth.signups",
		metric.WithDescription("Sign-up attempts by outcome"),
	)
	if err != nil {
		logger.Warn("Failed to create sign-up counter", "error", err)
	} else {
		signUps = counter
	}

	return &authService{
		supabaseClient: supabaseClient,
		logger:         logger,
		validate:       validator.New(validator.WithRequiredStructEnabled()),
		signUps:        signUps,
		now:            time.Now,
		tokenCache:     make(map[string]validatedTokenEntry),
	}
}

// ValidateToken resolves an access token to its user. Successful lookups are
// cached briefly so page renders don't hit the provider on every request;
// an entry never outlives the token itself.
func (s *authService) ValidateToken(ctx context.Context, token string) (*domain.SupabaseUser, error) {
	if token == "" {
		return nil, apperrors.NewUnauthorizedError("Token required", domain.ErrInvalidToken)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := s.now()
	s.tokenCacheMu.RLock()
	entry, ok := s.tokenCache[token]
	s.tokenCacheMu.RUnlock()
	if ok && now.Before(entry.expiresAt) {
		return entry.user, nil
	}

	user, err := s.supabaseClient.ValidateToken(token)
	if err != nil {
		if errors.Is(err, domain.ErrProviderUnavailable) {
			s.logger.Error("Auth provider unavailable during token validation", err)
			return nil, apperrors.NewUpstreamError("Authentication provider unavailable", err)
		}
		s.logger.Debug("Token rejected", "error", err)
		return nil, apperrors.NewUnauthorizedError("Invalid token", err)
	}

	expiresAt := now.Add(validatedTokenCacheTTL)
	if !user.ExpiresAt.IsZero() && user.ExpiresAt.Before(expiresAt) {
		expiresAt = user.ExpiresAt
	}
	if !now.Before(expiresAt) {
		return user, nil
	}

	s.tokenCacheMu.Lock()
	if len(s.tokenCache) >= validatedTokenCacheSize {
		for k, e := range s.tokenCache {
			if !now.Before(e.expiresAt) {
				delete(s.tokenCache, k)
			}
		}
		if len(s.tokenCache) >= validatedTokenCacheSize {
			s.tokenCache = make(map[string]validatedTokenEntry)
		}
	}
	s.tokenCache[token] = validatedTokenEntry{user: user, expiresAt: expiresAt}
	s.tokenCacheMu.Unlock()

	return user, nil
}

// SignUp registers a new account with the auth provider
func (s *authService) SignUp(ctx context.Context, req domain.SignUpRequest) (*domain.SignUpResult, error) {
	if err := s.validate.Struct(req); err != nil {
		s.recordSignUp(ctx, "invalid")
		return nil, apperrors.NewValidationError("Invalid sign up details", err.Error())
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := s.supabaseClient.SignUp(req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserAlreadyExists):
			s.recordSignUp(ctx, "conflict")
			return nil, apperrors.NewConflictError("An account with this email already exists", err)
		default:
			s.recordSignUp(ctx, "error")
			s.logger.Error("Sign up failed", err, "email", req.Email)
			return nil, apperrors.NewUpstreamError("Sign up failed, please try again", err)
		}
	}

	s.recordSignUp(ctx, "success")
	if result.User != nil {
		s.logger.Info("User signed up", "user_id", result.User.ID, "confirmation_pending", result.NeedsConfirmation())
	}
	return result, nil
}

func (s *authService) recordSignUp(ctx context.Context, outcome string) {
	s.signUps.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
