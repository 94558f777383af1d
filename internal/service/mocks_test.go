package service

import (
	"errors"
	"sync"
	"time"

	"context-builder/internal/domain"

	"github.com/supabase-community/supabase-go"
)

type MockLogger struct{}

func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

func (l *MockLogger) Info(string, ...interface{})         {}
func (l *MockLogger) Error(string, error, ...interface{}) {}
func (l *MockLogger) Debug(string, ...interface{})        {}
func (l *MockLogger) Warn(string, ...interface{})         {}

// MockSupabaseClient for testing
type MockSupabaseClient struct {
	mu            sync.Mutex
	validateCalls int
	tokenExpiry   time.Time
	signUpErr     error
	signedUp      []domain.SignUpRequest
}

func NewMockSupabaseClient() *MockSupabaseClient {
	return &MockSupabaseClient{}
}

func (m *MockSupabaseClient) Initialize() error {
	return nil
}

func (m *MockSupabaseClient) ValidateToken(token string) (*domain.SupabaseUser, error) {
	m.mu.Lock()
	m.validateCalls++
	m.mu.Unlock()

	switch token {
	case "valid-token":
		return &domain.SupabaseUser{
			ID:        "user-123",
			Email:     "test@example.com",
			ExpiresAt: m.tokenExpiry,
		}, nil
	case "down-token":
		return nil, domain.ErrProviderUnavailable
	case "invalid-token":
		return nil, errors.New("invalid token")
	}
	return nil, errors.New("token validation failed")
}

func (m *MockSupabaseClient) SignUp(req domain.SignUpRequest) (*domain.SignUpResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.signUpErr != nil {
		return nil, m.signUpErr
	}
	m.signedUp = append(m.signedUp, req)
	return &domain.SignUpResult{
		User:        &domain.SupabaseUser{ID: "user-new", Email: req.Email},
		AccessToken: "issued-token",
	}, nil
}

func (m *MockSupabaseClient) DB() *supabase.Client {
	return nil
}

func (m *MockSupabaseClient) ValidateCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.validateCalls
}
