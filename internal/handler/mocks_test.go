package handler

import (
	"context"
	"net/http"

	"context-builder/internal/domain"
	apperrors "context-builder/pkg/errors"
)

// Mock logger used by handler package tests.
type MockHandlerLogger struct{}

func NewMockHandlerLogger() domain.Logger {
	return &MockHandlerLogger{}
}

func (l *MockHandlerLogger) Info(msg string, fields ...interface{})              {}
func (l *MockHandlerLogger) Error(msg string, err error, fields ...interface{}) {}
func (l *MockHandlerLogger) Debug(msg string, fields ...interface{})             {}
func (l *MockHandlerLogger) Warn(msg string, fields ...interface{})              {}

type mockAuthService struct {
	user      *domain.SupabaseUser
	err       error
	lastToken string

	signUpResult *domain.SignUpResult
	signUpErr    error
	signUps      []domain.SignUpRequest
}

func (m *mockAuthService) ValidateToken(_ context.Context, token string) (*domain.SupabaseUser, error) {
	m.lastToken = token
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

func (m *mockAuthService) SignUp(_ context.Context, req domain.SignUpRequest) (*domain.SignUpResult, error) {
	m.signUps = append(m.signUps, req)
	if m.signUpErr != nil {
		return nil, m.signUpErr
	}
	return m.signUpResult, nil
}

type mockDatasetService struct {
	datasets map[string]*domain.Dataset
	segments *domain.SegmentPage
	err      error

	created    *domain.Dataset
	patched    *domain.DatasetPatch
	lastOffset int
	lastLimit  int
	lastUpdate string
}

func newMockDatasetService() *mockDatasetService {
	return &mockDatasetService{datasets: make(map[string]*domain.Dataset)}
}

func (m *mockDatasetService) GetDataset(_ context.Context, id string) (*domain.Dataset, error) {
	if m.err != nil {
		return nil, m.err
	}
	ds, ok := m.datasets[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("Dataset not found", domain.ErrDatasetNotFound)
	}
	return ds, nil
}

func (m *mockDatasetService) CreateDataset(_ context.Context, ds *domain.Dataset) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.created = ds
	return "abc123", nil
}

func (m *mockDatasetService) UpdateDataset(_ context.Context, _ string, patch *domain.DatasetPatch) error {
	m.patched = patch
	return m.err
}

func (m *mockDatasetService) DeleteDataset(_ context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.datasets[id]; !ok {
		return apperrors.NewNotFoundError("Dataset not found", domain.ErrDatasetNotFound)
	}
	delete(m.datasets, id)
	return nil
}

func (m *mockDatasetService) GetDocumentSegments(_ context.Context, _, _ string, offset, limit int) (*domain.SegmentPage, error) {
	m.lastOffset, m.lastLimit = offset, limit
	if m.err != nil {
		return nil, m.err
	}
	return m.segments, nil
}

func (m *mockDatasetService) UpdateSegment(_ context.Context, _, _, _, content string) error {
	m.lastUpdate = content
	return m.err
}

func (m *mockDatasetService) Close(context.Context) error { return nil }

func createContextWithUser(r *http.Request, user *domain.SupabaseUser) *http.Request {
	return r.WithContext(withUser(r.Context(), user, "token-1"))
}
