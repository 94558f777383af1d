package domain

import "errors"

// Domain errors
var (
	ErrDatasetNotFound     = errors.New("dataset not found")
	ErrDocumentNotFound    = errors.New("UID not found in dataset documents")
	ErrSegmentNotFound     = errors.New("segment not found")
	ErrUnsupportedDocument = errors.New("document type not supported")
	ErrInvalidToken        = errors.New("invalid token")
	ErrUserAlreadyExists   = errors.New("user already registered")
	ErrProviderUnavailable = errors.New("authentication provider unavailable")
)
