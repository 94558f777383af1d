package handler

import (
	"net/http"
	"time"

	"context-builder/internal/domain"
)

// AuthHandler handles authentication-related API requests
type AuthHandler struct {
	logger domain.Logger
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(logger domain.Logger) *AuthHandler {
	return &AuthHandler{
		logger: logger,
	}
}

type sessionResponse struct {
	SignedIn  bool                 `json:"signed_in"`
	User      *domain.SupabaseUser `json:"user"`
	CheckedAt time.Time            `json:"checked_at"`
}

// GetSession returns the user behind the request's token
func (h *AuthHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromRequest(r)
	if !session.SignedIn() {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		SignedIn:  true,
		User:      session.User,
		CheckedAt: time.Now().UTC(),
	})
}
