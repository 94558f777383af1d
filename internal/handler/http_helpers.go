package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"context-builder/internal/domain"
	apperrors "context-builder/pkg/errors"
)

type contextKey string

const (
	userContextKey  contextKey = "user"
	tokenContextKey contextKey = "token"
)

const maxJSONBodyBytes = 1 << 20

// GetUserFromContext extracts the authenticated user from request context
func GetUserFromContext(r *http.Request) (*domain.SupabaseUser, bool) {
	user, ok := r.Context().Value(userContextKey).(*domain.SupabaseUser)
	return user, ok && user != nil
}

// GetTokenFromContext extracts the authentication token from request context
func GetTokenFromContext(r *http.Request) (string, bool) {
	token, ok := r.Context().Value(tokenContextKey).(string)
	return token, ok
}

// GetSessionFromRequest returns the request's session, signed out when no
// user was authenticated.
func GetSessionFromRequest(r *http.Request) domain.Session {
	user, ok := GetUserFromContext(r)
	if !ok {
		return domain.Session{}
	}
	token, _ := GetTokenFromContext(r)
	return domain.Session{User: user, AccessToken: token}
}

// writeError writes an error response (helper function)
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeAppError maps an application error to its status and client message.
func writeAppError(w http.ResponseWriter, err error) {
	body := map[string]string{"error": apperrors.GetMessage(err)}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Details != "" {
		body["details"] = appErr.Details
	}
	writeJSON(w, apperrors.GetStatusCode(err), body)
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// envelope is the success body of the dataset API.
type envelope struct {
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
	Status  int         `json:"status"`
}

func writeSuccess(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, envelope{Data: data, Message: "success", Status: http.StatusOK})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return apperrors.NewValidationError("Invalid request body", err.Error())
	}
	return nil
}
