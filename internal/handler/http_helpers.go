package handler

import (
	"encoding/json"
	"net/http"

	"edem-chat-server/internal/domain"
	apperrors "edem-chat-server/pkg/errors"
)

type contextKey string

const userContextKey contextKey = "user"

// GetUserFromContext extracts the authenticated user from request context
func GetUserFromContext(r *http.Request) (*domain.SupabaseUser, bool) {
	user, ok := r.Context().Value(userContextKey).(*domain.SupabaseUser)
	return user, ok
}

// errorResponse is the body every failed request gets.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError writes an error response (helper function)
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, errorResponse{Error: message})
}

// writeServiceError maps a service error onto the HTTP surface, keeping the
// structured type as the machine-readable code.
func writeServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		writeJSON(w, appErr.StatusCode, errorResponse{Error: appErr.Message, Code: string(appErr.Type)})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error", Code: string(apperrors.ErrorTypeInternal)})
}
