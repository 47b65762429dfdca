package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"edem-chat-server/internal/domain"
	"edem-chat-server/internal/service"
)

// SessionHandler handles chat session requests
type SessionHandler struct {
	chatService *service.ChatService
	logger      domain.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(chatService *service.ChatService, logger domain.Logger) *SessionHandler {
	return &SessionHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// ListSessions returns the caller's sessions, most recent first
func (h *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	sessions, err := h.chatService.ListSessions(r.Context(), user)
	if err != nil {
		h.logger.Error("Failed to list sessions", err, "user_id", user.ID)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}

// CreateSession opens a new conversation bound to a voice
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	var body struct {
		VoiceID domain.VoiceID `json:"voice_id"`
		Title   string         `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.chatService.CreateSession(r.Context(), user, body.VoiceID, body.Title)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

// GetMessages returns a session's bounded history
func (h *SessionHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	sessionID := mux.Vars(r)["id"]
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "Session ID is required")
		return
	}

	messages, err := h.chatService.GetHistory(r.Context(), user, sessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}
