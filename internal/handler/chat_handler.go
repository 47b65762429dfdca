package handler

import (
	"encoding/json"
	"net/http"

	"edem-chat-server/internal/domain"
	"edem-chat-server/internal/service"
)

// ChatHandler handles chat turn requests
type ChatHandler struct {
	chatService *service.ChatService
	logger      domain.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *service.ChatService, logger domain.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// Chat runs one turn and returns the full reply as JSON
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	var req domain.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.chatService.CompleteTurn(r.Context(), user, req)
	if err != nil {
		h.logger.Debug("Chat turn rejected", "user_id", user.ID, "error", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

type streamChunk struct {
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ChatStream runs one turn and relays the model output as server-sent
// events. Failures before the first chunk come back as plain JSON errors;
// once the stream is open an error is delivered as an in-band event.
func (h *ChatHandler) ChatStream(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	var req domain.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "Streaming is not supported")
		return
	}

	streaming := false
	openStream := func() {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)
		streaming = true
	}
	onChunk := func(text string) error {
		if !streaming {
			openStream()
		}
		return writeEvent(w, flusher, streamChunk{Content: text})
	}

	_, err := h.chatService.StreamTurn(r.Context(), user, req, onChunk)
	if err != nil {
		if !streaming {
			h.logger.Debug("Chat stream rejected", "user_id", user.ID, "error", err)
			writeServiceError(w, err)
			return
		}
		// A truncated reply must not carry the completion marker; the
		// error event is the last frame.
		h.logger.Error("Chat stream aborted", err, "user_id", user.ID)
		_ = writeEvent(w, flusher, streamChunk{Error: "stream interrupted"})
		return
	}

	// A successful turn always ends with the terminal frame, even when the
	// model produced no chunks.
	if !streaming {
		openStream()
	}
	_, _ = w.Write([]byte("data: [DONE]\n\n"))
	flusher.Flush()
}

// writeEvent emits one SSE data frame and flushes it immediately.
func writeEvent(w http.ResponseWriter, flusher http.Flusher, chunk streamChunk) error {
	payload, err := json.Marshal(chunk)
	if err != nil {
		return err
	}
	if _, err := w.Write(append(append([]byte("data: "), payload...), '\n', '\n')); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
