package domain

import "time"

// Message roles as stored in chat_messages.role.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// HistoryLimit bounds the conversation history fed back to the model.
const HistoryLimit = 50

// ChatSession represents one ongoing conversation. VoiceID is bound when the
// session is created and never changes afterwards.
type ChatSession struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	VoiceID   VoiceID   `json:"voice_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatMessage represents one turn half. Messages are append-only; ordering
// by CreatedAt defines the conversation history.
type ChatMessage struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// TurnRequest carries one incoming user message.
type TurnRequest struct {
	SessionID string  `json:"session_id"`
	Message   string  `json:"message"`
	VoiceID   VoiceID `json:"voice_id,omitempty"`
	Locale    string  `json:"locale,omitempty"`
}

// TurnResponse is the non-streaming turn result.
type TurnResponse struct {
	SessionID string  `json:"session_id"`
	VoiceID   VoiceID `json:"voice_id"`
	Message   string  `json:"message"`
	Language  string  `json:"language"`
	Emotion   string  `json:"emotion"`
}

// CompletionMessage is one role-tagged message sent to the language model.
type CompletionMessage struct {
	Role    string
	Content string
}

// CompletionRequest carries everything the language-model collaborator
// needs for one generation.
type CompletionRequest struct {
	SystemPrompt string
	History      []CompletionMessage
	UserMessage  string
	Temperature  float32
	MaxTokens    int32
}

// CompletionStream yields incremental text fragments. Recv returns io.EOF
// after the final fragment.
type CompletionStream interface {
	Recv() (string, error)
}
