package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"edem-chat-server/internal/domain"

	"github.com/supabase-community/postgrest-go"
)

// SupabaseChatRepository implements the domain.ChatRepository interface on
// top of the chat_sessions and chat_messages tables.
type SupabaseChatRepository struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
}

// NewSupabaseChatRepository creates a new Supabase chat repository
func NewSupabaseChatRepository(supabaseClient domain.SupabaseClient, logger domain.Logger) domain.ChatRepository {
	return &SupabaseChatRepository{
		supabaseClient: supabaseClient,
		logger:         logger,
	}
}

// CreateSession inserts a new session and fills in its generated id
func (r *SupabaseChatRepository) CreateSession(ctx context.Context, session *domain.ChatSession) error {
	client := r.supabaseClient.DB()
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	row := map[string]interface{}{
		"user_id":    session.UserID,
		"voice_id":   string(session.VoiceID),
		"title":      session.Title,
		"created_at": time.Now().UTC().Format(time.RFC3339),
	}

	data, _, err := client.From("chat_sessions").
		Insert(row, false, "", "representation", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	var rows []domain.ChatSession
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("failed to unmarshal created session: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("session insert returned no rows")
	}

	*session = rows[0]
	return nil
}

// GetSession fetches one session by id
func (r *SupabaseChatRepository) GetSession(ctx context.Context, sessionID string) (*domain.ChatSession, error) {
	client := r.supabaseClient.DB()
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From("chat_sessions").
		Select("id, user_id, voice_id, title, created_at", "", false).
		Eq("id", sessionID).
		Limit(1, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var rows []domain.ChatSession
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrSessionNotFound
	}

	return &rows[0], nil
}

// ListSessions returns a user's sessions, most recent first
func (r *SupabaseChatRepository) ListSessions(ctx context.Context, userID string) ([]domain.ChatSession, error) {
	client := r.supabaseClient.DB()
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From("chat_sessions").
		Select("id, user_id, voice_id, title, created_at", "", false).
		Eq("user_id", userID).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	var rows []domain.ChatSession
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sessions: %w", err)
	}
	return rows, nil
}

// CreateMessage appends one message row
func (r *SupabaseChatRepository) CreateMessage(ctx context.Context, message *domain.ChatMessage) error {
	client := r.supabaseClient.DB()
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	row := map[string]interface{}{
		"session_id": message.SessionID,
		"role":       message.Role,
		"content":    message.Content,
		"created_at": time.Now().UTC().Format(time.RFC3339Nano),
	}

	data, _, err := client.From("chat_messages").
		Insert(row, false, "", "representation", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	var rows []domain.ChatMessage
	if err := json.Unmarshal(data, &rows); err == nil && len(rows) > 0 {
		*message = rows[0]
	}
	return nil
}

// GetHistory returns up to limit most recent messages in creation order.
// The query reads newest-first so the bound keeps the most recent turns,
// then the slice is reversed back to chronological order.
func (r *SupabaseChatRepository) GetHistory(ctx context.Context, sessionID string, limit int) ([]domain.ChatMessage, error) {
	client := r.supabaseClient.DB()
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}
	if limit <= 0 {
		limit = domain.HistoryLimit
	}

	data, _, err := client.From("chat_messages").
		Select("id, session_id, role, content, created_at", "", false).
		Eq("session_id", sessionID).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Limit(limit, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	var rows []domain.ChatMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal history: %w", err)
	}

	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows, nil
}

// CountUserMessages counts user-role messages across all of a user's
// sessions. Messages belong to sessions, so the count is a two-step query:
// the user's session ids, then an exact count with an IN filter.
func (r *SupabaseChatRepository) CountUserMessages(ctx context.Context, userID string, since time.Time) (int, error) {
	client := r.supabaseClient.DB()
	if client == nil {
		return 0, fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From("chat_sessions").
		Select("id", "", false).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return 0, fmt.Errorf("failed to list session ids: %w", err)
	}

	var sessions []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &sessions); err != nil {
		return 0, fmt.Errorf("failed to unmarshal session ids: %w", err)
	}
	if len(sessions) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(sessions))
	for _, s := range sessions {
		ids = append(ids, s.ID)
	}

	query := client.From("chat_messages").
		Select("id", "exact", false).
		In("session_id", ids).
		Eq("role", domain.RoleUser)
	if !since.IsZero() {
		query = query.Gte("created_at", since.UTC().Format(time.RFC3339))
	}

	_, count, err := query.Execute()
	if err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}

	return int(count), nil
}
