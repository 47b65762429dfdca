package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"edem-chat-server/internal/domain"
)

// Shared hand-rolled mocks for service package tests.

type mockProfileRepo struct {
	profiles map[string]*domain.Profile
	byEmail  map[string]*domain.Profile
	err      error

	lastUserID    string
	lastTier      domain.SubscriptionTier
	lastExpiresAt time.Time
	updates       int
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{
		profiles: make(map[string]*domain.Profile),
		byEmail:  make(map[string]*domain.Profile),
	}
}

func (m *mockProfileRepo) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return p, nil
}

func (m *mockProfileRepo) GetProfileByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.byEmail[email]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return p, nil
}

func (m *mockProfileRepo) UpdateSubscription(ctx context.Context, userID string, tier domain.SubscriptionTier, expiresAt time.Time) error {
	if m.err != nil {
		return m.err
	}
	m.lastUserID = userID
	m.lastTier = tier
	m.lastExpiresAt = expiresAt
	m.updates++
	return nil
}

type mockChatRepo struct {
	sessions  map[string]*domain.ChatSession
	messages  map[string][]domain.ChatMessage
	userCount int
	countErr  error
	lastSince time.Time

	nextSessionID int
	nextMessageID int
}

func newMockChatRepo() *mockChatRepo {
	return &mockChatRepo{
		sessions: make(map[string]*domain.ChatSession),
		messages: make(map[string][]domain.ChatMessage),
	}
}

func (m *mockChatRepo) CreateSession(ctx context.Context, session *domain.ChatSession) error {
	m.nextSessionID++
	session.ID = fmt.Sprintf("session-%d", m.nextSessionID)
	session.CreatedAt = time.Now().UTC()
	copied := *session
	m.sessions[session.ID] = &copied
	return nil
}

func (m *mockChatRepo) GetSession(ctx context.Context, sessionID string) (*domain.ChatSession, error) {
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	copied := *s
	return &copied, nil
}

func (m *mockChatRepo) ListSessions(ctx context.Context, userID string) ([]domain.ChatSession, error) {
	var out []domain.ChatSession
	for _, s := range m.sessions {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockChatRepo) CreateMessage(ctx context.Context, message *domain.ChatMessage) error {
	m.nextMessageID++
	message.ID = fmt.Sprintf("message-%d", m.nextMessageID)
	m.messages[message.SessionID] = append(m.messages[message.SessionID], *message)
	return nil
}

func (m *mockChatRepo) GetHistory(ctx context.Context, sessionID string, limit int) ([]domain.ChatMessage, error) {
	msgs := m.messages[sessionID]
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]domain.ChatMessage, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (m *mockChatRepo) CountUserMessages(ctx context.Context, userID string, since time.Time) (int, error) {
	m.lastSince = since
	if m.countErr != nil {
		return 0, m.countErr
	}
	return m.userCount, nil
}

type mockEventRepo struct {
	seen map[string]bool
	err  error
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{seen: make(map[string]bool)}
}

func (m *mockEventRepo) Record(ctx context.Context, event *domain.PaymentEvent) error {
	if m.err != nil {
		return m.err
	}
	key := event.Provider + "/" + event.EventID
	if m.seen[key] {
		return domain.ErrDuplicateEvent
	}
	m.seen[key] = true
	return nil
}

type mockStream struct {
	chunks []string
	pos    int
	err    error
}

func (m *mockStream) Recv() (string, error) {
	if m.pos < len(m.chunks) {
		chunk := m.chunks[m.pos]
		m.pos++
		return chunk, nil
	}
	if m.err != nil {
		return "", m.err
	}
	return "", io.EOF
}

type mockAIClient struct {
	response string
	chunks   []string
	err      error
	lastReq  domain.CompletionRequest
}

func (m *mockAIClient) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	m.lastReq = req
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockAIClient) StreamCompletion(ctx context.Context, req domain.CompletionRequest) (domain.CompletionStream, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return &mockStream{chunks: m.chunks}, nil
}
