package service

import (
	"context"
	"io"
	"strings"
	"time"

	"edem-chat-server/internal/domain"
	apperrors "edem-chat-server/pkg/errors"
)

const (
	turnTemperature = 0.8
	turnMaxTokens   = 400
)

// ChatService orchestrates one chat turn: entitlement gate, classifiers,
// voice selection, prompt assembly, the model call and persistence.
type ChatService struct {
	chatRepo    domain.ChatRepository
	entitlement domain.EntitlementService
	detector    domain.LanguageDetector
	classifier  domain.EmotionClassifier
	selector    *VoiceSelector
	composer    *PromptComposer
	aiClient    domain.AIClient
	catalog     *domain.VoiceCatalog
	logger      domain.Logger
}

// NewChatService creates a new chat service
func NewChatService(
	chatRepo domain.ChatRepository,
	entitlement domain.EntitlementService,
	detector domain.LanguageDetector,
	classifier domain.EmotionClassifier,
	selector *VoiceSelector,
	composer *PromptComposer,
	aiClient domain.AIClient,
	catalog *domain.VoiceCatalog,
	logger domain.Logger,
) *ChatService {
	return &ChatService{
		chatRepo:    chatRepo,
		entitlement: entitlement,
		detector:    detector,
		classifier:  classifier,
		selector:    selector,
		composer:    composer,
		aiClient:    aiClient,
		catalog:     catalog,
		logger:      logger,
	}
}

// preparedTurn carries everything resolved before the model call.
type preparedTurn struct {
	session    *domain.ChatSession
	voice      domain.Voice
	emotion    domain.EmotionState
	language   domain.Language
	history    []domain.ChatMessage
	completion domain.CompletionRequest
	greeting   string
}

// prepareTurn runs the pre-stream pipeline: validation, entitlement,
// session authorization, classification, voice selection and prompt
// assembly. Terminal on the first failure.
func (s *ChatService) prepareTurn(ctx context.Context, user *domain.SupabaseUser, req domain.TurnRequest) (*preparedTurn, error) {
	if s.aiClient == nil {
		return nil, apperrors.NewUpstreamError("model collaborator is not configured", nil)
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, apperrors.NewValidationError("message is required")
	}
	if req.VoiceID != "" {
		if _, ok := s.catalog.Get(req.VoiceID); !ok {
			return nil, apperrors.NewValidationError("unknown voice", string(req.VoiceID))
		}
	}

	tier := s.entitlement.ResolveTier(ctx, user.ID)

	if _, err := s.entitlement.CheckMessageAllowance(ctx, user.ID, tier); err != nil {
		if err == domain.ErrQuotaExhausted {
			return nil, apperrors.NewPaywallError("Лимит ознакомительных сообщений исчерпан. Оформите подписку, чтобы продолжить.")
		}
		return nil, apperrors.NewInternalError("failed to check message allowance", err)
	}

	session, err := s.resolveSession(ctx, user, req, tier)
	if err != nil {
		return nil, err
	}

	// A session's bound voice never changes under the user mid-conversation.
	// An explicit request for a different voice is a hard reject, not a
	// silent re-bind.
	if req.VoiceID != "" && req.VoiceID != session.VoiceID {
		return nil, apperrors.NewForbiddenError("session is bound to a different voice")
	}

	detection := s.detector.Detect(req.Message)
	emotion := s.classifier.Classify(req.Message)
	analysis := s.classifier.Analyze(req.Message)

	locale := domain.ParseLanguage(req.Locale)
	responseLang := locale
	if detection.Detected {
		responseLang = detection.Language
	}

	voiceID := s.selector.Select(analysis, session.VoiceID, req.VoiceID)
	if err := s.entitlement.CheckVoiceAccess(tier, voiceID); err != nil {
		if err == domain.ErrUnknownVoice {
			return nil, apperrors.NewValidationError("unknown voice", string(voiceID))
		}
		return nil, apperrors.NewForbiddenError("Этот голос недоступен на текущем тарифе. Оформите подписку.")
	}
	voice, _ := s.catalog.Get(voiceID)

	history, err := s.chatRepo.GetHistory(ctx, session.ID, domain.HistoryLimit)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load history", err)
	}

	greeting := ""
	if len(history) == 0 {
		greeting = s.composer.Greeting(locale)
	}

	completionHistory := make([]domain.CompletionMessage, 0, len(history))
	for _, msg := range history {
		completionHistory = append(completionHistory, domain.CompletionMessage{Role: msg.Role, Content: msg.Content})
	}

	return &preparedTurn{
		session:  session,
		voice:    voice,
		emotion:  emotion,
		language: responseLang,
		history:  history,
		completion: domain.CompletionRequest{
			SystemPrompt: s.composer.Compose(locale, voice, emotion, responseLang),
			History:      completionHistory,
			UserMessage:  req.Message,
			Temperature:  turnTemperature,
			MaxTokens:    turnMaxTokens,
		},
		greeting: greeting,
	}, nil
}

// resolveSession finds the session the turn belongs to. With an explicit id
// the session must belong to the caller. Without one the most recent
// session is reused, and the first message ever creates one lazily, bound
// to the voice this turn selects.
func (s *ChatService) resolveSession(ctx context.Context, user *domain.SupabaseUser, req domain.TurnRequest, tier domain.SubscriptionTier) (*domain.ChatSession, error) {
	if req.SessionID != "" {
		session, err := s.chatRepo.GetSession(ctx, req.SessionID)
		if err != nil {
			if err == domain.ErrSessionNotFound {
				return nil, apperrors.NewNotFoundError("session not found")
			}
			return nil, apperrors.NewInternalError("failed to load session", err)
		}
		if session.UserID != user.ID {
			return nil, apperrors.NewForbiddenError("Нет доступа к этой сессии")
		}
		return session, nil
	}

	sessions, err := s.chatRepo.ListSessions(ctx, user.ID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list sessions", err)
	}
	if len(sessions) > 0 {
		return &sessions[0], nil
	}

	voiceID := req.VoiceID
	if voiceID == "" {
		voiceID = s.selector.Select(s.classifier.Analyze(req.Message), "", "")
	}
	if err := s.entitlement.CheckVoiceAccess(tier, voiceID); err != nil {
		return nil, apperrors.NewForbiddenError("Этот голос недоступен на текущем тарифе. Оформите подписку.")
	}

	session := &domain.ChatSession{
		UserID:  user.ID,
		VoiceID: voiceID,
		Title:   "New Chat",
	}
	if err := s.chatRepo.CreateSession(ctx, session); err != nil {
		return nil, apperrors.NewInternalError("failed to create session", err)
	}
	return session, nil
}

// CreateSession explicitly opens a conversation bound to a voice.
func (s *ChatService) CreateSession(ctx context.Context, user *domain.SupabaseUser, voiceID domain.VoiceID, title string) (*domain.ChatSession, error) {
	if voiceID == "" {
		voiceID = domain.VoiceLive
	}
	tier := s.entitlement.ResolveTier(ctx, user.ID)
	if err := s.entitlement.CheckVoiceAccess(tier, voiceID); err != nil {
		if err == domain.ErrUnknownVoice {
			return nil, apperrors.NewValidationError("unknown voice", string(voiceID))
		}
		return nil, apperrors.NewForbiddenError("Этот голос недоступен на текущем тарифе. Оформите подписку.")
	}

	if title == "" {
		title = "New Chat"
	}
	session := &domain.ChatSession{UserID: user.ID, VoiceID: voiceID, Title: title}
	if err := s.chatRepo.CreateSession(ctx, session); err != nil {
		return nil, apperrors.NewInternalError("failed to create session", err)
	}
	return session, nil
}

// ListSessions returns the caller's sessions, most recent first.
func (s *ChatService) ListSessions(ctx context.Context, user *domain.SupabaseUser) ([]domain.ChatSession, error) {
	sessions, err := s.chatRepo.ListSessions(ctx, user.ID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list sessions", err)
	}
	return sessions, nil
}

// GetHistory returns a session's bounded history after an ownership check.
func (s *ChatService) GetHistory(ctx context.Context, user *domain.SupabaseUser, sessionID string) ([]domain.ChatMessage, error) {
	session, err := s.chatRepo.GetSession(ctx, sessionID)
	if err != nil {
		if err == domain.ErrSessionNotFound {
			return nil, apperrors.NewNotFoundError("session not found")
		}
		return nil, apperrors.NewInternalError("failed to load session", err)
	}
	if session.UserID != user.ID {
		return nil, apperrors.NewForbiddenError("Нет доступа к этой сессии")
	}
	return s.chatRepo.GetHistory(ctx, sessionID, domain.HistoryLimit)
}

// StreamTurn runs one turn and relays model output through onChunk in
// arrival order. The user message is persisted before the model call and
// the concatenated assistant text after the stream completes. ctx is
// threaded into the upstream call, so a disconnecting client cancels it.
func (s *ChatService) StreamTurn(ctx context.Context, user *domain.SupabaseUser, req domain.TurnRequest, onChunk func(string) error) (*domain.TurnResponse, error) {
	turn, err := s.prepareTurn(ctx, user, req)
	if err != nil {
		return nil, err
	}

	if err := s.recordUserMessage(ctx, turn, req.Message); err != nil {
		return nil, err
	}

	stream, err := s.aiClient.StreamCompletion(ctx, turn.completion)
	if err != nil {
		return nil, apperrors.NewUpstreamError("model call failed", err)
	}

	var full strings.Builder
	if turn.greeting != "" {
		if err := onChunk(turn.greeting + "\n\n"); err != nil {
			return nil, err
		}
		full.WriteString(turn.greeting)
		full.WriteString("\n\n")
	}

	for {
		chunk, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewUpstreamError("model stream failed", err)
		}
		if chunk == "" {
			continue
		}
		full.WriteString(chunk)
		if err := onChunk(chunk); err != nil {
			return nil, err
		}
	}

	s.persistAssistantMessage(ctx, turn.session.ID, full.String())

	return &domain.TurnResponse{
		SessionID: turn.session.ID,
		VoiceID:   turn.voice.ID,
		Message:   full.String(),
		Language:  string(turn.language),
		Emotion:   string(turn.emotion),
	}, nil
}

// CompleteTurn runs one turn without streaming and returns the full text.
func (s *ChatService) CompleteTurn(ctx context.Context, user *domain.SupabaseUser, req domain.TurnRequest) (*domain.TurnResponse, error) {
	turn, err := s.prepareTurn(ctx, user, req)
	if err != nil {
		return nil, err
	}

	if err := s.recordUserMessage(ctx, turn, req.Message); err != nil {
		return nil, err
	}

	text, err := s.aiClient.Complete(ctx, turn.completion)
	if err != nil {
		return nil, apperrors.NewUpstreamError("model call failed", err)
	}
	if turn.greeting != "" {
		text = turn.greeting + "\n\n" + text
	}

	s.persistAssistantMessage(ctx, turn.session.ID, text)

	return &domain.TurnResponse{
		SessionID: turn.session.ID,
		VoiceID:   turn.voice.ID,
		Message:   text,
		Language:  string(turn.language),
		Emotion:   string(turn.emotion),
	}, nil
}

func (s *ChatService) recordUserMessage(ctx context.Context, turn *preparedTurn, content string) error {
	msg := &domain.ChatMessage{
		SessionID: turn.session.ID,
		Role:      domain.RoleUser,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.chatRepo.CreateMessage(ctx, msg); err != nil {
		return apperrors.NewInternalError("failed to persist user message", err)
	}
	return nil
}

func (s *ChatService) persistAssistantMessage(ctx context.Context, sessionID, content string) {
	msg := &domain.ChatMessage{
		SessionID: sessionID,
		Role:      domain.RoleAssistant,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.chatRepo.CreateMessage(ctx, msg); err != nil {
		s.logger.Warn("Failed to persist assistant message", "session_id", sessionID, "error", err)
	}
}
