package domain

import (
	"context"
	"time"
)

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetLogLevel() string
	GetAppURL() string

	GetSupabaseURL() string
	GetSupabaseAnonKey() string
	GetSupabaseServiceKey() string

	GetVertexProjectID() string
	GetVertexLocation() string
	GetVertexModel() string

	GetStripeSecretKey() string
	GetStripeWebhookSecret() string
	GetYooKassaShopID() string
	GetYooKassaSecretKey() string
	GetCryptoIPNSecret() string
	GetCryptoGatewayURL() string
}

// AuthClient validates bearer tokens against the identity provider.
type AuthClient interface {
	ValidateToken(token string) (*SupabaseUser, error)
}

// ProfileRepository reads and mutates billing profiles.
type ProfileRepository interface {
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (*Profile, error)
	UpdateSubscription(ctx context.Context, userID string, tier SubscriptionTier, expiresAt time.Time) error
}

// ChatRepository persists sessions and messages.
type ChatRepository interface {
	CreateSession(ctx context.Context, session *ChatSession) error
	GetSession(ctx context.Context, sessionID string) (*ChatSession, error)
	ListSessions(ctx context.Context, userID string) ([]ChatSession, error)
	CreateMessage(ctx context.Context, message *ChatMessage) error
	// GetHistory returns up to limit most recent messages in creation order.
	GetHistory(ctx context.Context, sessionID string, limit int) ([]ChatMessage, error)
	// CountUserMessages counts user-role messages across all of a user's
	// sessions created at or after since. A zero since counts everything.
	CountUserMessages(ctx context.Context, userID string, since time.Time) (int, error)
}

// PaymentEventRepository records processed webhook event ids.
type PaymentEventRepository interface {
	// Record stores the event id. It returns ErrDuplicateEvent when the
	// (provider, event id) pair was already recorded.
	Record(ctx context.Context, event *PaymentEvent) error
}

// AIClient is the language-model collaborator.
type AIClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	StreamCompletion(ctx context.Context, req CompletionRequest) (CompletionStream, error)
}

// EntitlementService gates chat turns on tier and quota.
type EntitlementService interface {
	// ResolveTier looks up the user's effective tier, defaulting to free
	// when the profile is missing or the lookup fails.
	ResolveTier(ctx context.Context, userID string) SubscriptionTier
	CheckMessageAllowance(ctx context.Context, userID string, tier SubscriptionTier) (*QuotaUsage, error)
	AllowedVoices(tier SubscriptionTier) []VoiceID
	CheckVoiceAccess(tier SubscriptionTier, voice VoiceID) error
}

// LanguageDetector guesses the human language of a message.
type LanguageDetector interface {
	Detect(message string) LanguageDetection
}

// EmotionClassifier maps a message to a coarse emotional state.
type EmotionClassifier interface {
	Classify(message string) EmotionState
	Analyze(message string) MessageAnalysis
}
