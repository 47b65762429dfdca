package service

import (
	"context"
	"time"

	"edem-chat-server/internal/domain"
)

// entitlementService implements domain.EntitlementService. It is read-only:
// message rows are inserted by the turn handler after a successful turn.
type entitlementService struct {
	profileRepo domain.ProfileRepository
	chatRepo    domain.ChatRepository
	catalog     *domain.VoiceCatalog
	logger      domain.Logger

	now func() time.Time
}

// NewEntitlementService creates a new entitlement service
func NewEntitlementService(
	profileRepo domain.ProfileRepository,
	chatRepo domain.ChatRepository,
	catalog *domain.VoiceCatalog,
	logger domain.Logger,
) domain.EntitlementService {
	return &entitlementService{
		profileRepo: profileRepo,
		chatRepo:    chatRepo,
		catalog:     catalog,
		logger:      logger,
		now:         time.Now,
	}
}

// ResolveTier looks up the user's effective tier. Failing the lookup, or a
// missing row, resolves to free: quota checks must fail closed, never open.
func (s *entitlementService) ResolveTier(ctx context.Context, userID string) domain.SubscriptionTier {
	profile, err := s.profileRepo.GetProfile(ctx, userID)
	if err != nil {
		if err != domain.ErrProfileNotFound {
			s.logger.Warn("Tier lookup failed, defaulting to free", "user_id", userID, "error", err)
		}
		return domain.TierFree
	}
	return profile.EffectiveTier(s.now())
}

// CheckMessageAllowance reports whether the user may send another message.
// At or above the tier ceiling it returns the usage together with
// domain.ErrQuotaExhausted; the caller translates that into the paywall
// signal.
func (s *entitlementService) CheckMessageAllowance(ctx context.Context, userID string, tier domain.SubscriptionTier) (*domain.QuotaUsage, error) {
	quota := domain.QuotaForTier(tier)

	usage := &domain.QuotaUsage{
		Tier:      tier,
		Limit:     quota.Limit,
		Period:    quota.Period,
		Unlimited: quota.Unlimited,
	}

	if quota.Unlimited {
		return usage, nil
	}

	var since time.Time
	if quota.Period == domain.QuotaPeriodMonthly {
		now := s.now().UTC()
		since = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	}

	used, err := s.chatRepo.CountUserMessages(ctx, userID, since)
	if err != nil {
		return nil, err
	}
	usage.Used = used

	if used >= quota.Limit {
		return usage, domain.ErrQuotaExhausted
	}
	return usage, nil
}

// AllowedVoices returns the voice ids the tier unlocks.
func (s *entitlementService) AllowedVoices(tier domain.SubscriptionTier) []domain.VoiceID {
	return s.catalog.AllowedFor(tier)
}

// CheckVoiceAccess validates a voice against a tier. The caller must
// reject, not downgrade, when the voice is out of reach.
func (s *entitlementService) CheckVoiceAccess(tier domain.SubscriptionTier, voice domain.VoiceID) error {
	if _, ok := s.catalog.Get(voice); !ok {
		return domain.ErrUnknownVoice
	}
	if !s.catalog.Allows(tier, voice) {
		return domain.ErrVoiceNotAllowed
	}
	return nil
}
