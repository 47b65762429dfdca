package service

import (
	"context"
	"testing"
	"time"

	"edem-chat-server/internal/domain"
)

func newTestEntitlement(profiles *mockProfileRepo, chat *mockChatRepo, now time.Time) *entitlementService {
	return &entitlementService{
		profileRepo: profiles,
		chatRepo:    chat,
		catalog:     domain.NewVoiceCatalog(domain.SeedVoices()),
		logger:      NewMockServiceLogger(),
		now:         func() time.Time { return now },
	}
}

func TestResolveTier_MissingProfileIsFree(t *testing.T) {
	svc := newTestEntitlement(newMockProfileRepo(), newMockChatRepo(), time.Now())

	if tier := svc.ResolveTier(context.Background(), "nobody"); tier != domain.TierFree {
		t.Fatalf("expected free for missing profile, got %s", tier)
	}
}

func TestResolveTier_ExpiredSubscriptionIsFree(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	expired := now.Add(-time.Hour)

	profiles := newMockProfileRepo()
	profiles.profiles["u1"] = &domain.Profile{
		ID:                    "u1",
		SubscriptionTier:      string(domain.TierPro),
		SubscriptionExpiresAt: &expired,
	}

	svc := newTestEntitlement(profiles, newMockChatRepo(), now)

	if tier := svc.ResolveTier(context.Background(), "u1"); tier != domain.TierFree {
		t.Fatalf("expected expired pro to resolve as free, got %s", tier)
	}
}

func TestResolveTier_ActiveSubscription(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)

	profiles := newMockProfileRepo()
	profiles.profiles["u1"] = &domain.Profile{
		ID:                    "u1",
		SubscriptionTier:      string(domain.TierPro),
		SubscriptionExpiresAt: &future,
	}

	svc := newTestEntitlement(profiles, newMockChatRepo(), now)

	if tier := svc.ResolveTier(context.Background(), "u1"); tier != domain.TierPro {
		t.Fatalf("expected pro, got %s", tier)
	}
}

func TestCheckMessageAllowance_FreeTierCeiling(t *testing.T) {
	chat := newMockChatRepo()
	svc := newTestEntitlement(newMockProfileRepo(), chat, time.Now())

	chat.userCount = 1
	usage, err := svc.CheckMessageAllowance(context.Background(), "u1", domain.TierFree)
	if err != nil {
		t.Fatalf("expected one of two messages to be allowed, got %v", err)
	}
	if usage.Used != 1 || usage.Limit != 2 {
		t.Fatalf("unexpected usage: %+v", usage)
	}

	chat.userCount = 2
	usage, err = svc.CheckMessageAllowance(context.Background(), "u1", domain.TierFree)
	if err != domain.ErrQuotaExhausted {
		t.Fatalf("expected quota exhaustion at the ceiling, got %v", err)
	}
	if usage == nil || usage.Used != 2 {
		t.Fatalf("expected usage alongside the exhaustion error, got %+v", usage)
	}
}

func TestCheckMessageAllowance_FreeTierCountsLifetime(t *testing.T) {
	chat := newMockChatRepo()
	svc := newTestEntitlement(newMockProfileRepo(), chat, time.Now())

	if _, err := svc.CheckMessageAllowance(context.Background(), "u1", domain.TierFree); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !chat.lastSince.IsZero() {
		t.Fatalf("expected a zero since for the lifetime window, got %v", chat.lastSince)
	}
}

func TestCheckMessageAllowance_PaidTierCountsCalendarMonth(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	chat := newMockChatRepo()
	svc := newTestEntitlement(newMockProfileRepo(), chat, now)

	if _, err := svc.CheckMessageAllowance(context.Background(), "u1", domain.TierPro); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	if !chat.lastSince.Equal(expected) {
		t.Fatalf("expected window start %v, got %v", expected, chat.lastSince)
	}
}

func TestCheckVoiceAccess(t *testing.T) {
	svc := newTestEntitlement(newMockProfileRepo(), newMockChatRepo(), time.Now())

	if err := svc.CheckVoiceAccess(domain.TierFree, domain.VoiceLive); err != nil {
		t.Fatalf("expected live to be open to free tier, got %v", err)
	}
	if err := svc.CheckVoiceAccess(domain.TierFree, domain.VoiceShadow); err != domain.ErrVoiceNotAllowed {
		t.Fatalf("expected shadow to be locked for free tier, got %v", err)
	}
	if err := svc.CheckVoiceAccess(domain.TierPro, domain.VoiceShadow); err != nil {
		t.Fatalf("expected shadow to be open to pro tier, got %v", err)
	}
	if err := svc.CheckVoiceAccess(domain.TierPro, domain.VoiceID("echo")); err != domain.ErrUnknownVoice {
		t.Fatalf("expected unknown voice error, got %v", err)
	}
}

func TestAllowedVoices(t *testing.T) {
	svc := newTestEntitlement(newMockProfileRepo(), newMockChatRepo(), time.Now())

	free := svc.AllowedVoices(domain.TierFree)
	if len(free) != 1 || free[0] != domain.VoiceLive {
		t.Fatalf("expected free tier to unlock only live, got %v", free)
	}

	pro := svc.AllowedVoices(domain.TierPro)
	if len(pro) != 2 {
		t.Fatalf("expected pro tier to unlock both voices, got %v", pro)
	}
}
