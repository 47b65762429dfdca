package domain

import (
	"testing"
	"time"
)

func TestParseTier_UnknownDefaultsToFree(t *testing.T) {
	if got := ParseTier("platinum"); got != TierFree {
		t.Fatalf("expected free for unknown tier, got %s", got)
	}
	if got := ParseTier("pro"); got != TierPro {
		t.Fatalf("expected pro, got %s", got)
	}
	if got := ParseTier(""); got != TierFree {
		t.Fatalf("expected free for empty tier, got %s", got)
	}
}

func TestTierRank_Ordering(t *testing.T) {
	if !(TierFree.Rank() < TierBasic.Rank() && TierBasic.Rank() < TierPlus.Rank() && TierPlus.Rank() < TierPro.Rank()) {
		t.Fatalf("tier ranks are not strictly increasing")
	}
}

func TestEffectiveTier_ExpiryBoundary(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	at := now
	p := &Profile{SubscriptionTier: "pro", SubscriptionExpiresAt: &at}
	if got := p.EffectiveTier(now); got != TierPro {
		t.Fatalf("expected pro exactly at expiry instant, got %s", got)
	}

	past := now.Add(-time.Second)
	p.SubscriptionExpiresAt = &past
	if got := p.EffectiveTier(now); got != TierFree {
		t.Fatalf("expected free past expiry, got %s", got)
	}

	p.SubscriptionExpiresAt = nil
	if got := p.EffectiveTier(now); got != TierPro {
		t.Fatalf("expected pro with no expiry set, got %s", got)
	}
}

func TestVoiceCatalog_TierGating(t *testing.T) {
	catalog := NewVoiceCatalog(SeedVoices())

	if !catalog.Allows(TierFree, VoiceLive) {
		t.Fatalf("expected live open to free")
	}
	if catalog.Allows(TierFree, VoiceShadow) {
		t.Fatalf("expected shadow locked for free")
	}
	if !catalog.Allows(TierBasic, VoiceShadow) {
		t.Fatalf("expected shadow open to basic")
	}
	if catalog.Allows(TierPro, VoiceID("echo")) {
		t.Fatalf("expected unknown voice to be disallowed")
	}
}
