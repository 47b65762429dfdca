package domain

import "time"

// SupabaseUser represents an authenticated user from Supabase Auth
type SupabaseUser struct {
	ID           string
	Email        string
	UserMetadata map[string]interface{}
	CreatedAt    string
	UpdatedAt    string
}

// Profile represents a user's billing profile row
type Profile struct {
	ID                    string     `json:"id"`
	Email                 string     `json:"email"`
	SubscriptionTier      string     `json:"subscription_tier"`
	SubscriptionExpiresAt *time.Time `json:"subscription_expires_at"`
	CreatedAt             time.Time  `json:"created_at"`
}

// EffectiveTier resolves the tier the profile is currently entitled to.
// A paid tier past its expiry counts as free.
func (p *Profile) EffectiveTier(now time.Time) SubscriptionTier {
	tier := ParseTier(p.SubscriptionTier)
	if tier == TierFree {
		return TierFree
	}
	if p.SubscriptionExpiresAt != nil && now.After(*p.SubscriptionExpiresAt) {
		return TierFree
	}
	return tier
}
