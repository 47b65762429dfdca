package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"edem-chat-server/internal/domain"
)

// SupabaseProfileRepository implements the domain.ProfileRepository
// interface on top of the profiles table.
type SupabaseProfileRepository struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
}

// NewSupabaseProfileRepository creates a new Supabase profile repository
func NewSupabaseProfileRepository(supabaseClient domain.SupabaseClient, logger domain.Logger) domain.ProfileRepository {
	return &SupabaseProfileRepository{
		supabaseClient: supabaseClient,
		logger:         logger,
	}
}

// GetProfile fetches the billing profile for a user id
func (r *SupabaseProfileRepository) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	return r.getProfileBy("id", userID)
}

// GetProfileByEmail fetches a profile by email. Used as the webhook
// fallback when a provider only reports the payer's email.
func (r *SupabaseProfileRepository) GetProfileByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	return r.getProfileBy("email", email)
}

func (r *SupabaseProfileRepository) getProfileBy(column, value string) (*domain.Profile, error) {
	client := r.supabaseClient.DB()
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From("profiles").
		Select("id, email, subscription_tier, subscription_expires_at, created_at", "", false).
		Eq(column, value).
		Limit(1, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	var rows []domain.Profile
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrProfileNotFound
	}

	return &rows[0], nil
}

// UpdateSubscription sets a profile's tier and expiry
func (r *SupabaseProfileRepository) UpdateSubscription(ctx context.Context, userID string, tier domain.SubscriptionTier, expiresAt time.Time) error {
	client := r.supabaseClient.DB()
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	update := map[string]interface{}{
		"subscription_tier":       string(tier),
		"subscription_expires_at": expiresAt.UTC().Format(time.RFC3339),
	}

	_, _, err := client.From("profiles").
		Update(update, "", "").
		Eq("id", userID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}

	r.logger.Info("Subscription updated", "user_id", userID, "tier", tier, "expires_at", expiresAt.UTC())
	return nil
}
