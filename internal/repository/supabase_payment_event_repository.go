package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"edem-chat-server/internal/domain"
)

// SupabasePaymentEventRepository implements domain.PaymentEventRepository
// on top of the payment_events table, which carries a unique constraint on
// (provider, event_id).
type SupabasePaymentEventRepository struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
}

// NewSupabasePaymentEventRepository creates a new payment event repository
func NewSupabasePaymentEventRepository(supabaseClient domain.SupabaseClient, logger domain.Logger) domain.PaymentEventRepository {
	return &SupabasePaymentEventRepository{
		supabaseClient: supabaseClient,
		logger:         logger,
	}
}

// Record inserts the processed event id. Payment providers deliver
// webhooks at least once; the unique constraint turns a redelivery into
// ErrDuplicateEvent before any entitlement mutation happens.
func (r *SupabasePaymentEventRepository) Record(ctx context.Context, event *domain.PaymentEvent) error {
	client := r.supabaseClient.DB()
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	row := map[string]interface{}{
		"provider":     event.Provider,
		"event_id":     event.EventID,
		"user_id":      event.UserID,
		"processed_at": time.Now().UTC().Format(time.RFC3339),
	}

	_, _, err := client.From("payment_events").
		Insert(row, false, "", "minimal", "").
		Execute()
	if err != nil {
		// 23505 is the postgres unique violation code surfaced by PostgREST.
		if strings.Contains(err.Error(), "23505") || strings.Contains(strings.ToLower(err.Error()), "duplicate") {
			return domain.ErrDuplicateEvent
		}
		return fmt.Errorf("failed to record payment event: %w", err)
	}

	return nil
}
