package domain

import "time"

// PaymentProvider identifies one of the checkout integrations.
type PaymentProvider string

const (
	ProviderStripe   PaymentProvider = "stripe"
	ProviderYooKassa PaymentProvider = "yookassa"
	ProviderCrypto   PaymentProvider = "crypto"
)

// PaidSubscriptionDays is how long one successful payment extends a
// subscription.
const PaidSubscriptionDays = 30

// CheckoutSession is the result of a "create checkout" call: a hosted page
// the client is redirected to.
type CheckoutSession struct {
	Provider    PaymentProvider `json:"provider"`
	RedirectURL string          `json:"url"`
	OrderID     string          `json:"order_id,omitempty"`
}

// PaymentNotification is the validated payload of a provider webhook/IPN
// callback reporting a successful payment.
type PaymentNotification struct {
	Provider PaymentProvider
	EventID  string
	UserID   string
	Email    string
	Plan     string
}

// PaymentEvent records a processed provider event id so at-least-once
// webhook delivery mutates entitlement exactly once.
type PaymentEvent struct {
	ID          string    `json:"id"`
	Provider    string    `json:"provider"`
	EventID     string    `json:"event_id"`
	UserID      string    `json:"user_id"`
	ProcessedAt time.Time `json:"processed_at"`
}
