package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"edem-chat-server/internal/domain"
	apperrors "edem-chat-server/pkg/errors"
)

type mockConfig struct {
	appURL        string
	stripeSecret  string
	stripeWebhook string
	ykShopID      string
	ykSecret      string
	cryptoSecret  string
	cryptoGateway string
}

func (c *mockConfig) GetServerPort() string          { return "8080" }
func (c *mockConfig) GetLogLevel() string            { return "info" }
func (c *mockConfig) GetAppURL() string              { return c.appURL }
func (c *mockConfig) GetSupabaseURL() string         { return "" }
func (c *mockConfig) GetSupabaseAnonKey() string     { return "" }
func (c *mockConfig) GetSupabaseServiceKey() string  { return "" }
func (c *mockConfig) GetVertexProjectID() string     { return "" }
func (c *mockConfig) GetVertexLocation() string      { return "" }
func (c *mockConfig) GetVertexModel() string         { return "" }
func (c *mockConfig) GetStripeSecretKey() string     { return c.stripeSecret }
func (c *mockConfig) GetStripeWebhookSecret() string { return c.stripeWebhook }
func (c *mockConfig) GetYooKassaShopID() string      { return c.ykShopID }
func (c *mockConfig) GetYooKassaSecretKey() string   { return c.ykSecret }
func (c *mockConfig) GetCryptoIPNSecret() string     { return c.cryptoSecret }
func (c *mockConfig) GetCryptoGatewayURL() string    { return c.cryptoGateway }

func newTestPaymentService(profiles *mockProfileRepo, events *mockEventRepo, cfg *mockConfig) *PaymentService {
	svc := NewPaymentService(profiles, events, cfg, NewMockServiceLogger())
	svc.now = func() time.Time { return time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC) }
	return svc
}

func signIPN(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestHandleCryptoIPN_InvalidSignatureRejectedBeforeMutation(t *testing.T) {
	profiles := newMockProfileRepo()
	events := newMockEventRepo()
	svc := newTestPaymentService(profiles, events, &mockConfig{cryptoSecret: "topsecret"})

	payload := []byte(`{"order_id":"o1","status":"completed","user_id":"u1","plan":"pro"}`)

	err := svc.HandleCryptoIPN(context.Background(), payload, "deadbeef")

	if !apperrors.IsType(err, apperrors.ErrorTypeUnauthorized) {
		t.Fatalf("expected unauthorized for a bad signature, got %v", err)
	}
	if profiles.updates != 0 {
		t.Fatalf("expected no subscription mutation on a rejected IPN")
	}
	if len(events.seen) != 0 {
		t.Fatalf("expected no event recorded on a rejected IPN")
	}
}

func TestHandleCryptoIPN_ValidSignatureActivatesSubscription(t *testing.T) {
	profiles := newMockProfileRepo()
	events := newMockEventRepo()
	svc := newTestPaymentService(profiles, events, &mockConfig{cryptoSecret: "topsecret"})

	payload := []byte(`{"order_id":"o1","status":"completed","user_id":"u1","plan":"pro"}`)

	if err := svc.HandleCryptoIPN(context.Background(), payload, signIPN("topsecret", payload)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if profiles.updates != 1 {
		t.Fatalf("expected one subscription update, got %d", profiles.updates)
	}
	if profiles.lastUserID != "u1" || profiles.lastTier != domain.TierPro {
		t.Fatalf("unexpected subscription update: user=%s tier=%s", profiles.lastUserID, profiles.lastTier)
	}

	wantExpiry := time.Date(2026, 9, 14, 12, 0, 0, 0, time.UTC)
	if !profiles.lastExpiresAt.Equal(wantExpiry) {
		t.Fatalf("expected expiry %v, got %v", wantExpiry, profiles.lastExpiresAt)
	}
}

func TestHandleCryptoIPN_DuplicateEventIsAcknowledgedOnce(t *testing.T) {
	profiles := newMockProfileRepo()
	events := newMockEventRepo()
	svc := newTestPaymentService(profiles, events, &mockConfig{cryptoSecret: "topsecret"})

	payload := []byte(`{"order_id":"o1","status":"completed","user_id":"u1","plan":"pro"}`)
	sig := signIPN("topsecret", payload)

	if err := svc.HandleCryptoIPN(context.Background(), payload, sig); err != nil {
		t.Fatalf("unexpected error on first delivery: %v", err)
	}
	if err := svc.HandleCryptoIPN(context.Background(), payload, sig); err != nil {
		t.Fatalf("expected duplicate delivery to be acknowledged, got %v", err)
	}

	if profiles.updates != 1 {
		t.Fatalf("expected exactly one subscription update across deliveries, got %d", profiles.updates)
	}
}

func TestHandleCryptoIPN_PendingStatusIgnored(t *testing.T) {
	profiles := newMockProfileRepo()
	events := newMockEventRepo()
	svc := newTestPaymentService(profiles, events, &mockConfig{cryptoSecret: "topsecret"})

	payload := []byte(`{"order_id":"o1","status":"pending","user_id":"u1","plan":"pro"}`)

	if err := svc.HandleCryptoIPN(context.Background(), payload, signIPN("topsecret", payload)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profiles.updates != 0 {
		t.Fatalf("expected no subscription update for a pending payment")
	}
}

func TestCreateCryptoCheckout_BuildsGatewayLink(t *testing.T) {
	svc := newTestPaymentService(newMockProfileRepo(), newMockEventRepo(), &mockConfig{
		cryptoSecret:  "topsecret",
		cryptoGateway: "https://pay.example.com/checkout",
		appURL:        "https://edem.example.com",
	})

	checkout, err := svc.CreateCryptoCheckout(context.Background(), &domain.SupabaseUser{ID: "u1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if checkout.OrderID == "" {
		t.Fatalf("expected a generated order id")
	}
	if checkout.Provider != domain.ProviderCrypto {
		t.Fatalf("unexpected provider %s", checkout.Provider)
	}
}

func TestHandleYooKassaWebhook_VerifiesAgainstAPI(t *testing.T) {
	profiles := newMockProfileRepo()
	events := newMockEventRepo()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/payments/p1" {
			t.Fatalf("unexpected lookup path %s", r.URL.Path)
		}
		if _, _, ok := r.BasicAuth(); !ok {
			t.Fatalf("expected basic auth on the lookup")
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"p1","status":"succeeded","paid":true,"metadata":{"user_id":"u1","plan":"pro"}}`)
	}))
	defer api.Close()

	svc := newTestPaymentService(profiles, events, &mockConfig{ykShopID: "shop", ykSecret: "key"})
	svc.apiBase = api.URL
	svc.httpClient = api.Client()

	payload := []byte(`{"event":"payment.succeeded","object":{"id":"p1"}}`)
	if err := svc.HandleYooKassaWebhook(context.Background(), payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if profiles.updates != 1 || profiles.lastUserID != "u1" {
		t.Fatalf("expected subscription update for u1, got %d updates for %q", profiles.updates, profiles.lastUserID)
	}
}

func TestHandleYooKassaWebhook_UnpaidPaymentRejected(t *testing.T) {
	profiles := newMockProfileRepo()
	events := newMockEventRepo()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"p1","status":"pending","paid":false,"metadata":{"user_id":"u1"}}`)
	}))
	defer api.Close()

	svc := newTestPaymentService(profiles, events, &mockConfig{ykShopID: "shop", ykSecret: "key"})
	svc.apiBase = api.URL
	svc.httpClient = api.Client()

	payload := []byte(`{"event":"payment.succeeded","object":{"id":"p1"}}`)
	err := svc.HandleYooKassaWebhook(context.Background(), payload)

	if !apperrors.IsType(err, apperrors.ErrorTypeUnauthorized) {
		t.Fatalf("expected rejection when the API does not confirm payment, got %v", err)
	}
	if profiles.updates != 0 {
		t.Fatalf("expected no subscription mutation")
	}
}

func TestHandleYooKassaWebhook_OtherEventsIgnored(t *testing.T) {
	profiles := newMockProfileRepo()
	svc := newTestPaymentService(profiles, newMockEventRepo(), &mockConfig{ykShopID: "shop", ykSecret: "key"})

	payload := []byte(`{"event":"payment.canceled","object":{"id":"p1"}}`)
	if err := svc.HandleYooKassaWebhook(context.Background(), payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profiles.updates != 0 {
		t.Fatalf("expected no subscription update for a canceled payment")
	}
}

func TestApplyPayment_ResolvesUserByEmail(t *testing.T) {
	profiles := newMockProfileRepo()
	profiles.byEmail["pay@example.com"] = &domain.Profile{ID: "u9", Email: "pay@example.com"}
	events := newMockEventRepo()
	svc := newTestPaymentService(profiles, events, &mockConfig{})

	err := svc.applyPayment(context.Background(), domain.PaymentNotification{
		Provider: domain.ProviderStripe,
		EventID:  "evt_1",
		Email:    "pay@example.com",
		Plan:     "pro",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if profiles.lastUserID != "u9" {
		t.Fatalf("expected payment applied to u9, got %q", profiles.lastUserID)
	}
}

func TestApplyPayment_NoIdentityRejected(t *testing.T) {
	profiles := newMockProfileRepo()
	svc := newTestPaymentService(profiles, newMockEventRepo(), &mockConfig{})

	err := svc.applyPayment(context.Background(), domain.PaymentNotification{
		Provider: domain.ProviderCrypto,
		EventID:  "o2",
	})

	if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if profiles.updates != 0 {
		t.Fatalf("expected no subscription mutation")
	}
}
