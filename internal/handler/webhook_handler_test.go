package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"edem-chat-server/internal/domain"
	"edem-chat-server/internal/service"
)

type handlerMockEventRepo struct {
	seen map[string]bool
}

func (m *handlerMockEventRepo) Record(ctx context.Context, event *domain.PaymentEvent) error {
	if m.seen == nil {
		m.seen = make(map[string]bool)
	}
	key := event.Provider + "/" + event.EventID
	if m.seen[key] {
		return domain.ErrDuplicateEvent
	}
	m.seen[key] = true
	return nil
}

type webhookTestConfig struct{}

func (c *webhookTestConfig) GetServerPort() string          { return "8080" }
func (c *webhookTestConfig) GetLogLevel() string            { return "info" }
func (c *webhookTestConfig) GetAppURL() string              { return "http://localhost:3000" }
func (c *webhookTestConfig) GetSupabaseURL() string         { return "" }
func (c *webhookTestConfig) GetSupabaseAnonKey() string     { return "" }
func (c *webhookTestConfig) GetSupabaseServiceKey() string  { return "" }
func (c *webhookTestConfig) GetVertexProjectID() string     { return "" }
func (c *webhookTestConfig) GetVertexLocation() string      { return "" }
func (c *webhookTestConfig) GetVertexModel() string         { return "" }
func (c *webhookTestConfig) GetStripeSecretKey() string     { return "" }
func (c *webhookTestConfig) GetStripeWebhookSecret() string { return "whsec_test" }
func (c *webhookTestConfig) GetYooKassaShopID() string      { return "" }
func (c *webhookTestConfig) GetYooKassaSecretKey() string   { return "" }
func (c *webhookTestConfig) GetCryptoIPNSecret() string     { return "topsecret" }
func (c *webhookTestConfig) GetCryptoGatewayURL() string    { return "" }

func TestCryptoIPN_BadSignatureReturns401(t *testing.T) {
	logger := NewMockHandlerLogger()
	paymentService := service.NewPaymentService(&handlerMockProfileRepo{}, &handlerMockEventRepo{}, &webhookTestConfig{}, logger)
	h := NewWebhookHandler(paymentService, logger)

	body := `{"order_id":"o1","status":"completed","user_id":"u1"}`
	req := httptest.NewRequest(http.MethodPost, "/webhooks/crypto", strings.NewReader(body))
	req.Header.Set("X-Ipn-Signature", "deadbeef")
	rr := httptest.NewRecorder()

	h.CryptoIPN(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d: %s", http.StatusUnauthorized, rr.Code, rr.Body.String())
	}
}

func TestStripeWebhook_BadSignatureReturns401(t *testing.T) {
	logger := NewMockHandlerLogger()
	paymentService := service.NewPaymentService(&handlerMockProfileRepo{}, &handlerMockEventRepo{}, &webhookTestConfig{}, logger)
	h := NewWebhookHandler(paymentService, logger)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader(`{"id":"evt_1"}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=bogus")
	rr := httptest.NewRecorder()

	h.StripeWebhook(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d: %s", http.StatusUnauthorized, rr.Code, rr.Body.String())
	}
}
