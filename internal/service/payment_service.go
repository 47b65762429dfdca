package service

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v79"
	checkoutsession "github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/webhook"

	"edem-chat-server/internal/domain"
	apperrors "edem-chat-server/pkg/errors"
)

const yooKassaAPIBase = "https://api.yookassa.ru/v3"

// proPlanPrices is what one month of the pro tier costs per provider
// currency.
var proPlanPrices = map[domain.PaymentProvider]struct {
	Amount   string
	Currency string
}{
	domain.ProviderStripe:   {"1490", "usd"}, // cents
	domain.ProviderYooKassa: {"1490.00", "RUB"},
	domain.ProviderCrypto:   {"15.00", "USDT"},
}

// PaymentService creates provider checkout sessions and applies verified
// payment notifications to subscriptions.
type PaymentService struct {
	profileRepo domain.ProfileRepository
	eventRepo   domain.PaymentEventRepository
	config      domain.Config
	logger      domain.Logger

	httpClient *http.Client
	apiBase    string
	now        func() time.Time
}

// NewPaymentService creates a new payment service
func NewPaymentService(profileRepo domain.ProfileRepository, eventRepo domain.PaymentEventRepository, config domain.Config, logger domain.Logger) *PaymentService {
	return &PaymentService{
		profileRepo: profileRepo,
		eventRepo:   eventRepo,
		config:      config,
		logger:      logger,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		apiBase:     yooKassaAPIBase,
		now:         time.Now,
	}
}

// CreateStripeCheckout opens a hosted Stripe subscription checkout for the
// pro plan.
func (s *PaymentService) CreateStripeCheckout(ctx context.Context, user *domain.SupabaseUser) (*domain.CheckoutSession, error) {
	if s.config.GetStripeSecretKey() == "" {
		return nil, apperrors.NewInternalError("stripe is not configured", nil)
	}
	stripe.Key = s.config.GetStripeSecretKey()

	price := proPlanPrices[domain.ProviderStripe]
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(price.Currency),
					UnitAmount: stripe.Int64(1490),
					Recurring: &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
						Interval: stripe.String("month"),
					},
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("EDEM Pro"),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:    stripe.String(s.config.GetAppURL() + "/payment/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:     stripe.String(s.config.GetAppURL() + "/payment/cancel"),
		CustomerEmail: stripe.String(user.Email),
	}
	params.AddMetadata("user_id", user.ID)
	params.AddMetadata("plan", string(domain.TierPro))

	sess, err := checkoutsession.New(params)
	if err != nil {
		return nil, apperrors.NewUpstreamError("stripe checkout creation failed", err)
	}

	s.logger.Info("Stripe checkout created", "user_id", user.ID, "checkout_id", sess.ID)
	return &domain.CheckoutSession{
		Provider:    domain.ProviderStripe,
		RedirectURL: sess.URL,
		OrderID:     sess.ID,
	}, nil
}

// HandleStripeWebhook verifies the webhook signature over the raw payload
// and applies completed checkouts.
func (s *PaymentService) HandleStripeWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	event, err := webhook.ConstructEvent(payload, sigHeader, s.config.GetStripeWebhookSecret())
	if err != nil {
		return apperrors.NewUnauthorizedError("invalid webhook signature")
	}

	if event.Type != "checkout.session.completed" {
		s.logger.Debug("Ignoring stripe event", "type", string(event.Type))
		return nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return apperrors.NewValidationError("malformed checkout session payload")
	}

	email := sess.CustomerEmail
	if email == "" && sess.CustomerDetails != nil {
		email = sess.CustomerDetails.Email
	}

	return s.applyPayment(ctx, domain.PaymentNotification{
		Provider: domain.ProviderStripe,
		EventID:  event.ID,
		UserID:   sess.Metadata["user_id"],
		Email:    email,
		Plan:     sess.Metadata["plan"],
	})
}

// yooKassaPayment is the subset of YooKassa's payment object we read.
type yooKassaPayment struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	Paid         bool   `json:"paid"`
	Confirmation struct {
		ConfirmationURL string `json:"confirmation_url"`
	} `json:"confirmation"`
	Metadata map[string]string `json:"metadata"`
}

type yooKassaNotification struct {
	Event  string          `json:"event"`
	Object yooKassaPayment `json:"object"`
}

// CreateYooKassaCheckout creates a redirect-confirmation payment through
// YooKassa's REST API.
func (s *PaymentService) CreateYooKassaCheckout(ctx context.Context, user *domain.SupabaseUser) (*domain.CheckoutSession, error) {
	shopID := s.config.GetYooKassaShopID()
	secret := s.config.GetYooKassaSecretKey()
	if shopID == "" || secret == "" {
		return nil, apperrors.NewInternalError("yookassa is not configured", nil)
	}

	price := proPlanPrices[domain.ProviderYooKassa]
	body := map[string]interface{}{
		"amount": map[string]string{
			"value":    price.Amount,
			"currency": price.Currency,
		},
		"capture": true,
		"confirmation": map[string]string{
			"type":       "redirect",
			"return_url": s.config.GetAppURL() + "/payment/success",
		},
		"description": "EDEM Pro, 1 месяц",
		"metadata": map[string]string{
			"user_id": user.ID,
			"plan":    string(domain.TierPro),
		},
	}
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode payment request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiBase+"/payments", bytes.NewReader(encoded))
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build payment request", err)
	}
	req.SetBasicAuth(shopID, secret)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotence-Key", uuid.New().String())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewUpstreamError("yookassa request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, apperrors.NewUpstreamError(
			fmt.Sprintf("yookassa returned status %d", resp.StatusCode),
			fmt.Errorf("%s", string(data)),
		)
	}

	var payment yooKassaPayment
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return nil, apperrors.NewUpstreamError("failed to decode yookassa response", err)
	}

	s.logger.Info("YooKassa payment created", "user_id", user.ID, "payment_id", payment.ID)
	return &domain.CheckoutSession{
		Provider:    domain.ProviderYooKassa,
		RedirectURL: payment.Confirmation.ConfirmationURL,
		OrderID:     payment.ID,
	}, nil
}

// HandleYooKassaWebhook applies a payment.succeeded notification. YooKassa
// does not sign webhook bodies, so the payment is re-fetched from the API
// and trusted only if the API confirms it as paid.
func (s *PaymentService) HandleYooKassaWebhook(ctx context.Context, payload []byte) error {
	var note yooKassaNotification
	if err := json.Unmarshal(payload, &note); err != nil {
		return apperrors.NewValidationError("malformed notification payload")
	}
	if note.Event != "payment.succeeded" {
		s.logger.Debug("Ignoring yookassa event", "event", note.Event)
		return nil
	}
	if note.Object.ID == "" {
		return apperrors.NewValidationError("notification is missing a payment id")
	}

	payment, err := s.fetchYooKassaPayment(ctx, note.Object.ID)
	if err != nil {
		return err
	}
	if payment.Status != "succeeded" || !payment.Paid {
		return apperrors.NewUnauthorizedError("payment is not confirmed as paid")
	}

	return s.applyPayment(ctx, domain.PaymentNotification{
		Provider: domain.ProviderYooKassa,
		EventID:  payment.ID,
		UserID:   payment.Metadata["user_id"],
		Plan:     payment.Metadata["plan"],
	})
}

func (s *PaymentService) fetchYooKassaPayment(ctx context.Context, paymentID string) (*yooKassaPayment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiBase+"/payments/"+url.PathEscape(paymentID), nil)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build payment lookup", err)
	}
	req.SetBasicAuth(s.config.GetYooKassaShopID(), s.config.GetYooKassaSecretKey())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewUpstreamError("yookassa lookup failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewUpstreamError(fmt.Sprintf("yookassa lookup returned status %d", resp.StatusCode), nil)
	}

	var payment yooKassaPayment
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return nil, apperrors.NewUpstreamError("failed to decode yookassa payment", err)
	}
	return &payment, nil
}

// cryptoIPN is the gateway's instant payment notification body.
type cryptoIPN struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	UserID  string `json:"user_id"`
	Plan    string `json:"plan"`
}

// CreateCryptoCheckout builds a payment link for the crypto gateway with a
// fresh order id carrying the user identity back through the IPN.
func (s *PaymentService) CreateCryptoCheckout(ctx context.Context, user *domain.SupabaseUser) (*domain.CheckoutSession, error) {
	gateway := s.config.GetCryptoGatewayURL()
	if gateway == "" {
		return nil, apperrors.NewInternalError("crypto gateway is not configured", nil)
	}

	orderID := uuid.New().String()
	price := proPlanPrices[domain.ProviderCrypto]

	q := url.Values{}
	q.Set("order_id", orderID)
	q.Set("amount", price.Amount)
	q.Set("currency", price.Currency)
	q.Set("user_id", user.ID)
	q.Set("plan", string(domain.TierPro))
	q.Set("success_url", s.config.GetAppURL()+"/payment/success")

	s.logger.Info("Crypto checkout created", "user_id", user.ID, "order_id", orderID)
	return &domain.CheckoutSession{
		Provider:    domain.ProviderCrypto,
		RedirectURL: gateway + "?" + q.Encode(),
		OrderID:     orderID,
	}, nil
}

// HandleCryptoIPN verifies the HMAC signature over the raw body before
// parsing it, then applies completed payments.
func (s *PaymentService) HandleCryptoIPN(ctx context.Context, payload []byte, signature string) error {
	secret := s.config.GetCryptoIPNSecret()
	if secret == "" {
		return apperrors.NewInternalError("crypto gateway is not configured", nil)
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return apperrors.NewUnauthorizedError("invalid IPN signature")
	}

	var ipn cryptoIPN
	if err := json.Unmarshal(payload, &ipn); err != nil {
		return apperrors.NewValidationError("malformed IPN payload")
	}
	if ipn.Status != "completed" && ipn.Status != "confirmed" {
		s.logger.Debug("Ignoring crypto IPN", "order_id", ipn.OrderID, "status", ipn.Status)
		return nil
	}
	if ipn.OrderID == "" {
		return apperrors.NewValidationError("IPN is missing an order id")
	}

	return s.applyPayment(ctx, domain.PaymentNotification{
		Provider: domain.ProviderCrypto,
		EventID:  ipn.OrderID,
		UserID:   ipn.UserID,
		Plan:     ipn.Plan,
	})
}

// applyPayment records the provider event id and, when it is new, grants
// the paid tier for thirty days. A duplicate event id is acknowledged
// without touching the subscription.
func (s *PaymentService) applyPayment(ctx context.Context, note domain.PaymentNotification) error {
	userID := note.UserID
	if userID == "" && note.Email != "" {
		profile, err := s.profileRepo.GetProfileByEmail(ctx, note.Email)
		if err != nil {
			return apperrors.NewNotFoundError("no profile matches the payment")
		}
		userID = profile.ID
	}
	if userID == "" {
		return apperrors.NewValidationError("payment carries no user identity")
	}

	event := &domain.PaymentEvent{
		Provider:    string(note.Provider),
		EventID:     note.EventID,
		UserID:      userID,
		ProcessedAt: s.now().UTC(),
	}
	if err := s.eventRepo.Record(ctx, event); err != nil {
		if err == domain.ErrDuplicateEvent {
			s.logger.Info("Duplicate payment event acknowledged", "provider", string(note.Provider), "event_id", note.EventID)
			return nil
		}
		return apperrors.NewInternalError("failed to record payment event", err)
	}

	tier := domain.ParseTier(note.Plan)
	if tier == domain.TierFree {
		tier = domain.TierPro
	}
	expiresAt := s.now().UTC().Add(domain.PaidSubscriptionDays * 24 * time.Hour)
	if err := s.profileRepo.UpdateSubscription(ctx, userID, tier, expiresAt); err != nil {
		return apperrors.NewInternalError("failed to update subscription", err)
	}

	s.logger.Info("Subscription activated",
		"user_id", userID,
		"provider", string(note.Provider),
		"tier", string(tier),
		"expires_at", expiresAt.Format(time.RFC3339),
	)
	return nil
}
