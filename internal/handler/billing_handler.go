package handler

import (
	"context"
	"net/http"

	"edem-chat-server/internal/domain"
	"edem-chat-server/internal/service"
)

// BillingHandler handles checkout creation requests
type BillingHandler struct {
	paymentService *service.PaymentService
	logger         domain.Logger
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(paymentService *service.PaymentService, logger domain.Logger) *BillingHandler {
	return &BillingHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

// CreateStripeCheckout redirects the caller to a Stripe checkout page
func (h *BillingHandler) CreateStripeCheckout(w http.ResponseWriter, r *http.Request) {
	h.createCheckout(w, r, h.paymentService.CreateStripeCheckout)
}

// CreateYooKassaCheckout redirects the caller to a YooKassa checkout page
func (h *BillingHandler) CreateYooKassaCheckout(w http.ResponseWriter, r *http.Request) {
	h.createCheckout(w, r, h.paymentService.CreateYooKassaCheckout)
}

// CreateCryptoCheckout redirects the caller to the crypto gateway
func (h *BillingHandler) CreateCryptoCheckout(w http.ResponseWriter, r *http.Request) {
	h.createCheckout(w, r, h.paymentService.CreateCryptoCheckout)
}

func (h *BillingHandler) createCheckout(
	w http.ResponseWriter,
	r *http.Request,
	create func(ctx context.Context, user *domain.SupabaseUser) (*domain.CheckoutSession, error),
) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	checkout, err := create(r.Context(), user)
	if err != nil {
		h.logger.Error("Checkout creation failed", err, "user_id", user.ID)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, checkout)
}
