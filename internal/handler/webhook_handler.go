package handler

import (
	"io"
	"net/http"

	"edem-chat-server/internal/domain"
	"edem-chat-server/internal/service"
)

// webhookBodyLimit guards the unauthenticated endpoints against oversized
// payloads.
const webhookBodyLimit = 1 << 20

// WebhookHandler handles payment provider callbacks. These routes are
// unauthenticated; each provider's own verification gates them instead.
type WebhookHandler struct {
	paymentService *service.PaymentService
	logger         domain.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(paymentService *service.PaymentService, logger domain.Logger) *WebhookHandler {
	return &WebhookHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

// StripeWebhook handles Stripe event deliveries
func (h *WebhookHandler) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, webhookBodyLimit))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	if err := h.paymentService.HandleStripeWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
		h.logger.Warn("Stripe webhook rejected", "error", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

// YooKassaWebhook handles YooKassa payment notifications
func (h *WebhookHandler) YooKassaWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, webhookBodyLimit))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	if err := h.paymentService.HandleYooKassaWebhook(r.Context(), payload); err != nil {
		h.logger.Warn("YooKassa webhook rejected", "error", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

// CryptoIPN handles crypto gateway instant payment notifications
func (h *WebhookHandler) CryptoIPN(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, webhookBodyLimit))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	if err := h.paymentService.HandleCryptoIPN(r.Context(), payload, r.Header.Get("X-Ipn-Signature")); err != nil {
		h.logger.Warn("Crypto IPN rejected", "error", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}
