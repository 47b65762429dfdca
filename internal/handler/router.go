package handler

import (
	"net/http"

	"edem-chat-server/internal/config"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(container *config.Container) http.Handler {
	router := mux.NewRouter()

	// API prefix
	api := router.PathPrefix("/api/v1").Subrouter()

	// Health check endpoint (no auth required)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"edem-chat-server"}`))
	}).Methods("GET")

	// Initialize handlers
	authHandler := NewAuthHandler(container.ProfileRepository, container.EntitlementService, container.Logger)
	voiceHandler := NewVoiceHandler(container.VoiceCatalog, container.EntitlementService)
	sessionHandler := NewSessionHandler(container.ChatService, container.Logger)
	chatHandler := NewChatHandler(container.ChatService, container.Logger)
	billingHandler := NewBillingHandler(container.PaymentService, container.Logger)
	webhookHandler := NewWebhookHandler(container.PaymentService, container.Logger)

	// Provider callbacks carry their own verification, never a user token
	router.HandleFunc("/webhooks/stripe", webhookHandler.StripeWebhook).Methods("POST")
	router.HandleFunc("/webhooks/yookassa", webhookHandler.YooKassaWebhook).Methods("POST")
	router.HandleFunc("/webhooks/crypto", webhookHandler.CryptoIPN).Methods("POST")

	// Auth middleware for protected routes
	authMiddleware := NewAuthMiddleware(container.AuthService, container.Logger)

	// Protected routes (require authentication)
	protected := api.PathPrefix("").Subrouter()
	protected.Use(authMiddleware.Middleware)

	// Auth routes (protected)
	protected.HandleFunc("/auth/profile", authHandler.GetProfile).Methods("GET")

	// Voice routes (protected)
	protected.HandleFunc("/voices", voiceHandler.ListVoices).Methods("GET")

	// Session routes (protected)
	protected.HandleFunc("/sessions", sessionHandler.ListSessions).Methods("GET")
	protected.HandleFunc("/sessions", sessionHandler.CreateSession).Methods("POST")
	protected.HandleFunc("/sessions/{id}/messages", sessionHandler.GetMessages).Methods("GET")

	// Chat routes (protected)
	protected.HandleFunc("/chat", chatHandler.Chat).Methods("POST")
	protected.HandleFunc("/chat/stream", chatHandler.ChatStream).Methods("POST")

	// Billing routes (protected)
	protected.HandleFunc("/billing/stripe/checkout", billingHandler.CreateStripeCheckout).Methods("POST")
	protected.HandleFunc("/billing/yookassa/checkout", billingHandler.CreateYooKassaCheckout).Methods("POST")
	protected.HandleFunc("/billing/crypto/checkout", billingHandler.CreateCryptoCheckout).Methods("POST")

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:3000", // Next.js dev server
			"http://localhost:5173",
			container.Config.GetAppURL(),
		},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
		},
		AllowCredentials: true,
		MaxAge:           300,
	})

	return c.Handler(router)
}
