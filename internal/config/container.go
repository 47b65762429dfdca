package config

import (
	"context"

	"edem-chat-server/internal/domain"
	"edem-chat-server/internal/repository"
	"edem-chat-server/internal/service"
	"edem-chat-server/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config         domain.Config
	Logger         domain.Logger
	SupabaseClient domain.SupabaseClient

	ProfileRepository      domain.ProfileRepository
	ChatRepository         domain.ChatRepository
	PaymentEventRepository domain.PaymentEventRepository

	VoiceCatalog *domain.VoiceCatalog
	AIClient     domain.AIClient

	AuthService        domain.AuthClient
	EntitlementService domain.EntitlementService
	ChatService        *service.ChatService
	PaymentService     *service.PaymentService
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	config := NewConfig()
	appLogger := logger.NewLogger(config.GetLogLevel())

	// Initialize Supabase client
	supabaseClient := repository.NewSupabaseClient(config, appLogger)
	if err := supabaseClient.Initialize(); err != nil {
		appLogger.Error("Failed to initialize Supabase client", err)
	}

	// Initialize repositories
	profileRepo := repository.NewSupabaseProfileRepository(supabaseClient, appLogger)
	chatRepo := repository.NewSupabaseChatRepository(supabaseClient, appLogger)
	eventRepo := repository.NewSupabasePaymentEventRepository(supabaseClient, appLogger)

	catalog := domain.NewVoiceCatalog(domain.SeedVoices())

	// The model collaborator is optional at boot so the rest of the API
	// stays up without GCP credentials.
	var aiClient domain.AIClient
	if config.GetVertexProjectID() != "" {
		client, err := repository.NewVertexAIClient(
			context.Background(),
			config.GetVertexProjectID(),
			config.GetVertexLocation(),
			config.GetVertexModel(),
			appLogger,
		)
		if err != nil {
			appLogger.Error("Failed to initialize Vertex AI client", err)
		} else {
			aiClient = client
		}
	} else {
		appLogger.Warn("VERTEX_PROJECT_ID is not set, chat turns will fail")
	}

	// Initialize services
	authService := service.NewAuthService(supabaseClient, appLogger)
	entitlement := service.NewEntitlementService(profileRepo, chatRepo, catalog, appLogger)
	chatService := service.NewChatService(
		chatRepo,
		entitlement,
		service.NewLanguageDetector(),
		service.NewEmotionClassifier(),
		service.NewVoiceSelector(catalog),
		service.NewPromptComposer(),
		aiClient,
		catalog,
		appLogger,
	)
	paymentService := service.NewPaymentService(profileRepo, eventRepo, config, appLogger)

	return &Container{
		Config:                 config,
		Logger:                 appLogger,
		SupabaseClient:         supabaseClient,
		ProfileRepository:      profileRepo,
		ChatRepository:         chatRepo,
		PaymentEventRepository: eventRepo,
		VoiceCatalog:           catalog,
		AIClient:               aiClient,
		AuthService:            authService,
		EntitlementService:     entitlement,
		ChatService:            chatService,
		PaymentService:         paymentService,
	}
}

// GetConfig returns the configuration instance
func (c *Container) GetConfig() domain.Config {
	return c.Config
}

// GetLogger returns the logger instance
func (c *Container) GetLogger() domain.Logger {
	return c.Logger
}

// GetSupabaseClient returns the Supabase client instance
func (c *Container) GetSupabaseClient() domain.SupabaseClient {
	return c.SupabaseClient
}
