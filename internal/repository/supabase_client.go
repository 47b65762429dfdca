package repository

import (
	"fmt"

	"edem-chat-server/internal/domain"

	"github.com/supabase-community/supabase-go"
)

// SupabaseClient implements the domain.SupabaseClient interface. It holds
// two clients: the anon-key client for GoTrue token validation and the
// service-role client repositories read and write through.
type SupabaseClient struct {
	authClient *supabase.Client
	dbClient   *supabase.Client
	config     domain.Config
	logger     domain.Logger
}

// NewSupabaseClient creates a new Supabase client instance
func NewSupabaseClient(config domain.Config, logger domain.Logger) domain.SupabaseClient {
	return &SupabaseClient{
		config: config,
		logger: logger,
	}
}

// Initialize establishes connections to Supabase
func (s *SupabaseClient) Initialize() error {
	supabaseURL := s.config.GetSupabaseURL()
	anonKey := s.config.GetSupabaseAnonKey()
	serviceKey := s.config.GetSupabaseServiceKey()

	if supabaseURL == "" || anonKey == "" || serviceKey == "" {
		return fmt.Errorf("supabase URL, anon key and service key must be provided")
	}

	authClient, err := supabase.NewClient(supabaseURL, anonKey, &supabase.ClientOptions{})
	if err != nil {
		return fmt.Errorf("failed to create Supabase auth client: %w", err)
	}

	dbClient, err := supabase.NewClient(supabaseURL, serviceKey, &supabase.ClientOptions{})
	if err != nil {
		return fmt.Errorf("failed to create Supabase service client: %w", err)
	}

	s.authClient = authClient
	s.dbClient = dbClient
	s.logger.Info("Supabase clients initialized successfully", "url", supabaseURL)
	return nil
}

// DB returns the service-role client for repository use
func (s *SupabaseClient) DB() *supabase.Client {
	return s.dbClient
}

// ValidateToken validates a Supabase JWT token and returns user info.
// User tokens must be checked with the anon client; the service-role key
// bypasses RLS and is not valid for GoTrue user lookups.
func (s *SupabaseClient) ValidateToken(token string) (*domain.SupabaseUser, error) {
	if s.authClient == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	user, err := s.authClient.Auth.WithToken(token).GetUser()
	if err != nil {
		s.logger.Error("Failed to validate token with Supabase", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	domainUser := &domain.SupabaseUser{
		ID:           user.ID.String(),
		Email:        user.Email,
		UserMetadata: user.UserMetadata,
		CreatedAt:    user.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:    user.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}

	return domainUser, nil
}
