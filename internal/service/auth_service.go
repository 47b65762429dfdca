package service

import (
	"fmt"

	"edem-chat-server/internal/domain"
)

type authService struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
}

// NewAuthService creates the auth collaborator wrapper
func NewAuthService(supabaseClient domain.SupabaseClient, logger domain.Logger) domain.AuthClient {
	return &authService{
		supabaseClient: supabaseClient,
		logger:         logger,
	}
}

// ValidateToken validates a bearer token and returns user info. Any error
// or missing identity is treated as unauthenticated by callers.
func (s *authService) ValidateToken(token string) (*domain.SupabaseUser, error) {
	user, err := s.supabaseClient.ValidateToken(token)
	if err != nil {
		s.logger.Error("Failed to validate token with Supabase", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	return user, nil
}
