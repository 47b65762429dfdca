package handler

import (
	"net/http"
	"time"

	"edem-chat-server/internal/domain"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	profileRepo domain.ProfileRepository
	entitlement domain.EntitlementService
	logger      domain.Logger
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(profileRepo domain.ProfileRepository, entitlement domain.EntitlementService, logger domain.Logger) *AuthHandler {
	return &AuthHandler{
		profileRepo: profileRepo,
		entitlement: entitlement,
		logger:      logger,
	}
}

type profileResponse struct {
	ID        string                  `json:"id"`
	Email     string                  `json:"email"`
	Tier      domain.SubscriptionTier `json:"tier"`
	ExpiresAt *time.Time              `json:"expires_at,omitempty"`
	Voices    []domain.VoiceID        `json:"voices"`
	Quota     *domain.QuotaUsage      `json:"quota,omitempty"`
}

// GetProfile returns the caller's identity, effective tier and remaining
// quota in one call so the client can render its paywall state.
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	tier := h.entitlement.ResolveTier(r.Context(), user.ID)

	resp := profileResponse{
		ID:     user.ID,
		Email:  user.Email,
		Tier:   tier,
		Voices: h.entitlement.AllowedVoices(tier),
	}

	if profile, err := h.profileRepo.GetProfile(r.Context(), user.ID); err == nil {
		resp.ExpiresAt = profile.SubscriptionExpiresAt
	}

	// Quota exhaustion is part of the answer here, not an error.
	usage, err := h.entitlement.CheckMessageAllowance(r.Context(), user.ID, tier)
	if err != nil && err != domain.ErrQuotaExhausted {
		h.logger.Warn("Failed to compute quota usage", "user_id", user.ID, "error", err)
	}
	resp.Quota = usage

	writeJSON(w, http.StatusOK, resp)
}
