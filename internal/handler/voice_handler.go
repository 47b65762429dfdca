package handler

import (
	"net/http"

	"edem-chat-server/internal/domain"
)

// VoiceHandler serves the voice catalog
type VoiceHandler struct {
	catalog     *domain.VoiceCatalog
	entitlement domain.EntitlementService
}

// NewVoiceHandler creates a new voice handler
func NewVoiceHandler(catalog *domain.VoiceCatalog, entitlement domain.EntitlementService) *VoiceHandler {
	return &VoiceHandler{
		catalog:     catalog,
		entitlement: entitlement,
	}
}

type voiceEntry struct {
	domain.Voice
	Allowed bool `json:"allowed"`
}

// ListVoices returns every catalog voice with an allowed flag for the
// caller's tier. Locked voices stay visible so the client can upsell.
func (h *VoiceHandler) ListVoices(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	tier := h.entitlement.ResolveTier(r.Context(), user.ID)

	voices := h.catalog.All()
	entries := make([]voiceEntry, 0, len(voices))
	for _, voice := range voices {
		entries = append(entries, voiceEntry{
			Voice:   voice,
			Allowed: h.catalog.Allows(tier, voice.ID),
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"voices": entries})
}
