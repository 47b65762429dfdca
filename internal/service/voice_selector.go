package service

import (
	"edem-chat-server/internal/domain"
)

// VoiceSelector picks the prompt variant for a turn. Selection never
// consults entitlement; the caller validates the chosen voice against the
// user's tier afterwards and rejects rather than downgrading.
type VoiceSelector struct {
	catalog *domain.VoiceCatalog
}

// NewVoiceSelector creates a selector over the voice catalog.
func NewVoiceSelector(catalog *domain.VoiceCatalog) *VoiceSelector {
	return &VoiceSelector{catalog: catalog}
}

// Select returns the voice for this turn. An explicit caller choice always
// wins. Otherwise aggression or a need for challenge routes to the
// confrontational voice, then the previous voice sticks, then the baseline.
func (s *VoiceSelector) Select(analysis domain.MessageAnalysis, previous, explicit domain.VoiceID) domain.VoiceID {
	if explicit != "" {
		return explicit
	}

	if analysis.NeedsChallenge || analysis.Tone == domain.ToneAggressive {
		return domain.VoiceShadow
	}

	if previous != "" {
		return previous
	}
	return domain.VoiceLive
}
