package domain

import "errors"

// Domain errors
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrQuotaExhausted  = errors.New("message quota exhausted")
	ErrVoiceNotAllowed = errors.New("voice not available on current tier")
	ErrUnknownVoice    = errors.New("unknown voice")
	ErrDuplicateEvent  = errors.New("payment event already processed")
	ErrUserNotFound    = errors.New("user not found")
)
