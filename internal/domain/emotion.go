package domain

// EmotionState is a coarse classification of the user's state, recomputed
// per message and never persisted.
type EmotionState string

const (
	EmotionTired   EmotionState = "tired"
	EmotionAnxious EmotionState = "anxious"
	EmotionLost    EmotionState = "lost"
	EmotionAngry   EmotionState = "angry"
	EmotionNeutral EmotionState = "neutral"
)

// Tone is the coarser mood read used by voice selection.
type Tone string

const (
	ToneAggressive  Tone = "aggressive"
	ToneSad         Tone = "sad"
	ToneLost        Tone = "lost"
	ToneQuestioning Tone = "questioning"
	ToneCalm        Tone = "calm"
	ToneNeutral     Tone = "neutral"
)

// MessageLength buckets a message by word count.
type MessageLength string

const (
	LengthShort  MessageLength = "short"
	LengthMedium MessageLength = "medium"
	LengthLong   MessageLength = "long"
)

// MessageAnalysis is the structured read of one user message. It only
// feeds voice selection, not the five emotion buckets.
type MessageAnalysis struct {
	Tone             Tone
	EmotionalMarkers []string
	HasQuestions     bool
	Length           MessageLength
	SelfDoubt        bool
	NeedsClarity     bool
	NeedsComfort     bool
	NeedsChallenge   bool
}
