package service

import (
	"strings"

	"edem-chat-server/internal/domain"
)

// emotionRule is one ordered bucket of the classifier: the first bucket
// whose keyword matches wins, categories are never combined or scored.
type emotionRule struct {
	state    domain.EmotionState
	keywords []string
}

// KeywordEmotionClassifier implements domain.EmotionClassifier over fixed
// keyword tables, evaluated in strict priority order
// tired > anxious > lost > angry, with neutral as the fallback.
type KeywordEmotionClassifier struct {
	rules []emotionRule
}

// NewEmotionClassifier builds the classifier with the shipped tables.
func NewEmotionClassifier() *KeywordEmotionClassifier {
	return &KeywordEmotionClassifier{rules: defaultEmotionRules()}
}

// Classify maps a message to exactly one emotional state.
func (c *KeywordEmotionClassifier) Classify(message string) domain.EmotionState {
	m := strings.ToLower(message)
	for _, rule := range c.rules {
		for _, kw := range rule.keywords {
			if strings.Contains(m, kw) {
				return rule.state
			}
		}
	}
	return domain.EmotionNeutral
}

func defaultEmotionRules() []emotionRule {
	return []emotionRule{
		{
			state: domain.EmotionTired,
			keywords: []string{
				"не хочу", "устал", "устала", "устало", "устали", "ляжу", "сил нет",
				"заебал", "выгорел", "выгорела", "выгорели",
				"tired", "exhausted", "burned out", "burnt out", "no energy", "drained",
			},
		},
		{
			state: domain.EmotionAnxious,
			keywords: []string{
				"боюсь", "тревога", "тревожно", "паника", "страшно", "беспокоюсь",
				"волнуюсь", "нервничаю",
				"anxious", "panic", "scared", "afraid", "worried", "nervous",
			},
		},
		{
			state: domain.EmotionLost,
			keywords: []string{
				"не знаю", "пусто", "ничего не чувствую", "потерялся", "потерялась",
				"запутался", "запуталась", "не понимаю",
				"feel lost", "i'm lost", "am lost", "confused",
				"don't know", "dont know", "don't understand", "dont understand",
			},
		},
		{
			state: domain.EmotionAngry,
			keywords: []string{
				"блядь", "нахуй", "сука", "ебан", "выбесило", "злюсь", "злишься",
				"злится", "бесит", "ненавижу",
				"angry", "furious", "hate", "pissed", "rage",
			},
		},
	}
}

// Marker tables for the structured analysis. These feed voice selection
// only, not the five-state classification above.
var (
	aggressiveMarkers = []string{"заебало", "заебал", "бесит", "ненавижу", "хуйня", "дерьмо", "fuck", "hate", "angry", "furious"}
	sadMarkers        = []string{"грустно", "плохо", "устал", "устала", "устало", "depressed", "sad", "tired", "exhausted", "hopeless"}
	lostMarkers       = []string{"не знаю", "не понимаю", "запутался", "запуталась", "потерян", "lost", "confused", "don't know", "don't understand"}
	questionMarkers   = []string{"?", "почему", "как", "что", "зачем", "why", "how", "what", "when", "where"}
	selfDoubtMarkers  = []string{"может быть", "наверное", "не уверен", "не уверена", "maybe", "perhaps", "not sure", "uncertain"}
	comfortMarkers    = []string{"страшно", "боюсь", "страх", "scared", "afraid", "fear", "anxious", "worry"}
	challengeMarkers  = []string{"всё равно", "не важно", "doesn't matter", "whatever", "who cares"}
)

// Analyze computes the structured read of one message: tone, markers,
// question presence, length bucket, self-doubt and the three derived needs.
func (c *KeywordEmotionClassifier) Analyze(message string) domain.MessageAnalysis {
	lower := strings.ToLower(message)
	wordCount := len(strings.Fields(lower))

	tone := domain.ToneNeutral
	var markers []string
	switch {
	case containsAny(lower, aggressiveMarkers):
		tone = domain.ToneAggressive
		markers = append(markers, "aggression")
	case containsAny(lower, sadMarkers):
		tone = domain.ToneSad
		markers = append(markers, "sadness")
	case containsAny(lower, lostMarkers):
		tone = domain.ToneLost
		markers = append(markers, "confusion")
	case containsAny(lower, comfortMarkers):
		tone = domain.ToneSad
		markers = append(markers, "fear")
	}

	hasQuestions := containsAny(lower, questionMarkers)

	length := domain.LengthMedium
	if wordCount < 5 {
		length = domain.LengthShort
	} else if wordCount > 30 {
		length = domain.LengthLong
	}

	needsComfort := tone == domain.ToneSad || containsAny(lower, comfortMarkers)
	needsChallenge := tone == domain.ToneAggressive || containsAny(lower, challengeMarkers)

	return domain.MessageAnalysis{
		Tone:             tone,
		EmotionalMarkers: markers,
		HasQuestions:     hasQuestions,
		Length:           length,
		SelfDoubt:        containsAny(lower, selfDoubtMarkers),
		NeedsClarity:     hasQuestions || tone == domain.ToneLost,
		NeedsComfort:     needsComfort,
		NeedsChallenge:   needsChallenge,
	}
}

func containsAny(text string, table []string) bool {
	for _, entry := range table {
		if strings.Contains(text, entry) {
			return true
		}
	}
	return false
}
