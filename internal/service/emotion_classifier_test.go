package service

import (
	"testing"

	"edem-chat-server/internal/domain"
)

func TestClassify_Buckets(t *testing.T) {
	c := NewEmotionClassifier()

	cases := []struct {
		message string
		want    domain.EmotionState
	}{
		{"я так устал от всего", domain.EmotionTired},
		{"I am so tired today", domain.EmotionTired},
		{"меня накрывает тревога", domain.EmotionAnxious},
		{"i'm worried about tomorrow", domain.EmotionAnxious},
		{"не знаю что делать", domain.EmotionLost},
		{"i'm so confused right now", domain.EmotionLost},
		{"меня всё бесит", domain.EmotionAngry},
		{"i hate this", domain.EmotionAngry},
		{"сегодня хороший день", domain.EmotionNeutral},
		{"", domain.EmotionNeutral},
	}

	for _, tc := range cases {
		if got := c.Classify(tc.message); got != tc.want {
			t.Fatalf("Classify(%q) = %s, want %s", tc.message, got, tc.want)
		}
	}
}

func TestClassify_PriorityOrder(t *testing.T) {
	c := NewEmotionClassifier()

	// Both tired and angry keywords present: the earlier bucket wins.
	if got := c.Classify("устал и ненавижу всё"); got != domain.EmotionTired {
		t.Fatalf("expected tired to take priority over angry, got %s", got)
	}
	// Anxious beats lost.
	if got := c.Classify("боюсь, не знаю"); got != domain.EmotionAnxious {
		t.Fatalf("expected anxious to take priority over lost, got %s", got)
	}
}

func TestAnalyze_AggressiveTone(t *testing.T) {
	c := NewEmotionClassifier()

	a := c.Analyze("меня всё бесит, ненавижу")

	if a.Tone != domain.ToneAggressive {
		t.Fatalf("expected aggressive tone, got %s", a.Tone)
	}
	if !a.NeedsChallenge {
		t.Fatalf("expected aggression to imply needsChallenge")
	}
}

func TestAnalyze_QuestionsNeedClarity(t *testing.T) {
	c := NewEmotionClassifier()

	a := c.Analyze("почему всё так сложно?")

	if !a.HasQuestions {
		t.Fatalf("expected question markers to be found")
	}
	if !a.NeedsClarity {
		t.Fatalf("expected questions to imply needsClarity")
	}
}

func TestAnalyze_LengthBuckets(t *testing.T) {
	c := NewEmotionClassifier()

	if a := c.Analyze("да"); a.Length != domain.LengthShort {
		t.Fatalf("expected short, got %s", a.Length)
	}
	if a := c.Analyze("слово слово слово слово слово слово слово"); a.Length != domain.LengthMedium {
		t.Fatalf("expected medium, got %s", a.Length)
	}

	long := ""
	for i := 0; i < 31; i++ {
		long += "слово "
	}
	if a := c.Analyze(long); a.Length != domain.LengthLong {
		t.Fatalf("expected long, got %s", a.Length)
	}
}

func TestAnalyze_FearNeedsComfort(t *testing.T) {
	c := NewEmotionClassifier()

	a := c.Analyze("мне страшно")

	if !a.NeedsComfort {
		t.Fatalf("expected fear markers to imply needsComfort")
	}
	if a.NeedsChallenge {
		t.Fatalf("did not expect needsChallenge for fear")
	}
}
