package service

import (
	"testing"

	"edem-chat-server/internal/domain"
)

func TestDetect_ShortInputFallsBack(t *testing.T) {
	d := NewLanguageDetector()

	res := d.Detect("ok")

	if res.Language != domain.DefaultLanguage {
		t.Fatalf("expected default language, got %s", res.Language)
	}
	if res.Confidence != 0.5 {
		t.Fatalf("expected confidence 0.5, got %f", res.Confidence)
	}
	if res.Detected {
		t.Fatalf("expected detected=false for short input")
	}
}

func TestDetect_NoMatchFallsBack(t *testing.T) {
	d := NewLanguageDetector()

	res := d.Detect("12345 67890")

	if res.Language != domain.DefaultLanguage {
		t.Fatalf("expected default language, got %s", res.Language)
	}
	if res.Confidence != 0.3 {
		t.Fatalf("expected confidence 0.3, got %f", res.Confidence)
	}
	if res.Detected {
		t.Fatalf("expected detected=false when nothing matches")
	}
}

func TestDetect_EnglishByScriptAlone(t *testing.T) {
	d := NewLanguageDetector()

	res := d.Detect("I am so tired today")

	if res.Language != domain.LangEnglish {
		t.Fatalf("expected en, got %s", res.Language)
	}
	if !res.Detected {
		t.Fatalf("expected detected=true, got confidence %f", res.Confidence)
	}
}

func TestDetect_RussianScriptAndFunctionWords(t *testing.T) {
	d := NewLanguageDetector()

	res := d.Detect("не знаю что делать")

	if res.Language != domain.LangRussian {
		t.Fatalf("expected ru, got %s", res.Language)
	}
	if !res.Detected {
		t.Fatalf("expected detected=true")
	}
	if res.Confidence <= 0.5 {
		t.Fatalf("expected confidence above 0.5 with two signals, got %f", res.Confidence)
	}
}

func TestDetect_SpanishBeatsEnglishOnMoreSignals(t *testing.T) {
	d := NewLanguageDetector()

	res := d.Detect("hola amigo cómo estás")

	if res.Language != domain.LangSpanish {
		t.Fatalf("expected es, got %s", res.Language)
	}
	if !res.Detected {
		t.Fatalf("expected detected=true")
	}
}

func TestDetect_ChineseByContainment(t *testing.T) {
	d := NewLanguageDetector()

	res := d.Detect("你好吗")

	if res.Language != domain.LangChinese {
		t.Fatalf("expected zh, got %s", res.Language)
	}
	if res.Confidence != 1 {
		t.Fatalf("expected confidence 1 with script and greeting matched, got %f", res.Confidence)
	}
}

func TestDetect_FunctionWordsMatchWholeTokensOnly(t *testing.T) {
	d := NewLanguageDetector()

	// "theme" contains "the" but must not count as the function word.
	res := d.Detect("theme xyzzy qwfp")

	if res.Language != domain.LangEnglish {
		t.Fatalf("expected en by script, got %s", res.Language)
	}
	// Script only: one of three signals.
	if res.Confidence >= 0.5 {
		t.Fatalf("expected script-only confidence, got %f", res.Confidence)
	}
}
