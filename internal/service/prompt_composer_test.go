package service

import (
	"strings"
	"testing"

	"edem-chat-server/internal/domain"
)

func TestCompose_ContainsCoreVoiceAndEmotion(t *testing.T) {
	p := NewPromptComposer()
	catalog := domain.NewVoiceCatalog(domain.SeedVoices())
	voice, _ := catalog.Get(domain.VoiceShadow)

	prompt := p.Compose(domain.LangRussian, voice, domain.EmotionAngry, domain.LangRussian)

	if !strings.Contains(prompt, "EDEM INTELLIGENCE") {
		t.Fatalf("expected core prompt in composition")
	}
	if !strings.Contains(prompt, voice.SystemPrompt) {
		t.Fatalf("expected voice prompt in composition")
	}
	if !strings.Contains(prompt, string(domain.EmotionAngry)) {
		t.Fatalf("expected emotional state in composition")
	}
}

func TestCompose_EnglishResponseInstruction(t *testing.T) {
	p := NewPromptComposer()
	catalog := domain.NewVoiceCatalog(domain.SeedVoices())
	voice, _ := catalog.Get(domain.VoiceLive)

	prompt := p.Compose(domain.LangEnglish, voice, domain.EmotionNeutral, domain.LangEnglish)

	if !strings.Contains(prompt, "Respond in English.") {
		t.Fatalf("expected English response instruction")
	}
	if !strings.Contains(prompt, "You are EDEM INTELLIGENCE") {
		t.Fatalf("expected English core prompt for en locale")
	}
}

func TestCompose_UnknownLocaleFallsBackToDefault(t *testing.T) {
	p := NewPromptComposer()
	catalog := domain.NewVoiceCatalog(domain.SeedVoices())
	voice, _ := catalog.Get(domain.VoiceLive)

	prompt := p.Compose(domain.LangJapanese, voice, domain.EmotionNeutral, domain.LangJapanese)

	if !strings.Contains(prompt, "Ты — EDEM INTELLIGENCE") {
		t.Fatalf("expected default core prompt for unsupported locale")
	}
	if !strings.Contains(prompt, domain.LanguageNames[domain.LangJapanese]) {
		t.Fatalf("expected response-language name in instruction")
	}
}

func TestGreeting_LocaleSelection(t *testing.T) {
	p := NewPromptComposer()

	if !strings.Contains(p.Greeting(domain.LangRussian), "Я здесь") {
		t.Fatalf("unexpected russian greeting")
	}
	if !strings.Contains(p.Greeting(domain.LangEnglish), "I'm here") {
		t.Fatalf("unexpected english greeting")
	}
	if !strings.Contains(p.Greeting(domain.LangGerman), "Я здесь") {
		t.Fatalf("expected fallback greeting for unsupported locale")
	}
}
