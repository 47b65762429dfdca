package service

import (
	"regexp"
	"strings"
	"unicode"

	"edem-chat-server/internal/domain"
)

// languageSignals is the fixed signal table for one language: a script
// pattern, common function words, and common greeting/politeness words.
// Word lists may be empty; the signal count per language varies.
type languageSignals struct {
	language  domain.Language
	script    *regexp.Regexp
	functions []string
	greetings []string
}

// signalCount returns how many signals this language defines.
func (s languageSignals) signalCount() int {
	n := 1
	if len(s.functions) > 0 {
		n++
	}
	if len(s.greetings) > 0 {
		n++
	}
	return n
}

// KeywordLanguageDetector implements domain.LanguageDetector with
// deterministic script and keyword heuristics over fixed tables.
type KeywordLanguageDetector struct {
	signals []languageSignals
	deflang domain.Language
}

// NewLanguageDetector builds the detector with the shipped signal tables.
func NewLanguageDetector() *KeywordLanguageDetector {
	return &KeywordLanguageDetector{
		signals: defaultLanguageSignals(),
		deflang: domain.DefaultLanguage,
	}
}

// Detect guesses the message's language. Messages shorter than three
// characters and messages matching nothing fall back to the default
// language with a low fixed confidence and detected=false.
func (d *KeywordLanguageDetector) Detect(message string) domain.LanguageDetection {
	text := strings.ToLower(strings.TrimSpace(message))

	if len([]rune(text)) < 3 {
		return domain.LanguageDetection{Language: d.deflang, Confidence: 0.5, Detected: false}
	}

	words := tokenizeWords(text)

	best := d.deflang
	bestScore := 0
	bestTotal := 1
	// Evaluation order is the tie-break: with equal scores the earlier
	// language in the supported list wins.
	for _, sig := range d.signals {
		score := 0
		if sig.script.MatchString(text) {
			score++
		}
		if len(sig.functions) > 0 && anyWordMatch(text, words, sig.functions) {
			score++
		}
		if len(sig.greetings) > 0 && anyWordMatch(text, words, sig.greetings) {
			score++
		}
		if score > bestScore {
			bestScore = score
			best = sig.language
			bestTotal = sig.signalCount()
		}
	}

	if bestScore == 0 {
		return domain.LanguageDetection{Language: d.deflang, Confidence: 0.3, Detected: false}
	}

	confidence := float64(bestScore) / float64(bestTotal)
	if confidence > 1 {
		confidence = 1
	}

	return domain.LanguageDetection{
		Language:   best,
		Confidence: confidence,
		Detected:   confidence > 0.3,
	}
}

// tokenizeWords splits text on anything that is not a letter or apostrophe.
func tokenizeWords(text string) map[string]bool {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
	words := make(map[string]bool, len(fields))
	for _, f := range fields {
		words[f] = true
	}
	return words
}

// anyWordMatch reports whether any table entry occurs in the message.
// Single words must match a whole token; multi-word phrases and entries in
// scripts without word separators match by containment.
func anyWordMatch(text string, words map[string]bool, table []string) bool {
	for _, entry := range table {
		if strings.ContainsRune(entry, ' ') || !hasWordSeparators(entry) {
			if strings.Contains(text, entry) {
				return true
			}
			continue
		}
		if words[entry] {
			return true
		}
	}
	return false
}

// hasWordSeparators reports whether the entry's script uses spaces between
// words (CJK entries do not and are matched by containment).
func hasWordSeparators(entry string) bool {
	for _, r := range entry {
		if unicode.Is(unicode.Han, r) || unicode.Is(unicode.Hiragana, r) ||
			unicode.Is(unicode.Katakana, r) || unicode.Is(unicode.Hangul, r) {
			return false
		}
	}
	return true
}

func defaultLanguageSignals() []languageSignals {
	return []languageSignals{
		{
			language:  domain.LangRussian,
			script:    regexp.MustCompile(`[а-яё]`),
			functions: []string{"как", "что", "где", "когда", "почему", "это", "этот", "эта", "быть", "был", "была", "было", "были"},
			greetings: []string{"привет", "здравствуй", "спасибо", "пожалуйста", "да", "нет"},
		},
		{
			language:  domain.LangEnglish,
			script:    regexp.MustCompile(`[a-z]`),
			functions: []string{"the", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with", "by"},
			greetings: []string{"hello", "hi", "thanks", "please", "yes", "no", "what", "where", "when", "why", "how"},
		},
		{
			language:  domain.LangVietnamese,
			script:    regexp.MustCompile(`[àáạảãâầấậẩẫăằắặẳẵèéẹẻẽêềếệểễìíịỉĩòóọỏõôồốộổỗơờớợởỡùúụủũưừứựửữỳýỵỷỹđ]`),
			functions: []string{"tôi", "bạn", "đó", "này", "đây", "và", "hoặc", "nhưng", "trong", "trên", "với", "bởi"},
			greetings: []string{"xin chào", "cảm ơn", "vui lòng", "có", "không", "gì", "ở đâu", "khi nào", "tại sao"},
		},
		{
			language:  domain.LangSpanish,
			script:    regexp.MustCompile(`[áéíóúñü]`),
			functions: []string{"el", "la", "los", "las", "y", "o", "pero", "en", "de", "con", "por", "para"},
			greetings: []string{"hola", "gracias", "por favor", "sí", "qué", "dónde", "cuándo", "por qué", "cómo"},
		},
		{
			language:  domain.LangPortuguese,
			script:    regexp.MustCompile(`[áàâãéêíóôõúüç]`),
			functions: []string{"o", "a", "os", "as", "e", "ou", "mas", "em", "de", "com", "por", "para"},
			greetings: []string{"olá", "obrigado", "por favor", "sim", "não", "o que", "onde", "quando", "por quê", "como"},
		},
		{
			language:  domain.LangFrench,
			script:    regexp.MustCompile(`[àâäéèêëïîôùûüÿç]`),
			functions: []string{"le", "la", "les", "et", "ou", "mais", "dans", "de", "avec", "par", "pour"},
			greetings: []string{"bonjour", "merci", "s'il vous plaît", "oui", "non", "quoi", "où", "quand", "pourquoi", "comment"},
		},
		{
			language:  domain.LangGerman,
			script:    regexp.MustCompile(`[äöüß]`),
			functions: []string{"der", "die", "das", "und", "oder", "aber", "in", "von", "mit", "durch", "für"},
			greetings: []string{"hallo", "danke", "bitte", "ja", "nein", "was", "wo", "wann", "warum", "wie"},
		},
		{
			language:  domain.LangKorean,
			script:    regexp.MustCompile(`\p{Hangul}`),
			greetings: []string{"안녕", "감사", "부탁", "예", "아니", "무엇", "어디", "언제", "왜", "어떻게"},
		},
		{
			language:  domain.LangJapanese,
			script:    regexp.MustCompile(`[\p{Hiragana}\p{Katakana}]`),
			greetings: []string{"こんにちは", "ありがとう", "お願い", "はい", "いいえ", "何", "どこ", "いつ", "なぜ"},
		},
		{
			language:  domain.LangChinese,
			script:    regexp.MustCompile(`\p{Han}`),
			greetings: []string{"你好", "谢谢", "请", "是", "不", "什么", "哪里", "什么时候", "为什么", "如何"},
		},
	}
}
