package domain

// Language is a supported response-language code.
type Language string

const (
	LangRussian    Language = "ru"
	LangEnglish    Language = "en"
	LangVietnamese Language = "vi"
	LangSpanish    Language = "es"
	LangPortuguese Language = "pt"
	LangFrench     Language = "fr"
	LangGerman     Language = "de"
	LangKorean     Language = "ko"
	LangJapanese   Language = "ja"
	LangChinese    Language = "zh"
)

// DefaultLanguage is assumed when nothing can be detected.
const DefaultLanguage = LangRussian

// SupportedLanguages lists languages in detection evaluation order. The
// order is the tie-break: with equal scores the earlier language wins.
var SupportedLanguages = []Language{
	LangRussian, LangEnglish, LangVietnamese, LangSpanish, LangPortuguese,
	LangFrench, LangGerman, LangKorean, LangJapanese, LangChinese,
}

// LanguageDetection is the transient result of language detection.
type LanguageDetection struct {
	Language   Language `json:"language"`
	Confidence float64  `json:"confidence"`
	Detected   bool     `json:"detected"`
}

// LanguageNames gives the display name used in the response-language
// instruction handed to the model.
var LanguageNames = map[Language]string{
	LangRussian:    "русском",
	LangEnglish:    "English",
	LangVietnamese: "Tiếng Việt",
	LangSpanish:    "Español",
	LangPortuguese: "Português",
	LangFrench:     "Français",
	LangGerman:     "Deutsch",
	LangKorean:     "한국어",
	LangJapanese:   "日本語",
	LangChinese:    "中文",
}

// ParseLanguage maps a locale string to a supported language, defaulting
// to Russian.
func ParseLanguage(s string) Language {
	for _, lang := range SupportedLanguages {
		if string(lang) == s {
			return lang
		}
	}
	return DefaultLanguage
}
