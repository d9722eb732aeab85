package services

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

var (
	languageDetector     lingua.LanguageDetector
	languageDetectorOnce sync.Once
)

var detectableLanguages = []lingua.Language{
	lingua.English,
	lingua.French,
	lingua.German,
	lingua.Spanish,
	lingua.Portuguese,
	lingua.Yoruba,
	lingua.Swahili,
	lingua.Chinese,
}

func getLanguageDetector() lingua.LanguageDetector {
	languageDetectorOnce.Do(func() {
		languageDetector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(detectableLanguages...).
			WithLowAccuracyMode().
			Build()
	})
	return languageDetector
}

// DetectLanguage returns the lower-case ISO 639-1 code of the language the
// text is written in, or an empty string when it cannot be told.
func DetectLanguage(text string) string {
	text = strings.TrimSpace(text)
	if len(text) == 0 {
		return ""
	}

	language, ok := getLanguageDetector().DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(language.IsoCode639_1().String())
}

func contentLanguageSource(title string, excerpt, body *string) string {
	parts := []string{title}
	if excerpt != nil {
		parts = append(parts, *excerpt)
	}
	if body != nil {
		parts = append(parts, *body)
	}
	return strings.Join(parts, "\n")
}
