package services

import "testing"

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		text     string
		expected string
	}{
		{"", ""},
		{"   ", ""},
		{"Drinking enough water every day keeps your body healthy and your mind clear.", "en"},
		{"Boire suffisamment d'eau chaque jour aide votre corps à rester en bonne santé.", "fr"},
	}

	for _, tt := range tests {
		if got := DetectLanguage(tt.text); got != tt.expected {
			t.Errorf("DetectLanguage(%q) = %q, expected %q", tt.text, got, tt.expected)
		}
	}
}

func TestContentLanguageSource(t *testing.T) {
	excerpt := "Short"
	if got := contentLanguageSource("Title", &excerpt, nil); got != "Title\nShort" {
		t.Errorf("Unexpected source %q", got)
	}
}
