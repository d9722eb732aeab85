package exts

import "testing"

func TestSafeNext(t *testing.T) {
	tests := []struct {
		next     string
		expected string
	}{
		{"", "/fallback/"},
		{"/authoring/poll/", "/authoring/poll/"},
		{"/content/?type=video&page=2", "/content/?type=video&page=2"},
		{"  /authoring/  ", "/authoring/"},
		{"authoring/", "/fallback/"},
		{"//evil.example.com/", "/fallback/"},
		{"/\\evil.example.com/", "/fallback/"},
		{"https://evil.example.com/", "/fallback/"},
		{"javascript:alert(1)", "/fallback/"},
	}

	for _, tt := range tests {
		if got := SafeNext(tt.next, "/fallback/"); got != tt.expected {
			t.Errorf("SafeNext(%q) = %q, expected %q", tt.next, got, tt.expected)
		}
	}
}
