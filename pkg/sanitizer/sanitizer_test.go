package sanitizer

import (
	"reflect"
	"testing"
)

func TestSanitizeIdentifier(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already clean", "lying-1", "lying-1"},
		{"upper and spaces", "  Lying-1 ", "lying-1"},
		{"underscore", "standing_1", "standing-1"},
		{"punctuation", "lying!!2", "lying-2"},
		{"leading separators", "--lying-2--", "lying-2"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeIdentifier(tt.input); got != tt.want {
				t.Errorf("SanitizeIdentifier(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeEmail(t *testing.T) {
	if got := SanitizeEmail("  Jane.Doe@Example.COM "); got != "jane.doe@example.com" {
		t.Errorf("SanitizeEmail() = %q", got)
	}
}

func TestSanitizeToken(t *testing.T) {
	if got := SanitizeToken(" 10 :15 "); got != "10:15" {
		t.Errorf("SanitizeToken() = %q, want 10:15", got)
	}
}

func TestSanitizeSlice(t *testing.T) {
	got := SanitizeSlice([]string{"Lying-1", "lying-1", " ", "standing_1"}, SanitizeIdentifier)
	want := []string{"lying-1", "standing-1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SanitizeSlice() = %v, want %v", got, want)
	}
}

func TestSanitizeURL(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{" https://Hooks.Example.com/Cabin/Lying-1 ", "https://hooks.example.com/Cabin/Lying-1"},
		{"HTTP://example.com/a?x=1", "http://example.com/a?x=1"},
		{"ftp://example.com", ""},
		{"example.com/path", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := SanitizeURL(tt.input); got != tt.want {
			t.Errorf("SanitizeURL(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
