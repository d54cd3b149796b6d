package speech

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "lowercase and punctuation stripped",
			text:     "Hello, how are you today?",
			expected: []string{"hello", "how", "are", "you", "today"},
		},
		{
			name:     "hyphens become spaces",
			text:     "well-known check-in",
			expected: []string{"well", "known", "check", "in"},
		},
		{
			name:     "whitespace collapsed",
			text:     "  so   much \t space \n here ",
			expected: []string{"so", "much", "space", "here"},
		},
		{
			name:     "numbers survive",
			text:     "Gate 42 closes at 9",
			expected: []string{"gate", "42", "closes", "at", "9"},
		},
		{
			name:     "empty string",
			text:     "",
			expected: nil,
		},
		{
			name:     "pure punctuation",
			text:     "?!... --- !!!",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.text)
			if len(got) != len(tt.expected) {
				t.Fatalf("Normalize(%q) = %v, want %v", tt.text, got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("token %d: got %q, want %q", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

// Re-joining normalized tokens and normalizing again must not change them.
func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Hello, how are you today?",
		"I'm excited about the up-coming presentation!",
		"What   about... numbers like 42?",
		"",
	}

	for _, text := range inputs {
		once := Normalize(text)
		twice := Normalize(strings.Join(once, " "))
		if len(once) != len(twice) {
			t.Fatalf("normalize not idempotent for %q: %v vs %v", text, once, twice)
		}
		for i := range once {
			if once[i] != twice[i] {
				t.Errorf("normalize not idempotent for %q at %d: %q vs %q", text, i, once[i], twice[i])
			}
		}
	}
}

func TestWordCount(t *testing.T) {
	tests := []struct {
		text     string
		expected int
	}{
		{"I would like to order a coffee, please.", 8},
		{"Hello, how are you today?", 5},
		{"", 0},
		{"...", 0},
		{"twenty-one", 2},
	}

	for _, tt := range tests {
		if got := WordCount(tt.text); got != tt.expected {
			t.Errorf("WordCount(%q) = %d, want %d", tt.text, got, tt.expected)
		}
	}
}

func TestWordsKeepsPunctuation(t *testing.T) {
	got := Words("Hello, world!")
	if len(got) != 2 || got[0] != "Hello," || got[1] != "world!" {
		t.Errorf("Words() = %v, want [Hello, world!]", got)
	}
}
