package speech

import "testing"

func TestIsMatch(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		transcript string
		expected   bool
	}{
		{
			name:       "punctuation and case ignored",
			target:     "Hello, how are you today?",
			transcript: "hello how are you today",
			expected:   true,
		},
		{
			name:       "partial utterance fails on length",
			target:     "Hello, how are you today?",
			transcript: "hello how are you",
			expected:   false,
		},
		{
			name:       "near miss within tolerance passes",
			target:     "The weather is nice",
			transcript: "the weater is nice",
			expected:   true,
		},
		{
			name:       "extra trailing word fails",
			target:     "Thank you very much",
			transcript: "thank you very much indeed",
			expected:   false,
		},
		{
			name:       "both empty",
			target:     "",
			transcript: "",
			expected:   true,
		},
		{
			name:       "target empty transcript not",
			target:     "",
			transcript: "hello",
			expected:   false,
		},
		{
			name:       "punctuation-only target matches silence",
			target:     "...",
			transcript: "",
			expected:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultMatcher.IsMatch(tt.target, tt.transcript); got != tt.expected {
				t.Errorf("IsMatch(%q, %q) = %v, want %v", tt.target, tt.transcript, got, tt.expected)
			}
		})
	}
}

func TestIsMatchSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"Hello, how are you today?", "hello how are you today"},
		{"bound for glory", "bond for glory"},
		{"short", "a much longer transcript"},
	}
	for _, p := range pairs {
		if DefaultMatcher.IsMatch(p[0], p[1]) != DefaultMatcher.IsMatch(p[1], p[0]) {
			t.Errorf("IsMatch(%q, %q) not symmetric", p[0], p[1])
		}
	}
}

func TestStrictMatcher(t *testing.T) {
	strict := Matcher{Tolerance: 0}
	if strict.IsMatch("the weather is nice", "the weater is nice") {
		t.Error("tolerance 0 should reject a one-letter substitution")
	}
	if !strict.IsMatch("The weather is nice.", "the weather is nice") {
		t.Error("tolerance 0 should still ignore case and punctuation")
	}
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		transcript string
		expected   []WordDiff
	}{
		{
			name:       "equal length match and mismatch",
			target:     "Hello, world!",
			transcript: "hello there",
			expected: []WordDiff{
				{Word: "Hello,", Result: ResultMatch},
				{Word: "world!", Result: ResultMismatch},
			},
		},
		{
			name:       "transcript shorter leaves tail unscored",
			target:     "Nice to meet you.",
			transcript: "nice to",
			expected: []WordDiff{
				{Word: "Nice", Result: ResultMatch},
				{Word: "to", Result: ResultMatch},
				{Word: "meet", Result: ResultUnscored},
				{Word: "you.", Result: ResultUnscored},
			},
		},
		{
			name:       "transcript longer does not crash or add entries",
			target:     "Thank you",
			transcript: "thank you very much",
			expected: []WordDiff{
				{Word: "Thank", Result: ResultMatch},
				{Word: "you", Result: ResultMatch},
			},
		},
		{
			name:       "empty transcript all unscored",
			target:     "Excuse me, please.",
			transcript: "",
			expected: []WordDiff{
				{Word: "Excuse", Result: ResultUnscored},
				{Word: "me,", Result: ResultUnscored},
				{Word: "please.", Result: ResultUnscored},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DefaultMatcher.Diff(tt.target, tt.transcript)
			if len(got) != len(tt.expected) {
				t.Fatalf("Diff() returned %d entries, want %d: %v", len(got), len(tt.expected), got)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("entry %d: got %+v, want %+v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestRetryHint(t *testing.T) {
	hint, ok := RetryHint("The weather forecast suggests rain", "the wether forecast suggests pain")
	if !ok {
		t.Fatal("expected a hint for a failed attempt")
	}
	// "wether" is within tolerance of "weather"? No: length diff 1, positional
	// mismatches pile up after the dropped letter, so it is a mismatch and the
	// closer of the two mismatches by edit distance.
	if hint.Expected != "rain" && hint.Expected != "weather" {
		t.Errorf("unexpected hint target %q", hint.Expected)
	}

	if _, ok := RetryHint("Hello there", ""); ok {
		t.Error("empty transcript should produce no hint")
	}

	if _, ok := RetryHint("Hello there", "hello there"); ok {
		t.Error("clean match should produce no hint")
	}
}
