// Package speech implements the text comparison core used by speaking
// practice: normalization, tolerant word similarity, transcript matching,
// and word-count scoring. All functions are pure and ASCII-oriented; the
// same normalization feeds both scoring and matching so stored word counts
// always agree with what the matcher sees.
package speech

import "strings"

// Normalize converts raw text into the comparable token sequence used for
// matching and scoring: lowercase, hyphens become spaces, everything that is
// not a lowercase letter, digit, or whitespace is stripped, whitespace runs
// collapse, and the result is split into tokens. Empty input (or input that
// is pure punctuation) yields an empty slice.
func Normalize(text string) []string {
	lowered := strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		switch {
		case r == '-':
			b.WriteByte(' ')
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			b.WriteByte(' ')
		}
	}

	return strings.Fields(b.String())
}

// Words splits text on whitespace keeping punctuation intact. Used for
// display: the diff renderer annotates these original words while comparing
// their normalized counterparts.
func Words(text string) []string {
	return strings.Fields(text)
}

// WordCount returns the number of normalized tokens in text. This is the
// stored word count of a phrase or sentence and the exact point value awarded
// when it is first completed.
func WordCount(text string) int {
	return len(Normalize(text))
}
