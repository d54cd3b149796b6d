package speech

// WordResult classifies one display word of a diff.
type WordResult int

const (
	// ResultMatch marks a target word whose transcript counterpart was similar.
	ResultMatch WordResult = iota
	// ResultMismatch marks a target word whose transcript counterpart was not similar.
	ResultMismatch
	// ResultUnscored marks a target word beyond the compared overlap, either
	// because the transcript was shorter or because normalization dropped a
	// token. Rendered neutrally.
	ResultUnscored
)

// WordDiff is one entry of a per-word comparison, carrying the original
// (punctuation-preserving) target word.
type WordDiff struct {
	Word   string
	Result WordResult
}

// Matcher compares target utterances to speech transcripts. Tolerance is the
// per-word similarity tolerance: 1 forgives minor transcription noise, 0
// demands exact token equality. Every call site shares this one
// implementation; the old habit of re-deriving the comparison inline is what
// caused strict and tolerant variants to drift apart.
type Matcher struct {
	Tolerance int
}

// DefaultMatcher is the tolerance-1 matcher used for practice evaluation.
var DefaultMatcher = Matcher{Tolerance: 1}

// IsMatch reports whether transcript is an acceptable spoken rendition of
// target. The normalized token sequences must have equal length and every
// positional pair must be Similar. Length mismatch is an immediate failure:
// a partial utterance never passes, while a complete utterance with slightly
// mangled words can. The relation is symmetric.
func (m Matcher) IsMatch(target, transcript string) bool {
	targetTokens := Normalize(target)
	spokenTokens := Normalize(transcript)

	if len(targetTokens) != len(spokenTokens) {
		return false
	}

	for i := range targetTokens {
		if !Similar(targetTokens[i], spokenTokens[i], m.Tolerance) {
			return false
		}
	}

	return true
}

// Diff compares transcript against target word by word and returns one entry
// per display word of the target. Positions inside the normalized overlap are
// classified Match or Mismatch; positions beyond it are Unscored, which covers
// both a short transcript and a long one without special cases. Insertions
// and deletions are not re-aligned; that imprecision is accepted for the sake
// of a stable left-to-right rendering.
func (m Matcher) Diff(target, transcript string) []WordDiff {
	displayWords := Words(target)
	targetTokens := Normalize(target)
	spokenTokens := Normalize(transcript)

	overlap := len(targetTokens)
	if len(spokenTokens) < overlap {
		overlap = len(spokenTokens)
	}

	diffs := make([]WordDiff, 0, len(displayWords))
	for i, word := range displayWords {
		entry := WordDiff{Word: word, Result: ResultUnscored}
		if i < overlap {
			if Similar(targetTokens[i], spokenTokens[i], m.Tolerance) {
				entry.Result = ResultMatch
			} else {
				entry.Result = ResultMismatch
			}
		}
		diffs = append(diffs, entry)
	}

	return diffs
}
