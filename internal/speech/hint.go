package speech

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// Hint describes the failed word a retry prompt should focus on: the target
// word the learner most plausibly attempted, the token the engine heard, and
// whether the two at least sound alike.
type Hint struct {
	Expected    string `json:"expected"`
	Heard       string `json:"heard"`
	SoundsAlike bool   `json:"sounds_alike"`
}

// RetryHint inspects a failed attempt and picks the mismatched position whose
// spoken token is closest (by Levenshtein distance) to its target word. The
// idea is to tell the learner which word to work on rather than just "try
// again". Returns false when the attempt had no comparable mismatch, e.g. an
// empty transcript.
//
// Purely advisory: hints never influence IsMatch or scoring.
func RetryHint(target, transcript string) (Hint, bool) {
	targetTokens := Normalize(target)
	spokenTokens := Normalize(transcript)

	overlap := len(targetTokens)
	if len(spokenTokens) < overlap {
		overlap = len(spokenTokens)
	}

	best := Hint{}
	bestDistance := -1

	for i := 0; i < overlap; i++ {
		if Similar(targetTokens[i], spokenTokens[i], DefaultMatcher.Tolerance) {
			continue
		}
		d := matchr.Levenshtein(targetTokens[i], spokenTokens[i])
		if bestDistance == -1 || d < bestDistance {
			bestDistance = d
			best = Hint{
				Expected:    targetTokens[i],
				Heard:       spokenTokens[i],
				SoundsAlike: soundsAlike(targetTokens[i], spokenTokens[i]),
			}
		}
	}

	return best, bestDistance != -1
}

// soundsAlike reports whether two tokens share a Double Metaphone code, i.e.
// the learner likely said the right word and the engine transcribed it badly.
func soundsAlike(a, b string) bool {
	ap, as := matchr.DoubleMetaphone(strings.ToLower(a))
	bp, bs := matchr.DoubleMetaphone(strings.ToLower(b))
	if ap == "" && as == "" {
		return false
	}
	for _, ca := range []string{ap, as} {
		if ca == "" {
			continue
		}
		if ca == bp || (bs != "" && ca == bs) {
			return true
		}
	}
	return false
}
