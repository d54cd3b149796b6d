package speech

// Similar reports whether two tokens are close enough to count as the same
// spoken word. Identical tokens always match. Otherwise the tokens are
// compared position by position over their shared prefix, and the length
// difference is added to the mismatch count; the pair is similar when the
// total stays within tolerance.
//
// This is a deliberately cheap approximation of edit distance: it catches
// single-character substitutions and a one-character trailing insert or
// delete, but a single insertion in the middle of a word shifts every
// later position and inflates the count. Speech transcripts mostly produce
// substitution-style noise, so the trade-off holds up in practice.
func Similar(a, b string, tolerance int) bool {
	if a == b {
		return true
	}

	diff := len(a) - len(b)
	if diff < 0 {
		diff = -diff
	}
	if diff > tolerance {
		return false
	}

	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}

	mismatches := diff
	for i := 0; i < minLen; i++ {
		if a[i] != b[i] {
			mismatches++
			if mismatches > tolerance {
				return false
			}
		}
	}

	return mismatches <= tolerance
}
