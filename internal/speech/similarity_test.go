package speech

import "testing"

func TestSimilar(t *testing.T) {
	tests := []struct {
		name      string
		a, b      string
		tolerance int
		expected  bool
	}{
		{
			name:      "identical words",
			a:         "bound",
			b:         "bound",
			tolerance: 1,
			expected:  true,
		},
		{
			name:      "identical even at zero tolerance",
			a:         "coffee",
			b:         "coffee",
			tolerance: 0,
			expected:  true,
		},
		{
			name:      "one dropped letter",
			a:         "bound",
			b:         "bond",
			tolerance: 1,
			expected:  true,
		},
		{
			name:      "length difference beyond tolerance",
			a:         "bound",
			b:         "boundary",
			tolerance: 1,
			expected:  false,
		},
		{
			name:      "single substitution",
			a:         "cat",
			b:         "bat",
			tolerance: 1,
			expected:  true,
		},
		{
			name:      "two substitutions rejected",
			a:         "cat",
			b:         "bar",
			tolerance: 1,
			expected:  false,
		},
		{
			name:      "substitution rejected at zero tolerance",
			a:         "cat",
			b:         "bat",
			tolerance: 0,
			expected:  false,
		},
		{
			// Known approximation: a middle insertion misaligns every later
			// position, so "hat"/"heat" fails even though the true edit
			// distance is 1.
			name:      "middle insertion misjudged",
			a:         "hat",
			b:         "heat",
			tolerance: 1,
			expected:  false,
		},
		{
			name:      "empty versus one char",
			a:         "",
			b:         "a",
			tolerance: 1,
			expected:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Similar(tt.a, tt.b, tt.tolerance); got != tt.expected {
				t.Errorf("Similar(%q, %q, %d) = %v, want %v", tt.a, tt.b, tt.tolerance, got, tt.expected)
			}
		})
	}
}

func TestSimilarReflexive(t *testing.T) {
	for _, word := range []string{"", "a", "hello", "forty2"} {
		for tolerance := 0; tolerance <= 3; tolerance++ {
			if !Similar(word, word, tolerance) {
				t.Errorf("Similar(%q, %q, %d) = false, want true", word, word, tolerance)
			}
		}
	}
}

func TestSimilarSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"bound", "bond"},
		{"cat", "bar"},
		{"hat", "heat"},
		{"", "ab"},
	}
	for _, p := range pairs {
		if Similar(p[0], p[1], 1) != Similar(p[1], p[0], 1) {
			t.Errorf("Similar(%q, %q, 1) not symmetric", p[0], p[1])
		}
	}
}
