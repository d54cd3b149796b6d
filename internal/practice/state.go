package practice

import "speechcoach/internal/speech"

// WordFeedback is one display word of the current target annotated with the
// outcome of the last attempt, ready for UI rendering.
type WordFeedback struct {
	Word   string `json:"word"`
	Result string `json:"result"`
}

// State is a snapshot of the session for the UI layer.
type State struct {
	Mode           Mode           `json:"mode"`
	Index          int            `json:"index"`
	CurrentText    string         `json:"current_text,omitempty"`
	CompletedCount int            `json:"completed_count"`
	TotalCount     int            `json:"total_count"`
	SessionPoints  int            `json:"session_points"`
	Listening      bool           `json:"listening"`
	SoundPlaying   bool           `json:"sound_playing"`
	Attempted      bool           `json:"attempted"`
	Matched        bool           `json:"matched"`
	Transcript     string         `json:"transcript,omitempty"`
	Voice          Voice          `json:"voice"`
	Feedback       []WordFeedback `json:"feedback,omitempty"`
	Hint           *speech.Hint   `json:"hint,omitempty"`
}

// State renders the current session snapshot, including the per-word diff of
// the last attempt and, for mismatches, a retry hint naming the word to work
// on.
func (s *Session) State() State {
	st := State{
		Mode:           s.mode,
		Index:          s.index,
		CompletedCount: s.completedCount,
		TotalCount:     s.cfg.Lesson.Total(),
		SessionPoints:  s.sessionPoints,
		Listening:      s.listening,
		SoundPlaying:   s.soundPlaying,
		Attempted:      s.attempted,
		Matched:        s.lastMatched,
		Transcript:     s.lastTranscript,
		Voice:          s.voice,
	}

	current, ok := s.Current()
	if !ok {
		return st
	}
	st.CurrentText = current.Text

	if s.attempted {
		for _, d := range s.matcher.Diff(current.Text, s.lastTranscript) {
			st.Feedback = append(st.Feedback, WordFeedback{Word: d.Word, Result: resultLabel(d.Result)})
		}
		if !s.lastMatched {
			if hint, ok := speech.RetryHint(current.Text, s.lastTranscript); ok {
				st.Hint = &hint
			}
		}
	}

	return st
}

func resultLabel(r speech.WordResult) string {
	switch r {
	case speech.ResultMatch:
		return "match"
	case speech.ResultMismatch:
		return "mismatch"
	default:
		return "unscored"
	}
}
