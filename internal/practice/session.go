package practice

import (
	"context"
	"time"

	"speechcoach/internal/speech"
)

// pendingAction is the state change deferred until feedback playback ends.
type pendingAction int

const (
	pendingNone pendingAction = iota
	pendingAdvance
	pendingRetry
)

// Config wires a Session to its collaborators.
type Config struct {
	UserID   int64
	LessonID int64
	Lesson   *LessonContent

	Store      ProgressStore
	Recognizer Recognizer
	Speaker    Speaker
	Feedback   FeedbackPlayer

	// SoundEnabled gates feedback clips. When false, match outcomes apply
	// immediately instead of waiting for PlaybackEnded.
	SoundEnabled bool

	// Now is the clock used for practice-duration accounting. Defaults to
	// time.Now.
	Now func() time.Time
}

// Session is the practice state machine for one user working through one
// lesson. It is not safe for concurrent use; the caller must serialize
// events, mirroring the single-threaded event loop the design assumes.
type Session struct {
	cfg     Config
	matcher speech.Matcher

	mode  Mode
	index int

	completedCount     int
	completedPhrases   map[int]bool
	completedSentences map[int]bool
	sessionPoints      int

	listening     bool
	userInitiated bool
	soundPlaying  bool
	pending       pendingAction
	pendingMatch  bool

	lastTranscript string
	lastMatched    bool
	attempted      bool

	voice    Voice
	lastMark time.Time
}

// NewSession builds a session for the given lesson, seeded from persisted
// progress so resumption lands on the first not-yet-completed item.
//
// Returns ErrSpeechUnsupported when the recognizer reports no capability and
// ErrNoContent when the lesson has neither phrases nor sentences; both are
// terminal conditions the caller renders as static messages.
func NewSession(ctx context.Context, cfg Config) (*Session, error) {
	if cfg.Recognizer == nil || !cfg.Recognizer.Supported() {
		return nil, ErrSpeechUnsupported
	}
	if cfg.Lesson == nil || cfg.Lesson.Total() == 0 {
		return nil, ErrNoContent
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	s := &Session{
		cfg:                cfg,
		matcher:            speech.DefaultMatcher,
		completedPhrases:   make(map[int]bool),
		completedSentences: make(map[int]bool),
		voice:              VoiceUS,
	}
	s.lastMark = cfg.Now()

	progress, err := cfg.Store.GetProgress(ctx, cfg.UserID, cfg.LessonID)
	if err != nil {
		return nil, err
	}
	if progress != nil {
		s.completedCount = progress.CompletedContentCount
		for _, i := range progress.CompletedPhrases {
			s.completedPhrases[i] = true
		}
		for _, i := range progress.CompletedSentences {
			s.completedSentences[i] = true
		}
	}
	s.seekResumePosition()

	return s, nil
}

// seekResumePosition walks completedCount across the phrase pool then the
// sentence pool, landing on the first uncompleted item.
func (s *Session) seekResumePosition() {
	count := s.completedCount
	switch {
	case count < len(s.cfg.Lesson.Phrases):
		s.mode, s.index = ModePhrases, count
	case count-len(s.cfg.Lesson.Phrases) < len(s.cfg.Lesson.Sentences):
		s.mode, s.index = ModeSentences, count-len(s.cfg.Lesson.Phrases)
	default:
		s.mode, s.index = ModeCompleted, 0
	}
}

// pool returns the content slice for the current mode.
func (s *Session) pool() []ContentItem {
	switch s.mode {
	case ModePhrases:
		return s.cfg.Lesson.Phrases
	case ModeSentences:
		return s.cfg.Lesson.Sentences
	}
	return nil
}

// Current returns the content item under practice. ok is false once the
// lesson is completed.
func (s *Session) Current() (ContentItem, bool) {
	pool := s.pool()
	if s.mode == ModeCompleted || s.index >= len(pool) {
		return ContentItem{}, false
	}
	return pool[s.index], true
}

// Record toggles listening. Starting marks the attempt as user-initiated,
// which is what later authorizes the automatic retry after a mismatch.
// Stopping by hand discards any in-flight transcript.
func (s *Session) Record() error {
	if s.soundPlaying {
		return ErrSoundPlaying
	}
	if s.mode == ModeCompleted {
		return ErrCompleted
	}

	if s.listening {
		s.listening = false
		s.userInitiated = false
		s.lastTranscript = ""
		return s.cfg.Recognizer.Stop()
	}

	s.userInitiated = true
	s.listening = true
	return s.cfg.Recognizer.Start()
}

// PlayContent speaks the current target aloud, stopping any active
// recording first so the session never transcribes its own TTS output.
func (s *Session) PlayContent() error {
	if s.soundPlaying {
		return ErrSoundPlaying
	}
	current, ok := s.Current()
	if !ok {
		return ErrCompleted
	}
	if s.listening {
		s.listening = false
		if err := s.cfg.Recognizer.Stop(); err != nil {
			return err
		}
	}
	return s.cfg.Speaker.Speak(current.Text, s.voice)
}

// SwitchVoice flips between the US and GB voices.
func (s *Session) SwitchVoice() {
	if s.voice == VoiceUS {
		s.voice = VoiceGB
	} else {
		s.voice = VoiceUS
	}
}

// Voice returns the currently selected TTS voice.
func (s *Session) Voice() Voice { return s.voice }

// TranscriptFinalized is the central event: listening has stopped and the
// engine produced transcript. The transcript is consumed immediately, so a
// quickly restarted recording can never re-evaluate a stale one. The match
// outcome is classified now; applying it is deferred behind the feedback
// clip when sound is enabled.
func (s *Session) TranscriptFinalized(ctx context.Context, transcript string) error {
	if s.soundPlaying {
		return ErrSoundPlaying
	}
	if s.mode == ModeCompleted {
		return ErrCompleted
	}
	if transcript == "" {
		return nil
	}

	s.listening = false
	s.lastTranscript = transcript
	s.attempted = true

	current, _ := s.Current()
	matched := s.matcher.IsMatch(current.Text, transcript)
	s.lastMatched = matched

	if !s.cfg.SoundEnabled {
		return s.applyOutcome(ctx, matched)
	}

	s.soundPlaying = true
	s.pendingMatch = matched
	if matched {
		s.pending = pendingAdvance
		return s.cfg.Feedback.Play(ClipSuccess)
	}
	s.pending = pendingRetry
	return s.cfg.Feedback.Play(ClipFailure)
}

// PlaybackEnded reports that a feedback clip finished. The deferred outcome
// (advance or retry) runs now; until this event every other action is gated
// by ErrSoundPlaying.
func (s *Session) PlaybackEnded(ctx context.Context) error {
	if !s.soundPlaying {
		return nil
	}
	s.soundPlaying = false

	action := s.pending
	s.pending = pendingNone

	switch action {
	case pendingAdvance:
		return s.applyOutcome(ctx, true)
	case pendingRetry:
		return s.applyOutcome(ctx, false)
	}
	return nil
}

// applyOutcome mutates session state for a classified attempt. On a match
// the credit is committed to the store before local state advances, so a
// failed commit surfaces to the caller with the session still on the same
// item. On a mismatch, a user-initiated attempt automatically restarts
// listening for another try at the same index.
func (s *Session) applyOutcome(ctx context.Context, matched bool) error {
	if !matched {
		if s.userInitiated {
			s.listening = true
			return s.cfg.Recognizer.Start()
		}
		return nil
	}

	current, ok := s.Current()
	if !ok {
		return nil
	}

	points := 0
	firstCompletion := !s.isCompleted(s.mode, s.index)
	if firstCompletion {
		points = current.WordCount
	}

	commit := Commit{
		CompletedContentCount: s.completedCount + 1,
		PointsDelta:           points,
		ContentIndex:          s.index,
		ContentType:           s.mode,
		DurationSecondsDelta:  s.takeDurationDelta(),
	}
	if err := s.cfg.Store.CommitProgress(ctx, s.cfg.UserID, s.cfg.LessonID, commit); err != nil {
		return err
	}

	s.markCompleted(s.mode, s.index)
	s.completedCount++
	s.sessionPoints += points

	return s.advance(true)
}

// Next skips the current item without credit: same movement as a successful
// match, no points, no completed-index marking.
func (s *Session) Next() error {
	if s.soundPlaying {
		return ErrSoundPlaying
	}
	if s.mode == ModeCompleted {
		return ErrCompleted
	}
	return s.advance(false)
}

// advance moves to the next item, crossing from phrases into sentences when
// the phrase pool is exhausted, and into Completed at the very end. After a
// credited advance the session auto-starts listening for the new item; a
// lesson finished by matching (not skipping) also triggers the grand-success
// clip when sound is on.
func (s *Session) advance(credited bool) error {
	s.lastTranscript = ""
	s.lastMatched = false
	s.attempted = false

	pool := s.pool()
	if s.index < len(pool)-1 {
		s.index++
		return s.autoListen(credited)
	}

	if s.mode == ModePhrases && len(s.cfg.Lesson.Sentences) > 0 {
		s.mode = ModeSentences
		s.index = 0
		return s.autoListen(credited)
	}

	s.mode = ModeCompleted
	s.listening = false
	s.userInitiated = false
	if credited && s.cfg.SoundEnabled {
		s.soundPlaying = true
		s.pending = pendingNone
		return s.cfg.Feedback.Play(ClipGrandSuccess)
	}
	return nil
}

// autoListen restarts recognition after a credited advance so the learner
// can speak the next item without touching the record button. The attempt is
// not user-initiated: a mismatch on an auto-started listen waits for the
// learner to press record again instead of retrying on its own.
func (s *Session) autoListen(credited bool) error {
	s.userInitiated = false
	if !credited {
		s.listening = false
		return nil
	}
	s.listening = true
	return s.cfg.Recognizer.Start()
}

// GoBack steps to the previous item, moving from the first sentence back to
// the last phrase when there is one. The completed counter is decremented as
// a best-effort undo of the most recent credit; the completed-index sets are
// deliberately left alone, so a back-step across a credited boundary can
// leave counter and sets disagreeing. That matches the historical behavior
// and is what keeps re-matching the item from double-awarding points.
func (s *Session) GoBack() error {
	if s.soundPlaying {
		return ErrSoundPlaying
	}

	switch {
	case s.index > 0:
		s.index--
		if s.completedCount > 0 {
			s.completedCount--
		}
	case s.mode == ModeSentences && len(s.cfg.Lesson.Phrases) > 0:
		s.mode = ModePhrases
		s.index = len(s.cfg.Lesson.Phrases) - 1
		s.completedCount = len(s.cfg.Lesson.Phrases) - 1
	case s.mode == ModeCompleted:
		// Reopen the final item.
		if len(s.cfg.Lesson.Sentences) > 0 {
			s.mode = ModeSentences
			s.index = len(s.cfg.Lesson.Sentences) - 1
		} else {
			s.mode = ModePhrases
			s.index = len(s.cfg.Lesson.Phrases) - 1
		}
		if s.completedCount > 0 {
			s.completedCount--
		}
	default:
		// Already at the very beginning.
		return nil
	}

	s.lastTranscript = ""
	s.lastMatched = false
	s.attempted = false
	s.listening = true
	s.userInitiated = false
	return s.cfg.Recognizer.Start()
}

// Reset returns the session to its initial state and persists a zeroed
// progress record. Clearing the completed-index sets is what re-arms point
// awards: completing an item again after a reset earns its points again.
func (s *Session) Reset(ctx context.Context) error {
	if s.soundPlaying {
		return ErrSoundPlaying
	}

	if err := s.cfg.Store.ResetProgress(ctx, s.cfg.UserID, s.cfg.LessonID); err != nil {
		return err
	}

	s.completedCount = 0
	s.sessionPoints = 0
	s.completedPhrases = make(map[int]bool)
	s.completedSentences = make(map[int]bool)
	s.index = 0
	if len(s.cfg.Lesson.Phrases) > 0 {
		s.mode = ModePhrases
	} else {
		s.mode = ModeSentences
	}
	s.lastTranscript = ""
	s.lastMatched = false
	s.attempted = false
	s.listening = false
	s.userInitiated = false
	s.lastMark = s.cfg.Now()
	return nil
}

// Stop halts any active recording, e.g. when the learner leaves the page.
func (s *Session) Stop() error {
	if !s.listening {
		return nil
	}
	s.listening = false
	s.userInitiated = false
	return s.cfg.Recognizer.Stop()
}

func (s *Session) isCompleted(mode Mode, index int) bool {
	if mode == ModePhrases {
		return s.completedPhrases[index]
	}
	return s.completedSentences[index]
}

func (s *Session) markCompleted(mode Mode, index int) {
	if mode == ModePhrases {
		s.completedPhrases[index] = true
	} else {
		s.completedSentences[index] = true
	}
}

// takeDurationDelta returns whole seconds elapsed since the previous credit
// and restarts the clock, accumulating practice time across commits.
func (s *Session) takeDurationDelta() int {
	now := s.cfg.Now()
	delta := int(now.Sub(s.lastMark).Seconds())
	s.lastMark = now
	if delta < 0 {
		return 0
	}
	return delta
}
