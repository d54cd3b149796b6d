package practice

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeRecognizer records start/stop commands.
type fakeRecognizer struct {
	supported bool
	starts    int
	stops     int
}

func (f *fakeRecognizer) Supported() bool { return f.supported }
func (f *fakeRecognizer) Start() error    { f.starts++; return nil }
func (f *fakeRecognizer) Stop() error     { f.stops++; return nil }

// fakeStore keeps progress in memory with the same merge semantics the SQL
// store implements.
type fakeStore struct {
	progress  map[int64]*Progress
	points    int
	commits   []Commit
	commitErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{progress: make(map[int64]*Progress)}
}

func (f *fakeStore) GetProgress(_ context.Context, _, lessonID int64) (*Progress, error) {
	return f.progress[lessonID], nil
}

func (f *fakeStore) CommitProgress(_ context.Context, _, lessonID int64, c Commit) error {
	if f.commitErr != nil {
		return f.commitErr
	}
	f.commits = append(f.commits, c)
	p := f.progress[lessonID]
	if p == nil {
		p = &Progress{}
		f.progress[lessonID] = p
	}
	p.CompletedContentCount = c.CompletedContentCount
	if c.ContentType == ModePhrases {
		p.CompletedPhrases = append(p.CompletedPhrases, c.ContentIndex)
	} else {
		p.CompletedSentences = append(p.CompletedSentences, c.ContentIndex)
	}
	p.PracticeSeconds += c.DurationSecondsDelta
	f.points += c.PointsDelta
	return nil
}

func (f *fakeStore) ResetProgress(_ context.Context, _, lessonID int64) error {
	f.progress[lessonID] = &Progress{}
	return nil
}

type fakeSpeaker struct {
	spoken []string
	voices []Voice
}

func (f *fakeSpeaker) Speak(text string, voice Voice) error {
	f.spoken = append(f.spoken, text)
	f.voices = append(f.voices, voice)
	return nil
}

type fakeFeedback struct {
	clips []Clip
}

func (f *fakeFeedback) Play(clip Clip) error {
	f.clips = append(f.clips, clip)
	return nil
}

func testLesson() *LessonContent {
	return &LessonContent{
		Phrases: []ContentItem{
			{Text: "Hello, how are you?", WordCount: 4},
			{Text: "Nice to meet you.", WordCount: 4},
		},
		Sentences: []ContentItem{
			{Text: "I am learning English speaking.", WordCount: 5},
			{Text: "Practice makes perfect.", WordCount: 3},
			{Text: "Could you please repeat that?", WordCount: 5},
		},
	}
}

type harness struct {
	session    *Session
	store      *fakeStore
	recognizer *fakeRecognizer
	speaker    *fakeSpeaker
	feedback   *fakeFeedback
}

func newHarness(t *testing.T, lesson *LessonContent, soundEnabled bool, existing *Progress) *harness {
	t.Helper()
	h := &harness{
		store:      newFakeStore(),
		recognizer: &fakeRecognizer{supported: true},
		speaker:    &fakeSpeaker{},
		feedback:   &fakeFeedback{},
	}
	if existing != nil {
		h.store.progress[7] = existing
	}
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	s, err := NewSession(context.Background(), Config{
		UserID:       1,
		LessonID:     7,
		Lesson:       lesson,
		Store:        h.store,
		Recognizer:   h.recognizer,
		Speaker:      h.speaker,
		Feedback:     h.feedback,
		SoundEnabled: soundEnabled,
		Now:          func() time.Time { now = now.Add(5 * time.Second); return now },
	})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	h.session = s
	return h
}

func (h *harness) speak(t *testing.T, transcript string) {
	t.Helper()
	if err := h.session.TranscriptFinalized(context.Background(), transcript); err != nil {
		t.Fatalf("TranscriptFinalized(%q) error = %v", transcript, err)
	}
}

func TestNewSessionCapabilityError(t *testing.T) {
	_, err := NewSession(context.Background(), Config{
		Lesson:     testLesson(),
		Store:      newFakeStore(),
		Recognizer: &fakeRecognizer{supported: false},
	})
	if !errors.Is(err, ErrSpeechUnsupported) {
		t.Errorf("NewSession() error = %v, want ErrSpeechUnsupported", err)
	}
}

func TestNewSessionEmptyLesson(t *testing.T) {
	_, err := NewSession(context.Background(), Config{
		Lesson:     &LessonContent{},
		Store:      newFakeStore(),
		Recognizer: &fakeRecognizer{supported: true},
	})
	if !errors.Is(err, ErrNoContent) {
		t.Errorf("NewSession() error = %v, want ErrNoContent", err)
	}
}

func TestMatchAdvancesAndCredits(t *testing.T) {
	h := newHarness(t, testLesson(), false, nil)

	h.speak(t, "hello how are you")

	st := h.session.State()
	if st.Mode != ModePhrases || st.Index != 1 {
		t.Fatalf("after first match: mode=%s index=%d, want phrases/1", st.Mode, st.Index)
	}
	if st.CompletedCount != 1 {
		t.Errorf("completed count = %d, want 1", st.CompletedCount)
	}
	if h.store.points != 4 {
		t.Errorf("awarded points = %d, want 4", h.store.points)
	}
	if h.recognizer.starts != 1 {
		t.Errorf("recognizer starts = %d, want 1 (auto-listen after advance)", h.recognizer.starts)
	}
}

func TestPhrasesRollIntoSentences(t *testing.T) {
	h := newHarness(t, testLesson(), false, nil)

	h.speak(t, "hello how are you")
	h.speak(t, "nice to meet you")

	st := h.session.State()
	if st.Mode != ModeSentences || st.Index != 0 {
		t.Fatalf("after both phrases: mode=%s index=%d, want sentences/0", st.Mode, st.Index)
	}
	if st.CompletedCount != 2 {
		t.Errorf("completed count = %d, want 2", st.CompletedCount)
	}
}

func TestMismatchRetriesSameIndex(t *testing.T) {
	h := newHarness(t, testLesson(), false, nil)

	if err := h.session.Record(); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	h.speak(t, "completely different words")

	st := h.session.State()
	if st.Mode != ModePhrases || st.Index != 0 {
		t.Fatalf("after mismatch: mode=%s index=%d, want phrases/0", st.Mode, st.Index)
	}
	if st.CompletedCount != 0 || h.store.points != 0 {
		t.Errorf("mismatch must not credit: count=%d points=%d", st.CompletedCount, h.store.points)
	}
	// Record() started once, mismatch auto-retry started again.
	if h.recognizer.starts != 2 {
		t.Errorf("recognizer starts = %d, want 2 (user start + auto retry)", h.recognizer.starts)
	}
	if !st.Listening {
		t.Error("session should be listening again after a user-initiated mismatch")
	}
}

func TestMismatchWithoutUserRecordDoesNotRetry(t *testing.T) {
	h := newHarness(t, testLesson(), false, nil)

	h.speak(t, "completely different words")

	if h.recognizer.starts != 0 {
		t.Errorf("recognizer starts = %d, want 0 (no auto retry without explicit record)", h.recognizer.starts)
	}
}

func TestMismatchAfterAutoAdvanceDoesNotRetry(t *testing.T) {
	h := newHarness(t, testLesson(), false, nil)

	if err := h.session.Record(); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	h.speak(t, "hello how are you")

	// Record() started once, the credited advance auto-listened once.
	if h.recognizer.starts != 2 {
		t.Fatalf("recognizer starts = %d, want 2 (user start + auto-listen)", h.recognizer.starts)
	}

	h.speak(t, "completely different words")

	if h.recognizer.starts != 2 {
		t.Errorf("recognizer starts = %d, want 2 (auto-started listen must not auto-retry)", h.recognizer.starts)
	}
	if h.session.State().Listening {
		t.Error("session should wait for the record button after a mismatch on an auto-started listen")
	}
}

func TestMismatchAfterGoBackDoesNotRetry(t *testing.T) {
	h := newHarness(t, testLesson(), false, nil)

	h.speak(t, "hello how are you")
	if err := h.session.GoBack(); err != nil {
		t.Fatalf("GoBack() error = %v", err)
	}

	startsAfterBack := h.recognizer.starts
	h.speak(t, "completely different words")

	if h.recognizer.starts != startsAfterBack {
		t.Errorf("recognizer starts = %d, want %d (mismatch after go-back must wait for record)", h.recognizer.starts, startsAfterBack)
	}
}

func TestSoundGatingDefersOutcome(t *testing.T) {
	h := newHarness(t, testLesson(), true, nil)

	h.speak(t, "hello how are you")

	st := h.session.State()
	if !st.SoundPlaying {
		t.Fatal("expected feedback sound to be playing")
	}
	if st.Index != 0 || st.CompletedCount != 0 {
		t.Fatalf("outcome applied before playback ended: index=%d count=%d", st.Index, st.CompletedCount)
	}
	if len(h.feedback.clips) != 1 || h.feedback.clips[0] != ClipSuccess {
		t.Fatalf("clips = %v, want [success]", h.feedback.clips)
	}

	// Everything is suspended while the clip plays.
	if err := h.session.Next(); !errors.Is(err, ErrSoundPlaying) {
		t.Errorf("Next() during playback = %v, want ErrSoundPlaying", err)
	}
	if err := h.session.Record(); !errors.Is(err, ErrSoundPlaying) {
		t.Errorf("Record() during playback = %v, want ErrSoundPlaying", err)
	}

	if err := h.session.PlaybackEnded(context.Background()); err != nil {
		t.Fatalf("PlaybackEnded() error = %v", err)
	}
	st = h.session.State()
	if st.Index != 1 || st.CompletedCount != 1 {
		t.Errorf("after playback: index=%d count=%d, want 1/1", st.Index, st.CompletedCount)
	}
}

func TestGrandSuccessOnLessonCompletion(t *testing.T) {
	lesson := &LessonContent{
		Phrases: []ContentItem{{Text: "Thank you very much.", WordCount: 4}},
	}
	h := newHarness(t, lesson, true, nil)

	h.speak(t, "thank you very much")
	if err := h.session.PlaybackEnded(context.Background()); err != nil {
		t.Fatalf("PlaybackEnded() error = %v", err)
	}

	st := h.session.State()
	if st.Mode != ModeCompleted {
		t.Fatalf("mode = %s, want completed", st.Mode)
	}
	if !st.SoundPlaying {
		t.Error("grand-success clip should be playing")
	}
	if len(h.feedback.clips) != 2 || h.feedback.clips[1] != ClipGrandSuccess {
		t.Errorf("clips = %v, want [success grand-success]", h.feedback.clips)
	}

	if err := h.session.PlaybackEnded(context.Background()); err != nil {
		t.Fatalf("final PlaybackEnded() error = %v", err)
	}
	if err := h.session.Record(); !errors.Is(err, ErrCompleted) {
		t.Errorf("Record() after completion = %v, want ErrCompleted", err)
	}
}

func TestSkipAdvancesWithoutCredit(t *testing.T) {
	h := newHarness(t, testLesson(), false, nil)

	if err := h.session.Next(); err != nil {
		t.Fatalf("Next() error = %v", err)
	}

	st := h.session.State()
	if st.Index != 1 {
		t.Errorf("index = %d, want 1", st.Index)
	}
	if st.CompletedCount != 0 || h.store.points != 0 || len(h.store.commits) != 0 {
		t.Errorf("skip must not credit: count=%d points=%d commits=%d",
			st.CompletedCount, h.store.points, len(h.store.commits))
	}
}

func TestIdempotentScoring(t *testing.T) {
	h := newHarness(t, testLesson(), false, nil)

	h.speak(t, "hello how are you")
	if h.store.points != 4 {
		t.Fatalf("points after first completion = %d, want 4", h.store.points)
	}

	// Step back and complete the same phrase again: no double award.
	if err := h.session.GoBack(); err != nil {
		t.Fatalf("GoBack() error = %v", err)
	}
	h.speak(t, "hello how are you")
	if h.store.points != 4 {
		t.Errorf("points after re-completion = %d, want 4 (no double award)", h.store.points)
	}

	// Reset clears the completed sets, so the award re-arms.
	if err := h.session.Reset(context.Background()); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	h.speak(t, "hello how are you")
	if h.store.points != 8 {
		t.Errorf("points after reset and re-completion = %d, want 8", h.store.points)
	}
}

func TestGoBackAcrossModeBoundary(t *testing.T) {
	h := newHarness(t, testLesson(), false, nil)

	h.speak(t, "hello how are you")
	h.speak(t, "nice to meet you")
	st := h.session.State()
	if st.Mode != ModeSentences || st.Index != 0 {
		t.Fatalf("setup failed: mode=%s index=%d", st.Mode, st.Index)
	}

	if err := h.session.GoBack(); err != nil {
		t.Fatalf("GoBack() error = %v", err)
	}
	st = h.session.State()
	if st.Mode != ModePhrases || st.Index != 1 {
		t.Errorf("after boundary GoBack: mode=%s index=%d, want phrases/1", st.Mode, st.Index)
	}
	if st.CompletedCount != 1 {
		t.Errorf("completed count = %d, want 1 (best-effort undo)", st.CompletedCount)
	}
}

func TestGoBackAtStartIsNoop(t *testing.T) {
	h := newHarness(t, testLesson(), false, nil)
	if err := h.session.GoBack(); err != nil {
		t.Fatalf("GoBack() error = %v", err)
	}
	st := h.session.State()
	if st.Mode != ModePhrases || st.Index != 0 || st.CompletedCount != 0 {
		t.Errorf("GoBack at start changed state: %+v", st)
	}
	if h.recognizer.starts != 0 {
		t.Error("GoBack at start should not restart listening")
	}
}

func TestResumeSeedsPosition(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		wantMode  Mode
		wantIndex int
	}{
		{name: "fresh", completed: 0, wantMode: ModePhrases, wantIndex: 0},
		{name: "mid phrases", completed: 1, wantMode: ModePhrases, wantIndex: 1},
		{name: "into sentences", completed: 3, wantMode: ModeSentences, wantIndex: 1},
		{name: "fully done", completed: 5, wantMode: ModeCompleted, wantIndex: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, testLesson(), false, &Progress{CompletedContentCount: tt.completed})
			st := h.session.State()
			if st.Mode != tt.wantMode || st.Index != tt.wantIndex {
				t.Errorf("resume(%d): mode=%s index=%d, want %s/%d",
					tt.completed, st.Mode, st.Index, tt.wantMode, tt.wantIndex)
			}
		})
	}
}

func TestCommitFailureKeepsPosition(t *testing.T) {
	h := newHarness(t, testLesson(), false, nil)
	h.store.commitErr = errors.New("store down")

	err := h.session.TranscriptFinalized(context.Background(), "hello how are you")
	if err == nil {
		t.Fatal("expected commit error to propagate")
	}

	// Commit-before-advance: the session must still be on the same item.
	st := h.session.State()
	if st.Mode != ModePhrases || st.Index != 0 || st.CompletedCount != 0 {
		t.Errorf("state advanced despite failed commit: %+v", st)
	}
}

func TestStaleTranscriptNotReevaluated(t *testing.T) {
	h := newHarness(t, testLesson(), false, nil)

	h.speak(t, "hello how are you")
	// The buffer was consumed; an empty finalize right after is a no-op.
	h.speak(t, "")

	st := h.session.State()
	if st.CompletedCount != 1 || len(h.store.commits) != 1 {
		t.Errorf("empty finalize re-evaluated state: count=%d commits=%d",
			st.CompletedCount, len(h.store.commits))
	}
}

func TestPlayContentStopsListening(t *testing.T) {
	h := newHarness(t, testLesson(), false, nil)

	if err := h.session.Record(); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := h.session.PlayContent(); err != nil {
		t.Fatalf("PlayContent() error = %v", err)
	}

	if h.recognizer.stops != 1 {
		t.Errorf("recognizer stops = %d, want 1", h.recognizer.stops)
	}
	if len(h.speaker.spoken) != 1 || h.speaker.spoken[0] != "Hello, how are you?" {
		t.Errorf("spoken = %v", h.speaker.spoken)
	}
}

func TestSwitchVoice(t *testing.T) {
	h := newHarness(t, testLesson(), false, nil)
	if h.session.Voice() != VoiceUS {
		t.Fatalf("default voice = %s, want en-US", h.session.Voice())
	}
	h.session.SwitchVoice()
	if err := h.session.PlayContent(); err != nil {
		t.Fatalf("PlayContent() error = %v", err)
	}
	if h.speaker.voices[0] != VoiceGB {
		t.Errorf("voice used = %s, want en-GB", h.speaker.voices[0])
	}
}

func TestDurationAccumulates(t *testing.T) {
	h := newHarness(t, testLesson(), false, nil)

	h.speak(t, "hello how are you")
	h.speak(t, "nice to meet you")

	total := 0
	for _, c := range h.store.commits {
		total += c.DurationSecondsDelta
	}
	if total <= 0 {
		t.Errorf("accumulated duration = %d, want > 0", total)
	}
}
