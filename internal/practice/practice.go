// Package practice drives a speaking-practice session through a lesson's
// phrase list and sentence list. The session is a small event-driven state
// machine: the host environment reports discrete events (recording toggled,
// transcript finalized, feedback playback ended) and the session serializes
// every state change between them. Nothing here talks to a concrete speech engine,
// audio output, or database; those arrive through the interfaces below.
package practice

import (
	"context"
	"errors"
)

var (
	// ErrSpeechUnsupported means the host has no speech recognition engine.
	// Fatal for the session; there is no retry path at this layer.
	ErrSpeechUnsupported = errors.New("speech recognition not supported")

	// ErrNoContent means the lesson has no phrases and no sentences.
	ErrNoContent = errors.New("lesson has no practice content")

	// ErrSoundPlaying rejects an action while a feedback clip is playing.
	// All interaction is suspended until PlaybackEnded arrives.
	ErrSoundPlaying = errors.New("feedback sound is playing")

	// ErrCompleted rejects recording events after the lesson is done.
	ErrCompleted = errors.New("lesson already completed")
)

// Mode identifies which content pool the session is working through.
type Mode string

const (
	ModePhrases   Mode = "phrases"
	ModeSentences Mode = "sentences"
	ModeCompleted Mode = "completed"
)

// ContentItem is one unit of practice: its display text and the word count
// computed from the normalized text at authoring time. WordCount is also the
// point value awarded on first completion.
type ContentItem struct {
	Text      string `json:"text"`
	WordCount int    `json:"word_count"`
}

// LessonContent is the immutable content of a lesson for the duration of a
// session: the ordered phrase pool followed by the ordered sentence pool.
type LessonContent struct {
	Phrases   []ContentItem
	Sentences []ContentItem
}

// Total returns the combined number of practice items.
func (l *LessonContent) Total() int {
	return len(l.Phrases) + len(l.Sentences)
}

// Progress is the persisted per-user per-lesson record the session resumes
// from. The index slices list content positions already credited with points.
type Progress struct {
	CompletedContentCount int
	CompletedPhrases      []int
	CompletedSentences    []int
	PracticeSeconds       int
}

// Commit describes one progress mutation: the new cumulative count, the
// points earned by this step (zero when the index was already credited), and
// which content item was completed. Stores merge the index into the matching
// completed set; re-sending a credited index must not re-award points.
type Commit struct {
	CompletedContentCount int
	PointsDelta           int
	ContentIndex          int
	ContentType           Mode
	DurationSecondsDelta  int
}

// ProgressStore persists practice progress. Implementations must treat
// CommitProgress as a merge and ResetProgress as zeroing the record without
// deleting it.
type ProgressStore interface {
	GetProgress(ctx context.Context, userID, lessonID int64) (*Progress, error)
	CommitProgress(ctx context.Context, userID, lessonID int64, c Commit) error
	ResetProgress(ctx context.Context, userID, lessonID int64) error
}

// Recognizer abstracts the speech-to-text engine. The session only commands
// it; transcripts come back through Session.TranscriptFinalized as events.
type Recognizer interface {
	Supported() bool
	Start() error
	Stop() error
}

// Voice selects the TTS voice used to play target content aloud.
type Voice string

const (
	VoiceUS Voice = "en-US"
	VoiceGB Voice = "en-GB"
)

// Speaker abstracts text-to-speech playback of the target content.
type Speaker interface {
	Speak(text string, voice Voice) error
}

// Clip identifies one of the three feedback sounds.
type Clip string

const (
	ClipSuccess      Clip = "success"
	ClipFailure      Clip = "fail"
	ClipGrandSuccess Clip = "grand-success"
)

// FeedbackPlayer starts a feedback clip. Playback completion is reported
// back to the session as a PlaybackEnded event, not through this interface.
type FeedbackPlayer interface {
	Play(clip Clip) error
}
