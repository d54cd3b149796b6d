package handlers

import (
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"speechcoach/internal/audio"
	"speechcoach/internal/models"
	"speechcoach/internal/practice"
	"speechcoach/internal/service"
)

// PracticeHandler drives practice sessions over HTTP. Sessions live in
// memory keyed by an opaque session ID; each client event is an endpoint
// that feeds the state machine and returns its fresh snapshot along with
// any audio the client should play.
type PracticeHandler struct {
	lessonService   *service.LessonService
	progressService *service.ProgressService
	ttsService      *audio.TTSService

	mu       sync.Mutex
	sessions map[string]*practiceEntry
}

// NewPracticeHandler creates a new practice handler
func NewPracticeHandler(lessonService *service.LessonService, progressService *service.ProgressService, ttsService *audio.TTSService) *PracticeHandler {
	return &PracticeHandler{
		lessonService:   lessonService,
		progressService: progressService,
		ttsService:      ttsService,
		sessions:        make(map[string]*practiceEntry),
	}
}

// practiceEntry is one live session. The entry mutex serializes events,
// which the Session requires.
type practiceEntry struct {
	mu      sync.Mutex
	userID  int64
	session *practice.Session
	sounds  *clipQueue
}

// clipQueue collects the audio a session asks for during one event so the
// response can hand the URLs to the client player. It doubles as the
// session's Speaker and FeedbackPlayer.
type clipQueue struct {
	tts  *audio.TTSService
	urls []string
}

func (q *clipQueue) Speak(text string, voice practice.Voice) error {
	filename, err := q.tts.GenerateClip(text, audio.Voice(voice))
	if err != nil {
		return err
	}
	q.urls = append(q.urls, "/static/audio/"+filename)
	return nil
}

func (q *clipQueue) Play(clip practice.Clip) error {
	filename, ok := audio.FeedbackClips[string(clip)]
	if !ok {
		return errors.New("unknown feedback clip")
	}
	q.urls = append(q.urls, "/static/audio/"+filename)
	return nil
}

func (q *clipQueue) drain() []string {
	urls := q.urls
	q.urls = nil
	return urls
}

// clientRecognizer stands in for the speech engine that runs in the
// client. Start and Stop become hints in the response; transcripts arrive
// back as events.
type clientRecognizer struct{}

func (clientRecognizer) Supported() bool { return true }
func (clientRecognizer) Start() error    { return nil }
func (clientRecognizer) Stop() error     { return nil }

type practiceResponse struct {
	SessionID string         `json:"session_id"`
	State     practice.State `json:"state"`
	Play      []string       `json:"play,omitempty"`
}

type startPracticeRequest struct {
	SoundEnabled *bool `json:"sound_enabled"`
}

// StartPractice builds a session for a lesson, resuming from the caller's
// persisted progress. Any previous session the user had is discarded.
func (h *PracticeHandler) StartPractice(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	lessonID, err := parseIDParam(r, "lessonId")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid lesson ID", "", nil)
		return
	}

	soundEnabled := true
	var req startPracticeRequest
	if err := decodeJSON(r, &req); err == nil && req.SoundEnabled != nil {
		soundEnabled = *req.SoundEnabled
	}

	lesson, err := h.lessonService.GetLesson(lessonID)
	if err != nil {
		if errors.Is(err, service.ErrLessonNotFound) {
			respondWithError(w, http.StatusNotFound, ErrNotFound, "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to load lesson", err)
		return
	}

	sounds := &clipQueue{tts: h.ttsService}
	session, err := practice.NewSession(r.Context(), practice.Config{
		UserID:       user.ID,
		LessonID:     lessonID,
		Lesson:       lessonContent(lesson),
		Store:        h.progressService,
		Recognizer:   clientRecognizer{},
		Speaker:      sounds,
		Feedback:     sounds,
		SoundEnabled: soundEnabled,
	})
	if err != nil {
		switch {
		case errors.Is(err, practice.ErrNoContent):
			respondWithError(w, http.StatusUnprocessableEntity, "Lesson has no practice content", "", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to start practice session", err)
		}
		return
	}

	sid := uuid.New().String()
	h.mu.Lock()
	h.dropUserSessionLocked(user.ID)
	h.sessions[sid] = &practiceEntry{userID: user.ID, session: session, sounds: sounds}
	h.mu.Unlock()

	respondWithJSON(w, http.StatusCreated, practiceResponse{
		SessionID: sid,
		State:     session.State(),
		Play:      sounds.drain(),
	})
}

// GetState returns the current session snapshot without feeding an event.
func (h *PracticeHandler) GetState(w http.ResponseWriter, r *http.Request) {
	entry, sid, ok := h.lookup(w, r)
	if !ok {
		return
	}

	entry.mu.Lock()
	state := entry.session.State()
	entry.mu.Unlock()

	respondWithJSON(w, http.StatusOK, practiceResponse{SessionID: sid, State: state})
}

// Record toggles the client's recording state.
func (h *PracticeHandler) Record(w http.ResponseWriter, r *http.Request) {
	h.handleEvent(w, r, func(s *practice.Session) error {
		return s.Record()
	})
}

type transcriptRequest struct {
	Transcript string `json:"transcript"`
}

// Transcript delivers a finalized transcript from the client's engine.
func (h *PracticeHandler) Transcript(w http.ResponseWriter, r *http.Request) {
	var req transcriptRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}

	h.handleEvent(w, r, func(s *practice.Session) error {
		return s.TranscriptFinalized(r.Context(), req.Transcript)
	})
}

// PlaybackEnded reports that the client finished playing a feedback clip.
func (h *PracticeHandler) PlaybackEnded(w http.ResponseWriter, r *http.Request) {
	h.handleEvent(w, r, func(s *practice.Session) error {
		return s.PlaybackEnded(r.Context())
	})
}

// PlayContent asks for the current target to be spoken aloud.
func (h *PracticeHandler) PlayContent(w http.ResponseWriter, r *http.Request) {
	h.handleEvent(w, r, func(s *practice.Session) error {
		return s.PlayContent()
	})
}

// SwitchVoice flips between the US and GB voices.
func (h *PracticeHandler) SwitchVoice(w http.ResponseWriter, r *http.Request) {
	h.handleEvent(w, r, func(s *practice.Session) error {
		s.SwitchVoice()
		return nil
	})
}

// Next skips the current item without credit.
func (h *PracticeHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.handleEvent(w, r, func(s *practice.Session) error {
		return s.Next()
	})
}

// Back steps to the previous item.
func (h *PracticeHandler) Back(w http.ResponseWriter, r *http.Request) {
	h.handleEvent(w, r, func(s *practice.Session) error {
		return s.GoBack()
	})
}

// Reset clears the caller's progress on the lesson and restarts it.
func (h *PracticeHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.handleEvent(w, r, func(s *practice.Session) error {
		return s.Reset(r.Context())
	})
}

// Exit stops and discards the session.
func (h *PracticeHandler) Exit(w http.ResponseWriter, r *http.Request) {
	entry, sid, ok := h.lookup(w, r)
	if !ok {
		return
	}

	entry.mu.Lock()
	if err := entry.session.Stop(); err != nil {
		log.Printf("failed to stop practice session %s: %v", sid, err)
	}
	entry.mu.Unlock()

	h.mu.Lock()
	delete(h.sessions, sid)
	h.mu.Unlock()

	respondWithJSON(w, http.StatusNoContent, nil)
}

func (h *PracticeHandler) handleEvent(w http.ResponseWriter, r *http.Request, event func(*practice.Session) error) {
	entry, sid, ok := h.lookup(w, r)
	if !ok {
		return
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if err := event(entry.session); err != nil {
		switch {
		case errors.Is(err, practice.ErrSoundPlaying):
			respondWithError(w, http.StatusConflict, "Feedback sound is playing", "", nil)
		case errors.Is(err, practice.ErrCompleted):
			respondWithError(w, http.StatusConflict, "Lesson already completed", "", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "practice event failed", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, practiceResponse{
		SessionID: sid,
		State:     entry.session.State(),
		Play:      entry.sounds.drain(),
	})
}

// lookup resolves the session ID path parameter to the caller's entry.
func (h *PracticeHandler) lookup(w http.ResponseWriter, r *http.Request) (*practiceEntry, string, bool) {
	user := GetUserFromContext(r.Context())
	sid := r.PathValue("sid")

	h.mu.Lock()
	entry, ok := h.sessions[sid]
	h.mu.Unlock()

	if !ok || entry.userID != user.ID {
		respondWithError(w, http.StatusNotFound, "No such practice session", "", nil)
		return nil, "", false
	}
	return entry, sid, true
}

// dropUserSessionLocked removes any existing session owned by userID.
// Caller holds h.mu.
func (h *PracticeHandler) dropUserSessionLocked(userID int64) {
	for sid, entry := range h.sessions {
		if entry.userID == userID {
			delete(h.sessions, sid)
		}
	}
}

// lessonContent maps stored lesson content into the session's input shape.
func lessonContent(lesson *models.LessonWithContent) *practice.LessonContent {
	content := &practice.LessonContent{
		Phrases:   make([]practice.ContentItem, 0, len(lesson.Phrases)),
		Sentences: make([]practice.ContentItem, 0, len(lesson.Sentences)),
	}
	for _, c := range lesson.Phrases {
		content.Phrases = append(content.Phrases, practice.ContentItem{Text: c.Text, WordCount: c.WordCount})
	}
	for _, c := range lesson.Sentences {
		content.Sentences = append(content.Sentences, practice.ContentItem{Text: c.Text, WordCount: c.WordCount})
	}
	return content
}
