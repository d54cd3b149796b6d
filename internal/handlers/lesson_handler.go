package handlers

import (
	"errors"
	"net/http"

	"speechcoach/internal/audio"
	"speechcoach/internal/service"
	"speechcoach/internal/validation"
)

// LessonHandler handles lesson authoring and retrieval HTTP requests
type LessonHandler struct {
	lessonService *service.LessonService
	ttsService    *audio.TTSService
}

// NewLessonHandler creates a new lesson handler
func NewLessonHandler(lessonService *service.LessonService, ttsService *audio.TTSService) *LessonHandler {
	return &LessonHandler{
		lessonService: lessonService,
		ttsService:    ttsService,
	}
}

// ListLessons returns the ordered lessons of a course.
func (h *LessonHandler) ListLessons(w http.ResponseWriter, r *http.Request) {
	courseID, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid course ID", "", nil)
		return
	}

	lessons, err := h.lessonService.ListLessons(courseID)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			respondWithError(w, http.StatusNotFound, ErrNotFound, "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to list lessons", err)
		return
	}

	views := make([]lessonView, 0, len(lessons))
	for i := range lessons {
		views = append(views, newLessonView(&lessons[i]))
	}
	respondWithJSON(w, http.StatusOK, views)
}

// GetLesson returns a lesson with its phrase and sentence pools.
func (h *LessonHandler) GetLesson(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid lesson ID", "", nil)
		return
	}

	lesson, err := h.lessonService.GetLesson(id)
	if err != nil {
		if errors.Is(err, service.ErrLessonNotFound) {
			respondWithError(w, http.StatusNotFound, ErrNotFound, "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to load lesson", err)
		return
	}

	view := lessonDetailView{
		lessonView:  newLessonView(&lesson.Lesson),
		Phrases:     newContentViews(lesson.Phrases),
		Sentences:   newContentViews(lesson.Sentences),
		TotalPoints: lesson.TotalPoints(),
	}
	respondWithJSON(w, http.StatusOK, view)
}

type lessonRequest struct {
	CourseID    int64    `json:"course_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Position    int      `json:"position"`
	Phrases     []string `json:"phrases"`
	Sentences   []string `json:"sentences"`
}

func (req *lessonRequest) toInput() service.LessonInput {
	return service.LessonInput{
		CourseID:    req.CourseID,
		Title:       req.Title,
		Description: req.Description,
		Position:    req.Position,
		Phrases:     req.Phrases,
		Sentences:   req.Sentences,
	}
}

// CreateLesson creates a lesson with its practice content.
func (h *LessonHandler) CreateLesson(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req lessonRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}

	id, err := h.lessonService.CreateLesson(req.toInput(), user)
	if err != nil {
		h.respondLessonError(w, err, "failed to create lesson")
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// UpdateLesson replaces a lesson and its content pools.
func (h *LessonHandler) UpdateLesson(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid lesson ID", "", nil)
		return
	}

	var req lessonRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}

	if err := h.lessonService.UpdateLesson(id, req.toInput(), user); err != nil {
		h.respondLessonError(w, err, "failed to update lesson")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// DeleteLesson removes a lesson and its content.
func (h *LessonHandler) DeleteLesson(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid lesson ID", "", nil)
		return
	}

	if err := h.lessonService.DeleteLesson(id, user); err != nil {
		h.respondLessonError(w, err, "failed to delete lesson")
		return
	}

	respondWithJSON(w, http.StatusNoContent, nil)
}

// AudioManifest generates (or reuses cached) TTS clips for every content
// item of a lesson and returns text-to-URL mappings for the client player.
func (h *LessonHandler) AudioManifest(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid lesson ID", "", nil)
		return
	}

	voice := audio.VoiceUS
	if r.URL.Query().Get("voice") == string(audio.VoiceGB) {
		voice = audio.VoiceGB
	}

	lesson, err := h.lessonService.GetLesson(id)
	if err != nil {
		if errors.Is(err, service.ErrLessonNotFound) {
			respondWithError(w, http.StatusNotFound, ErrNotFound, "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to load lesson", err)
		return
	}

	texts := make([]string, 0, lesson.TotalItems())
	for _, c := range lesson.Phrases {
		texts = append(texts, c.Text)
	}
	for _, c := range lesson.Sentences {
		texts = append(texts, c.Text)
	}

	clips, err := h.ttsService.BatchGenerateClips(texts, voice)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "Audio generation failed", "failed to generate lesson audio", err)
		return
	}

	manifest := make(map[string]string, len(clips))
	for text, filename := range clips {
		manifest[text] = "/static/audio/" + filename
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"voice": string(voice),
		"clips": manifest,
	})
}

func (h *LessonHandler) respondLessonError(w http.ResponseWriter, err error, logMsg string) {
	var verr validation.ValidationError
	switch {
	case errors.As(err, &verr):
		respondWithError(w, http.StatusBadRequest, verr.Error(), "", nil)
	case errors.Is(err, service.ErrLessonNotFound), errors.Is(err, service.ErrCourseNotFound):
		respondWithError(w, http.StatusNotFound, ErrNotFound, "", nil)
	case errors.Is(err, service.ErrNotCourseOwner):
		respondWithError(w, http.StatusForbidden, ErrForbidden, "", nil)
	default:
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, logMsg, err)
	}
}
