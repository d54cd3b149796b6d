package handlers

import (
	"errors"
	"net/http"
	"time"

	"speechcoach/internal/service"
)

// ProgressHandler serves progress summaries for the authenticated user
type ProgressHandler struct {
	progressService *service.ProgressService
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(progressService *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// LessonProgress returns the caller's progress on one lesson.
func (h *ProgressHandler) LessonProgress(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	lessonID, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid lesson ID", "", nil)
		return
	}

	summary, err := h.progressService.LessonProgress(user.ID, lessonID)
	if err != nil {
		if errors.Is(err, service.ErrLessonNotFound) {
			respondWithError(w, http.StatusNotFound, ErrNotFound, "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to load lesson progress", err)
		return
	}

	respondWithJSON(w, http.StatusOK, newLessonProgressView(*summary))
}

// CourseProgress returns the caller's roll-up across a course's lessons.
func (h *ProgressHandler) CourseProgress(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	courseID, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid course ID", "", nil)
		return
	}

	summary, err := h.progressService.CourseProgress(user.ID, courseID)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			respondWithError(w, http.StatusNotFound, ErrNotFound, "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to load course progress", err)
		return
	}

	view := courseProgressView{
		CourseID:        summary.CourseID,
		CourseTitle:     summary.CourseTitle,
		Lessons:         make([]lessonProgressView, 0, len(summary.Lessons)),
		CompletedCount:  summary.CompletedCount,
		TotalCount:      summary.TotalCount,
		PracticeSeconds: summary.PracticeSeconds,
		Finished:        summary.Finished(),
	}
	for _, l := range summary.Lessons {
		view.Lessons = append(view.Lessons, newLessonProgressView(l))
	}
	respondWithJSON(w, http.StatusOK, view)
}

type progressRecordView struct {
	LessonID              int64     `json:"lesson_id"`
	CompletedContentCount int       `json:"completed_content_count"`
	PracticeSeconds       int       `json:"practice_seconds"`
	LastPracticedAt       time.Time `json:"last_practiced_at"`
}

// AllProgress returns every lesson the caller has practiced.
func (h *ProgressHandler) AllProgress(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	records, err := h.progressService.AllProgress(user.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to load progress", err)
		return
	}

	views := make([]progressRecordView, 0, len(records))
	for _, p := range records {
		views = append(views, progressRecordView{
			LessonID:              p.LessonID,
			CompletedContentCount: p.CompletedContentCount,
			PracticeSeconds:       p.PracticeSeconds,
			LastPracticedAt:       p.LastPracticedAt,
		})
	}
	respondWithJSON(w, http.StatusOK, views)
}
