package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"speechcoach/internal/models"
	"speechcoach/internal/service"
	"speechcoach/internal/validation"
)

// CourseHandler handles course catalog HTTP requests
type CourseHandler struct {
	courseService *service.CourseService
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courseService *service.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// ListCourses returns the catalog, narrowed by query filters.
func (h *CourseHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.CourseFilter{
		Category: q.Get("category"),
		Level:    q.Get("level"),
		Skill:    q.Get("skill"),
		Search:   q.Get("search"),
		Featured: q.Get("featured") == "true",
	}
	if raw := q.Get("min_rating"); raw != "" {
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid min_rating", "", nil)
			return
		}
		filter.MinRating = rating
	}

	courses, err := h.courseService.ListCourses(filter)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to list courses", err)
		return
	}

	views := make([]courseView, 0, len(courses))
	for i := range courses {
		view := newCourseView(&courses[i].Course)
		view.LessonCount = courses[i].LessonCount
		views = append(views, view)
	}
	respondWithJSON(w, http.StatusOK, views)
}

type courseDetailView struct {
	courseView
	Lessons []lessonView `json:"lessons"`
}

// GetCourse returns one course with its lesson list.
func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid course ID", "", nil)
		return
	}

	course, lessons, err := h.courseService.GetCourse(id)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			respondWithError(w, http.StatusNotFound, ErrNotFound, "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to load course", err)
		return
	}

	view := courseDetailView{courseView: newCourseView(course), Lessons: make([]lessonView, 0, len(lessons))}
	view.LessonCount = len(lessons)
	for i := range lessons {
		view.Lessons = append(view.Lessons, newLessonView(&lessons[i]))
	}
	respondWithJSON(w, http.StatusOK, view)
}

type courseRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Level       string   `json:"level"`
	Skills      []string `json:"skills"`
	ImageURL    string   `json:"image_url"`
	Featured    bool     `json:"featured"`
}

func (req *courseRequest) toModel() *models.Course {
	return &models.Course{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Level:       req.Level,
		Skills:      req.Skills,
		ImageURL:    req.ImageURL,
		Featured:    req.Featured,
	}
}

// CreateCourse creates a course owned by the calling instructor.
func (h *CourseHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req courseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}

	course, err := h.courseService.CreateCourse(req.toModel(), user)
	if err != nil {
		h.respondCourseError(w, err, "failed to create course")
		return
	}

	respondWithJSON(w, http.StatusCreated, newCourseView(course))
}

// UpdateCourse replaces the catalog fields of a course.
func (h *CourseHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid course ID", "", nil)
		return
	}

	var req courseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}

	course := req.toModel()
	course.ID = id
	if err := h.courseService.UpdateCourse(course, user); err != nil {
		h.respondCourseError(w, err, "failed to update course")
		return
	}

	respondWithJSON(w, http.StatusOK, newCourseView(course))
}

// DeleteCourse removes a course and everything under it.
func (h *CourseHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid course ID", "", nil)
		return
	}

	if err := h.courseService.DeleteCourse(id, user); err != nil {
		h.respondCourseError(w, err, "failed to delete course")
		return
	}

	respondWithJSON(w, http.StatusNoContent, nil)
}

type ratingRequest struct {
	Stars int `json:"stars"`
}

// RateCourse records the caller's 1-5 star rating.
func (h *CourseHandler) RateCourse(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid course ID", "", nil)
		return
	}

	var req ratingRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}

	if err := h.courseService.RateCourse(id, user, req.Stars); err != nil {
		h.respondCourseError(w, err, "failed to rate course")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *CourseHandler) respondCourseError(w http.ResponseWriter, err error, logMsg string) {
	var verr validation.ValidationError
	switch {
	case errors.As(err, &verr):
		respondWithError(w, http.StatusBadRequest, verr.Error(), "", nil)
	case errors.Is(err, service.ErrCourseNotFound):
		respondWithError(w, http.StatusNotFound, ErrNotFound, "", nil)
	case errors.Is(err, service.ErrNotCourseOwner):
		respondWithError(w, http.StatusForbidden, ErrForbidden, "", nil)
	default:
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, logMsg, err)
	}
}
