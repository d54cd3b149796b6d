package service

import (
	"errors"

	"speechcoach/internal/models"
	"speechcoach/internal/repository"
	"speechcoach/internal/speech"
	"speechcoach/internal/validation"
)

var ErrLessonNotFound = errors.New("lesson not found")

// LessonInput is the authoring payload for a lesson: raw phrase and sentence
// texts in presentation order. Word counts are never taken from the client.
type LessonInput struct {
	CourseID    int64
	Title       string
	Description string
	Position    int
	Phrases     []string
	Sentences   []string
}

// LessonService handles lesson authoring and retrieval
type LessonService struct {
	lessonRepo *repository.LessonRepository
	courseRepo *repository.CourseRepository
}

// NewLessonService creates a new lesson service
func NewLessonService(lessonRepo *repository.LessonRepository, courseRepo *repository.CourseRepository) *LessonService {
	return &LessonService{
		lessonRepo: lessonRepo,
		courseRepo: courseRepo,
	}
}

// GetLesson returns a lesson with its content pools
func (s *LessonService) GetLesson(id int64) (*models.LessonWithContent, error) {
	lesson, err := s.lessonRepo.GetLessonByID(id)
	if err != nil {
		return nil, err
	}
	if lesson == nil {
		return nil, ErrLessonNotFound
	}
	return lesson, nil
}

// ListLessons returns a course's lessons in order
func (s *LessonService) ListLessons(courseID int64) ([]models.Lesson, error) {
	course, err := s.courseRepo.GetCourseByID(courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}
	return s.lessonRepo.ListLessonsByCourse(courseID)
}

// CreateLesson validates the input, computes word counts for every content
// item, and stores the lesson.
func (s *LessonService) CreateLesson(input LessonInput, author *models.User) (int64, error) {
	course, err := s.courseRepo.GetCourseByID(input.CourseID)
	if err != nil {
		return 0, err
	}
	if course == nil {
		return 0, ErrCourseNotFound
	}
	if err := s.authorizeAuthor(course, author); err != nil {
		return 0, err
	}

	content, err := buildContent(input)
	if err != nil {
		return 0, err
	}

	lesson := &models.Lesson{
		CourseID:    input.CourseID,
		Title:       input.Title,
		Description: input.Description,
		Position:    input.Position,
	}
	return s.lessonRepo.CreateLesson(lesson, content)
}

// UpdateLesson replaces a lesson's fields and content, recomputing word
// counts from the submitted texts.
func (s *LessonService) UpdateLesson(lessonID int64, input LessonInput, author *models.User) error {
	existing, err := s.lessonRepo.GetLessonByID(lessonID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrLessonNotFound
	}

	course, err := s.courseRepo.GetCourseByID(existing.Lesson.CourseID)
	if err != nil {
		return err
	}
	if course == nil {
		return ErrCourseNotFound
	}
	if err := s.authorizeAuthor(course, author); err != nil {
		return err
	}

	content, err := buildContent(input)
	if err != nil {
		return err
	}

	lesson := &models.Lesson{
		ID:          lessonID,
		CourseID:    existing.Lesson.CourseID,
		Title:       input.Title,
		Description: input.Description,
		Position:    input.Position,
	}
	return s.lessonRepo.UpdateLesson(lesson, content)
}

// DeleteLesson removes a lesson and its content
func (s *LessonService) DeleteLesson(lessonID int64, author *models.User) error {
	existing, err := s.lessonRepo.GetLessonByID(lessonID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrLessonNotFound
	}

	course, err := s.courseRepo.GetCourseByID(existing.Lesson.CourseID)
	if err != nil {
		return err
	}
	if course == nil {
		return ErrCourseNotFound
	}
	if err := s.authorizeAuthor(course, author); err != nil {
		return err
	}

	return s.lessonRepo.DeleteLesson(lessonID)
}

func (s *LessonService) authorizeAuthor(course *models.Course, author *models.User) error {
	if author.Role == models.RoleAdmin {
		return nil
	}
	if author.Role == models.RoleInstructor && course.InstructorID == author.ID {
		return nil
	}
	return ErrNotCourseOwner
}

// buildContent validates the submitted texts and derives word counts
func buildContent(input LessonInput) ([]models.LessonContent, error) {
	if err := validation.ValidateLessonTitle(input.Title); err != nil {
		return nil, err
	}

	var content []models.LessonContent
	for i, text := range input.Phrases {
		if err := validation.ValidateContentText(text); err != nil {
			return nil, err
		}
		content = append(content, models.LessonContent{
			Kind:      models.ContentPhrase,
			Text:      text,
			WordCount: speech.WordCount(text),
			Position:  i,
		})
	}
	for i, text := range input.Sentences {
		if err := validation.ValidateContentText(text); err != nil {
			return nil, err
		}
		content = append(content, models.LessonContent{
			Kind:      models.ContentSentence,
			Text:      text,
			WordCount: speech.WordCount(text),
			Position:  i,
		})
	}

	return content, nil
}
