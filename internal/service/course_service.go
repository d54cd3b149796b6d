package service

import (
	"errors"
	"fmt"

	"speechcoach/internal/models"
	"speechcoach/internal/repository"
	"speechcoach/internal/validation"
)

var (
	ErrCourseNotFound = errors.New("course not found")
	ErrNotCourseOwner = errors.New("not the course owner")
)

// CourseService handles course catalog business logic
type CourseService struct {
	courseRepo *repository.CourseRepository
	lessonRepo *repository.LessonRepository
}

// NewCourseService creates a new course service
func NewCourseService(courseRepo *repository.CourseRepository, lessonRepo *repository.LessonRepository) *CourseService {
	return &CourseService{
		courseRepo: courseRepo,
		lessonRepo: lessonRepo,
	}
}

// ListCourses returns the catalog filtered by the given criteria
func (s *CourseService) ListCourses(filter models.CourseFilter) ([]models.CourseSummary, error) {
	return s.courseRepo.ListCourses(filter)
}

// GetCourse returns a single course with its lessons
func (s *CourseService) GetCourse(id int64) (*models.Course, []models.Lesson, error) {
	course, err := s.courseRepo.GetCourseByID(id)
	if err != nil {
		return nil, nil, err
	}
	if course == nil {
		return nil, nil, ErrCourseNotFound
	}

	lessons, err := s.lessonRepo.ListLessonsByCourse(id)
	if err != nil {
		return nil, nil, err
	}

	return course, lessons, nil
}

// CreateCourse validates and stores a new course authored by instructor
func (s *CourseService) CreateCourse(course *models.Course, instructor *models.User) (*models.Course, error) {
	if !instructor.Role.CanAuthor() {
		return nil, ErrNotCourseOwner
	}
	if err := validation.ValidateCourse(course); err != nil {
		return nil, err
	}

	course.InstructorID = instructor.ID
	id, err := s.courseRepo.CreateCourse(course)
	if err != nil {
		return nil, err
	}
	course.ID = id
	return course, nil
}

// UpdateCourse validates and applies changes to a course. Instructors may
// only edit their own courses; admins may edit any.
func (s *CourseService) UpdateCourse(course *models.Course, editor *models.User) error {
	existing, err := s.courseRepo.GetCourseByID(course.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrCourseNotFound
	}
	if err := s.authorizeEdit(existing, editor); err != nil {
		return err
	}
	if err := validation.ValidateCourse(course); err != nil {
		return err
	}

	return s.courseRepo.UpdateCourse(course)
}

// DeleteCourse removes a course and all its lessons
func (s *CourseService) DeleteCourse(id int64, editor *models.User) error {
	existing, err := s.courseRepo.GetCourseByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrCourseNotFound
	}
	if err := s.authorizeEdit(existing, editor); err != nil {
		return err
	}

	return s.courseRepo.DeleteCourse(id)
}

func (s *CourseService) authorizeEdit(course *models.Course, editor *models.User) error {
	if editor.Role == models.RoleAdmin {
		return nil
	}
	if editor.Role == models.RoleInstructor && course.InstructorID == editor.ID {
		return nil
	}
	return ErrNotCourseOwner
}

// RateCourse records a student's star rating and refreshes the average
func (s *CourseService) RateCourse(courseID int64, user *models.User, stars int) error {
	if err := validation.ValidateStars(stars); err != nil {
		return err
	}

	course, err := s.courseRepo.GetCourseByID(courseID)
	if err != nil {
		return err
	}
	if course == nil {
		return ErrCourseNotFound
	}

	if err := s.courseRepo.UpsertRating(courseID, user.ID, stars); err != nil {
		return fmt.Errorf("failed to rate course: %w", err)
	}
	return nil
}
