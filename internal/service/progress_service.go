package service

import (
	"context"
	"fmt"
	"log"

	"speechcoach/internal/models"
	"speechcoach/internal/practice"
	"speechcoach/internal/repository"
)

// ProgressService persists practice progress and awards points. It
// implements practice.ProgressStore for live sessions and also serves the
// dashboard rollup queries.
//
// Point awards are guarded here against the persisted index sets, not just
// the session's in-memory ones, so a replayed commit for an already credited
// index can never double-award.
type ProgressService struct {
	progressRepo *repository.ProgressRepository
	lessonRepo   *repository.LessonRepository
	courseRepo   *repository.CourseRepository
	certificates *CertificateService
}

// NewProgressService creates a new progress service. certificates may be nil
// when certificate issuance is disabled.
func NewProgressService(
	progressRepo *repository.ProgressRepository,
	lessonRepo *repository.LessonRepository,
	courseRepo *repository.CourseRepository,
	certificates *CertificateService,
) *ProgressService {
	return &ProgressService{
		progressRepo: progressRepo,
		lessonRepo:   lessonRepo,
		courseRepo:   courseRepo,
		certificates: certificates,
	}
}

// GetProgress loads the persisted session record, nil when none exists
func (s *ProgressService) GetProgress(ctx context.Context, userID, lessonID int64) (*practice.Progress, error) {
	record, err := s.progressRepo.GetProgress(userID, lessonID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}
	return &practice.Progress{
		CompletedContentCount: record.CompletedContentCount,
		CompletedPhrases:      record.CompletedPhrases,
		CompletedSentences:    record.CompletedSentences,
		PracticeSeconds:       record.PracticeSeconds,
	}, nil
}

// CommitProgress merges a completion into the persisted record. The index is
// added to the matching completed set; points are awarded only when that set
// did not already contain it.
func (s *ProgressService) CommitProgress(ctx context.Context, userID, lessonID int64, c practice.Commit) error {
	record, err := s.progressRepo.GetProgress(userID, lessonID)
	if err != nil {
		return err
	}
	if record == nil {
		record = &models.UserProgress{UserID: userID, LessonID: lessonID}
	}

	points := c.PointsDelta
	if c.ContentType == practice.ModePhrases {
		if record.HasPhrase(c.ContentIndex) {
			points = 0
		} else {
			record.CompletedPhrases = append(record.CompletedPhrases, c.ContentIndex)
		}
	} else {
		if record.HasSentence(c.ContentIndex) {
			points = 0
		} else {
			record.CompletedSentences = append(record.CompletedSentences, c.ContentIndex)
		}
	}

	record.CompletedContentCount = c.CompletedContentCount
	record.PracticeSeconds += c.DurationSecondsDelta

	if err := s.progressRepo.SaveProgress(record, points); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}

	s.maybeIssueCertificate(ctx, userID, lessonID)
	return nil
}

// ResetProgress zeroes the record, re-arming point awards for the lesson
func (s *ProgressService) ResetProgress(ctx context.Context, userID, lessonID int64) error {
	return s.progressRepo.ResetProgress(userID, lessonID)
}

// maybeIssueCertificate checks whether the commit finished the whole course
// and issues a certificate if so. Failures are logged, never surfaced: the
// practice commit has already succeeded.
func (s *ProgressService) maybeIssueCertificate(ctx context.Context, userID, lessonID int64) {
	if s.certificates == nil {
		return
	}

	lesson, err := s.lessonRepo.GetLessonByID(lessonID)
	if err != nil || lesson == nil {
		return
	}

	summary, err := s.CourseProgress(userID, lesson.Lesson.CourseID)
	if err != nil {
		log.Printf("Certificate check failed for user %d course %d: %v", userID, lesson.Lesson.CourseID, err)
		return
	}
	if !summary.Finished() {
		return
	}

	if err := s.certificates.IssueCertificate(ctx, userID, lesson.Lesson.CourseID); err != nil {
		log.Printf("Certificate issuance failed for user %d course %d: %v", userID, lesson.Lesson.CourseID, err)
	}
}

// LessonProgress returns a user's progress on one lesson together with the
// lesson's item total.
func (s *ProgressService) LessonProgress(userID, lessonID int64) (*models.LessonProgressSummary, error) {
	lesson, err := s.lessonRepo.GetLessonByID(lessonID)
	if err != nil {
		return nil, err
	}
	if lesson == nil {
		return nil, ErrLessonNotFound
	}

	summary := &models.LessonProgressSummary{
		LessonID:    lessonID,
		LessonTitle: lesson.Lesson.Title,
		TotalCount:  lesson.TotalItems(),
	}

	record, err := s.progressRepo.GetProgress(userID, lessonID)
	if err != nil {
		return nil, err
	}
	if record != nil {
		summary.CompletedCount = record.CompletedContentCount
	}

	return summary, nil
}

// CourseProgress rolls up a user's progress across every lesson of a course
func (s *ProgressService) CourseProgress(userID, courseID int64) (*models.CourseProgressSummary, error) {
	course, err := s.courseRepo.GetCourseByID(courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}

	lessons, err := s.progressRepo.ListLessonProgress(userID, courseID)
	if err != nil {
		return nil, err
	}

	seconds, err := s.progressRepo.SumPracticeSeconds(userID, courseID)
	if err != nil {
		return nil, err
	}

	summary := &models.CourseProgressSummary{
		CourseID:        courseID,
		CourseTitle:     course.Title,
		Lessons:         lessons,
		PracticeSeconds: seconds,
	}
	for _, l := range lessons {
		summary.CompletedCount += l.CompletedCount
		summary.TotalCount += l.TotalCount
	}

	return summary, nil
}

// AllProgress returns every progress record a user has
func (s *ProgressService) AllProgress(userID int64) ([]models.UserProgress, error) {
	return s.progressRepo.ListAllProgress(userID)
}
