package models

import "time"

// UserProgress is the persisted practice record for one user on one lesson.
// The completed-index slices guard point awards: an index present in the
// slice has already paid out and never pays again until a reset clears it.
type UserProgress struct {
	ID                    int64
	UserID                int64
	LessonID              int64
	CompletedContentCount int
	CompletedPhrases      []int
	CompletedSentences    []int
	PracticeSeconds       int
	LastPracticedAt       time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// HasPhrase reports whether the phrase at index has already been credited.
func (p *UserProgress) HasPhrase(index int) bool {
	return containsIndex(p.CompletedPhrases, index)
}

// HasSentence reports whether the sentence at index has already been credited.
func (p *UserProgress) HasSentence(index int) bool {
	return containsIndex(p.CompletedSentences, index)
}

func containsIndex(set []int, index int) bool {
	for _, i := range set {
		if i == index {
			return true
		}
	}
	return false
}

// LessonProgressSummary pairs a lesson with the caller's progress on it
type LessonProgressSummary struct {
	LessonID       int64
	LessonTitle    string
	CompletedCount int
	TotalCount     int
}

// Finished reports whether every item of the lesson has been completed.
func (s *LessonProgressSummary) Finished() bool {
	return s.TotalCount > 0 && s.CompletedCount >= s.TotalCount
}

// CourseProgressSummary rolls lesson progress up to a whole course
type CourseProgressSummary struct {
	CourseID        int64
	CourseTitle     string
	Lessons         []LessonProgressSummary
	CompletedCount  int
	TotalCount      int
	PracticeSeconds int
}

// Finished reports whether every lesson of the course is fully completed.
func (s *CourseProgressSummary) Finished() bool {
	if len(s.Lessons) == 0 {
		return false
	}
	for _, l := range s.Lessons {
		if !l.Finished() {
			return false
		}
	}
	return true
}
