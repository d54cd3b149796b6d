package models

import "time"

// Lesson represents one lesson of a course: an ordered set of practice
// phrases followed by an ordered set of practice sentences.
type Lesson struct {
	ID          int64
	CourseID    int64
	Title       string
	Description string
	Position    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ContentKind distinguishes the two practice pools of a lesson.
type ContentKind string

const (
	ContentPhrase   ContentKind = "phrase"
	ContentSentence ContentKind = "sentence"
)

// LessonContent is a single practice item. WordCount is computed from the
// text when the item is stored, never supplied by the client.
type LessonContent struct {
	ID        int64
	LessonID  int64
	Kind      ContentKind
	Text      string
	WordCount int
	Position  int
	CreatedAt time.Time
}

// LessonWithContent combines a lesson with its ordered content pools
type LessonWithContent struct {
	Lesson    Lesson
	Phrases   []LessonContent
	Sentences []LessonContent
}

// TotalItems returns the number of practice items in the lesson.
func (l *LessonWithContent) TotalItems() int {
	return len(l.Phrases) + len(l.Sentences)
}

// TotalPoints returns the points available from completing every item once.
func (l *LessonWithContent) TotalPoints() int {
	total := 0
	for _, c := range l.Phrases {
		total += c.WordCount
	}
	for _, c := range l.Sentences {
		total += c.WordCount
	}
	return total
}
