package models

import "time"

// Course levels as presented in the catalog.
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// Course represents a published speaking course
type Course struct {
	ID           int64
	Title        string
	Description  string
	Category     string
	Level        string
	Skills       []string // conversation, pronunciation, listening, ...
	ImageURL     string
	Featured     bool
	Rating       float64 // average of user ratings, 0 when unrated
	RatingCount  int
	InstructorID int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CourseSummary extends Course with its lesson count for catalog listings
type CourseSummary struct {
	Course
	LessonCount int
}

// CourseFilter narrows a catalog listing. Zero values mean "no constraint".
type CourseFilter struct {
	Category  string
	Level     string
	MinRating float64
	Skill     string
	Search    string // matched against title and description
	Featured  bool   // only featured courses when true
}

// CourseRating is one user's 1-5 star rating of a course
type CourseRating struct {
	ID        int64
	CourseID  int64
	UserID    int64
	Stars     int
	CreatedAt time.Time
	UpdatedAt time.Time
}
