package handlers

import (
	"time"

	"speechcoach/internal/models"
)

type userView struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	TotalPoints int    `json:"total_points"`
}

func newUserView(u *models.User) userView {
	return userView{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        string(u.Role),
		TotalPoints: u.TotalPoints,
	}
}

type courseView struct {
	ID           int64    `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	Level        string   `json:"level"`
	Skills       []string `json:"skills"`
	ImageURL     string   `json:"image_url,omitempty"`
	Featured     bool     `json:"featured"`
	Rating       float64  `json:"rating"`
	RatingCount  int      `json:"rating_count"`
	InstructorID int64    `json:"instructor_id"`
	LessonCount  int      `json:"lesson_count,omitempty"`
}

func newCourseView(c *models.Course) courseView {
	return courseView{
		ID:           c.ID,
		Title:        c.Title,
		Description:  c.Description,
		Category:     c.Category,
		Level:        c.Level,
		Skills:       c.Skills,
		ImageURL:     c.ImageURL,
		Featured:     c.Featured,
		Rating:       c.Rating,
		RatingCount:  c.RatingCount,
		InstructorID: c.InstructorID,
	}
}

type lessonView struct {
	ID          int64  `json:"id"`
	CourseID    int64  `json:"course_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Position    int    `json:"position"`
}

func newLessonView(l *models.Lesson) lessonView {
	return lessonView{
		ID:          l.ID,
		CourseID:    l.CourseID,
		Title:       l.Title,
		Description: l.Description,
		Position:    l.Position,
	}
}

type contentView struct {
	Text      string `json:"text"`
	WordCount int    `json:"word_count"`
}

func newContentViews(items []models.LessonContent) []contentView {
	views := make([]contentView, 0, len(items))
	for _, c := range items {
		views = append(views, contentView{Text: c.Text, WordCount: c.WordCount})
	}
	return views
}

type lessonDetailView struct {
	lessonView
	Phrases     []contentView `json:"phrases"`
	Sentences   []contentView `json:"sentences"`
	TotalPoints int           `json:"total_points"`
}

type lessonProgressView struct {
	LessonID       int64  `json:"lesson_id"`
	LessonTitle    string `json:"lesson_title"`
	CompletedCount int    `json:"completed_count"`
	TotalCount     int    `json:"total_count"`
	Finished       bool   `json:"finished"`
}

func newLessonProgressView(s models.LessonProgressSummary) lessonProgressView {
	return lessonProgressView{
		LessonID:       s.LessonID,
		LessonTitle:    s.LessonTitle,
		CompletedCount: s.CompletedCount,
		TotalCount:     s.TotalCount,
		Finished:       s.Finished(),
	}
}

type courseProgressView struct {
	CourseID        int64                `json:"course_id"`
	CourseTitle     string               `json:"course_title"`
	Lessons         []lessonProgressView `json:"lessons"`
	CompletedCount  int                  `json:"completed_count"`
	TotalCount      int                  `json:"total_count"`
	PracticeSeconds int                  `json:"practice_seconds"`
	Finished        bool                 `json:"finished"`
}

type certificateView struct {
	Serial      string    `json:"serial"`
	CourseID    int64     `json:"course_id"`
	CourseTitle string    `json:"course_title"`
	UserName    string    `json:"user_name"`
	IssuedAt    time.Time `json:"issued_at"`
}

func newCertificateView(c *models.Certificate) certificateView {
	return certificateView{
		Serial:      c.Serial,
		CourseID:    c.CourseID,
		CourseTitle: c.CourseTitle,
		UserName:    c.UserName,
		IssuedAt:    c.IssuedAt,
	}
}
