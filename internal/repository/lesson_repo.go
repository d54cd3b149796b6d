package repository

import (
	"database/sql"
	"fmt"

	"speechcoach/internal/database"
	"speechcoach/internal/models"
)

// LessonRepository handles database operations for lessons and their content
type LessonRepository struct {
	db *database.DB
}

// NewLessonRepository creates a new lesson repository
func NewLessonRepository(db *database.DB) *LessonRepository {
	return &LessonRepository{db: db}
}

// CreateLesson inserts a lesson and its content items in one transaction
func (r *LessonRepository) CreateLesson(lesson *models.Lesson, content []models.LessonContent) (int64, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin lesson transaction: %w", err)
	}
	defer tx.Rollback()

	id, err := tx.ExecReturningID(`
		INSERT INTO lessons (course_id, title, description, position)
		VALUES (?, ?, ?, ?)
	`, lesson.CourseID, lesson.Title, lesson.Description, lesson.Position)
	if err != nil {
		return 0, fmt.Errorf("failed to create lesson: %w", err)
	}

	if err := insertContent(tx, id, content); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit lesson: %w", err)
	}
	return id, nil
}

func insertContent(tx *database.Tx, lessonID int64, content []models.LessonContent) error {
	for _, item := range content {
		_, err := tx.Exec(`
			INSERT INTO lesson_content (lesson_id, kind, content_text, word_count, position)
			VALUES (?, ?, ?, ?, ?)
		`, lessonID, string(item.Kind), item.Text, item.WordCount, item.Position)
		if err != nil {
			return fmt.Errorf("failed to insert lesson content: %w", err)
		}
	}
	return nil
}

// GetLessonByID retrieves a lesson with its ordered content pools
func (r *LessonRepository) GetLessonByID(id int64) (*models.LessonWithContent, error) {
	lesson := models.Lesson{}
	err := r.db.QueryRow(`
		SELECT id, course_id, title, description, position, created_at, updated_at
		FROM lessons
		WHERE id = ?
	`, id).Scan(
		&lesson.ID,
		&lesson.CourseID,
		&lesson.Title,
		&lesson.Description,
		&lesson.Position,
		&lesson.CreatedAt,
		&lesson.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}

	rows, err := r.db.Query(`
		SELECT id, lesson_id, kind, content_text, word_count, position, created_at
		FROM lesson_content
		WHERE lesson_id = ?
		ORDER BY kind, position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query lesson content: %w", err)
	}
	defer rows.Close()

	result := &models.LessonWithContent{Lesson: lesson}
	for rows.Next() {
		var item models.LessonContent
		if err := rows.Scan(
			&item.ID,
			&item.LessonID,
			&item.Kind,
			&item.Text,
			&item.WordCount,
			&item.Position,
			&item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan lesson content: %w", err)
		}
		if item.Kind == models.ContentPhrase {
			result.Phrases = append(result.Phrases, item)
		} else {
			result.Sentences = append(result.Sentences, item)
		}
	}

	return result, rows.Err()
}

// ListLessonsByCourse retrieves a course's lessons in position order
func (r *LessonRepository) ListLessonsByCourse(courseID int64) ([]models.Lesson, error) {
	rows, err := r.db.Query(`
		SELECT id, course_id, title, description, position, created_at, updated_at
		FROM lessons
		WHERE course_id = ?
		ORDER BY position, id
	`, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lessons: %w", err)
	}
	defer rows.Close()

	var lessons []models.Lesson
	for rows.Next() {
		var lesson models.Lesson
		if err := rows.Scan(
			&lesson.ID,
			&lesson.CourseID,
			&lesson.Title,
			&lesson.Description,
			&lesson.Position,
			&lesson.CreatedAt,
			&lesson.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan lesson: %w", err)
		}
		lessons = append(lessons, lesson)
	}

	return lessons, rows.Err()
}

// UpdateLesson updates a lesson and replaces its content items
func (r *LessonRepository) UpdateLesson(lesson *models.Lesson, content []models.LessonContent) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin lesson transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		UPDATE lessons
		SET title = ?, description = ?, position = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, lesson.Title, lesson.Description, lesson.Position, lesson.ID)
	if err != nil {
		return fmt.Errorf("failed to update lesson: %w", err)
	}

	_, err = tx.Exec("DELETE FROM lesson_content WHERE lesson_id = ?", lesson.ID)
	if err != nil {
		return fmt.Errorf("failed to clear lesson content: %w", err)
	}

	if err := insertContent(tx, lesson.ID, content); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteLesson deletes a lesson and its content
func (r *LessonRepository) DeleteLesson(id int64) error {
	query := "DELETE FROM lessons WHERE id = ?"
	_, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete lesson: %w", err)
	}
	return nil
}

// CountContentItems returns the number of practice items in a lesson
func (r *LessonRepository) CountContentItems(lessonID int64) (int, error) {
	var count int
	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM lesson_content WHERE lesson_id = ?", lessonID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count lesson content: %w", err)
	}
	return count, nil
}
