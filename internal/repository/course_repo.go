package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"speechcoach/internal/database"
	"speechcoach/internal/models"
)

// CourseRepository handles database operations for courses and ratings
type CourseRepository struct {
	db *database.DB
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *database.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

const courseColumns = `c.id, c.title, c.description, c.category, c.level, c.skills,
		c.image_url, c.featured, c.rating, c.rating_count, c.instructor_id,
		c.created_at, c.updated_at`

func scanCourse(row interface{ Scan(...interface{}) error }, extra ...interface{}) (*models.Course, error) {
	course := &models.Course{}
	var skillsJSON string
	dest := []interface{}{
		&course.ID,
		&course.Title,
		&course.Description,
		&course.Category,
		&course.Level,
		&skillsJSON,
		&course.ImageURL,
		&course.Featured,
		&course.Rating,
		&course.RatingCount,
		&course.InstructorID,
		&course.CreatedAt,
		&course.UpdatedAt,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if skillsJSON != "" {
		if err := json.Unmarshal([]byte(skillsJSON), &course.Skills); err != nil {
			return nil, fmt.Errorf("failed to decode skills: %w", err)
		}
	}
	return course, nil
}

// CreateCourse inserts a new course
func (r *CourseRepository) CreateCourse(course *models.Course) (int64, error) {
	skillsJSON, err := json.Marshal(course.Skills)
	if err != nil {
		return 0, fmt.Errorf("failed to encode skills: %w", err)
	}

	query := `
		INSERT INTO courses (title, description, category, level, skills, image_url, featured, instructor_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		course.Title,
		course.Description,
		course.Category,
		course.Level,
		string(skillsJSON),
		course.ImageURL,
		course.Featured,
		course.InstructorID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create course: %w", err)
	}
	return id, nil
}

// GetCourseByID retrieves a course by ID
func (r *CourseRepository) GetCourseByID(id int64) (*models.Course, error) {
	query := "SELECT " + courseColumns + " FROM courses c WHERE c.id = ?"
	course, err := scanCourse(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return course, nil
}

// ListCourses retrieves courses matching the filter, with lesson counts.
// Skill filtering is done in Go because skills are stored as a JSON array.
func (r *CourseRepository) ListCourses(filter models.CourseFilter) ([]models.CourseSummary, error) {
	query := `
		SELECT ` + courseColumns + `, COUNT(l.id)
		FROM courses c
		LEFT JOIN lessons l ON l.course_id = c.id
	`
	var conditions []string
	var args []interface{}

	if filter.Category != "" {
		conditions = append(conditions, "c.category = ?")
		args = append(args, filter.Category)
	}
	if filter.Level != "" {
		conditions = append(conditions, "c.level = ?")
		args = append(args, filter.Level)
	}
	if filter.MinRating > 0 {
		conditions = append(conditions, "c.rating >= ?")
		args = append(args, filter.MinRating)
	}
	if filter.Search != "" {
		conditions = append(conditions, "(LOWER(c.title) LIKE ? OR LOWER(c.description) LIKE ?)")
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		args = append(args, pattern, pattern)
	}
	if filter.Featured {
		conditions = append(conditions, "c.featured = "+r.db.Dialect.BoolValue(true))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " GROUP BY c.id ORDER BY c.featured DESC, c.rating DESC, c.created_at DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	var courses []models.CourseSummary
	for rows.Next() {
		var lessonCount int
		course, err := scanCourse(rows, &lessonCount)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		if filter.Skill != "" && !hasSkill(course.Skills, filter.Skill) {
			continue
		}
		courses = append(courses, models.CourseSummary{Course: *course, LessonCount: lessonCount})
	}

	return courses, rows.Err()
}

func hasSkill(skills []string, want string) bool {
	for _, s := range skills {
		if strings.EqualFold(s, want) {
			return true
		}
	}
	return false
}

// UpdateCourse updates a course's catalog fields
func (r *CourseRepository) UpdateCourse(course *models.Course) error {
	skillsJSON, err := json.Marshal(course.Skills)
	if err != nil {
		return fmt.Errorf("failed to encode skills: %w", err)
	}

	query := `
		UPDATE courses
		SET title = ?, description = ?, category = ?, level = ?, skills = ?,
			image_url = ?, featured = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err = r.db.Exec(query,
		course.Title,
		course.Description,
		course.Category,
		course.Level,
		string(skillsJSON),
		course.ImageURL,
		course.Featured,
		course.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	return nil
}

// DeleteCourse deletes a course and its lessons
func (r *CourseRepository) DeleteCourse(id int64) error {
	query := "DELETE FROM courses WHERE id = ?"
	_, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	return nil
}

// UpsertRating stores one user's star rating for a course and refreshes the
// course's cached average inside the same transaction.
func (r *CourseRepository) UpsertRating(courseID, userID int64, stars int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin rating transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		UPDATE course_ratings
		SET stars = ?, updated_at = CURRENT_TIMESTAMP
		WHERE course_id = ? AND user_id = ?
	`, stars, courseID, userID)
	if err != nil {
		return fmt.Errorf("failed to update rating: %w", err)
	}

	updated, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rating result: %w", err)
	}
	if updated == 0 {
		_, err = tx.Exec(`
			INSERT INTO course_ratings (course_id, user_id, stars)
			VALUES (?, ?, ?)
		`, courseID, userID, stars)
		if err != nil {
			return fmt.Errorf("failed to insert rating: %w", err)
		}
	}

	_, err = tx.Exec(`
		UPDATE courses
		SET rating = (SELECT AVG(stars) FROM course_ratings WHERE course_id = ?),
			rating_count = (SELECT COUNT(*) FROM course_ratings WHERE course_id = ?),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, courseID, courseID, courseID)
	if err != nil {
		return fmt.Errorf("failed to refresh course rating: %w", err)
	}

	return tx.Commit()
}

// GetRating retrieves one user's rating of a course
func (r *CourseRepository) GetRating(courseID, userID int64) (*models.CourseRating, error) {
	query := `
		SELECT id, course_id, user_id, stars, created_at, updated_at
		FROM course_ratings
		WHERE course_id = ? AND user_id = ?
	`
	rating := &models.CourseRating{}
	err := r.db.QueryRow(query, courseID, userID).Scan(
		&rating.ID,
		&rating.CourseID,
		&rating.UserID,
		&rating.Stars,
		&rating.CreatedAt,
		&rating.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}
	return rating, nil
}
