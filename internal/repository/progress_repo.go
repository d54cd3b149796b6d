package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"speechcoach/internal/database"
	"speechcoach/internal/models"
)

// ProgressRepository handles database operations for practice progress
type ProgressRepository struct {
	db *database.DB
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(db *database.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// GetProgress retrieves the progress row for a user and lesson. Returns nil
// when the user has never practiced the lesson.
func (r *ProgressRepository) GetProgress(userID, lessonID int64) (*models.UserProgress, error) {
	query := `
		SELECT id, user_id, lesson_id, completed_content_count,
			completed_phrases, completed_sentences, practice_seconds,
			last_practiced_at, created_at, updated_at
		FROM user_progress
		WHERE user_id = ? AND lesson_id = ?
	`
	progress := &models.UserProgress{}
	var phrasesJSON, sentencesJSON string
	err := r.db.QueryRow(query, userID, lessonID).Scan(
		&progress.ID,
		&progress.UserID,
		&progress.LessonID,
		&progress.CompletedContentCount,
		&phrasesJSON,
		&sentencesJSON,
		&progress.PracticeSeconds,
		&progress.LastPracticedAt,
		&progress.CreatedAt,
		&progress.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}

	if err := json.Unmarshal([]byte(phrasesJSON), &progress.CompletedPhrases); err != nil {
		return nil, fmt.Errorf("failed to decode completed phrases: %w", err)
	}
	if err := json.Unmarshal([]byte(sentencesJSON), &progress.CompletedSentences); err != nil {
		return nil, fmt.Errorf("failed to decode completed sentences: %w", err)
	}

	return progress, nil
}

// SaveProgress writes a full progress row (insert or update) and adds
// pointsDelta to the user's total, all in one transaction.
func (r *ProgressRepository) SaveProgress(progress *models.UserProgress, pointsDelta int) error {
	phrasesJSON, err := encodeIndexSet(progress.CompletedPhrases)
	if err != nil {
		return err
	}
	sentencesJSON, err := encodeIndexSet(progress.CompletedSentences)
	if err != nil {
		return err
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin progress transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		UPDATE user_progress
		SET completed_content_count = ?, completed_phrases = ?, completed_sentences = ?,
			practice_seconds = ?, last_practiced_at = CURRENT_TIMESTAMP,
			updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ? AND lesson_id = ?
	`, progress.CompletedContentCount, phrasesJSON, sentencesJSON,
		progress.PracticeSeconds, progress.UserID, progress.LessonID)
	if err != nil {
		return fmt.Errorf("failed to update progress: %w", err)
	}

	updated, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read progress result: %w", err)
	}
	if updated == 0 {
		_, err = tx.Exec(`
			INSERT INTO user_progress (user_id, lesson_id, completed_content_count,
				completed_phrases, completed_sentences, practice_seconds)
			VALUES (?, ?, ?, ?, ?, ?)
		`, progress.UserID, progress.LessonID, progress.CompletedContentCount,
			phrasesJSON, sentencesJSON, progress.PracticeSeconds)
		if err != nil {
			return fmt.Errorf("failed to insert progress: %w", err)
		}
	}

	if pointsDelta != 0 {
		_, err = tx.Exec(`
			UPDATE users
			SET total_points = total_points + ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`, pointsDelta, progress.UserID)
		if err != nil {
			return fmt.Errorf("failed to add points: %w", err)
		}
	}

	return tx.Commit()
}

func encodeIndexSet(set []int) (string, error) {
	if set == nil {
		set = []int{}
	}
	data, err := json.Marshal(set)
	if err != nil {
		return "", fmt.Errorf("failed to encode index set: %w", err)
	}
	return string(data), nil
}

// ResetProgress zeroes a user's progress for a lesson. The user's already
// awarded points are kept; only the completion record is cleared, which
// re-arms the per-index awards.
func (r *ProgressRepository) ResetProgress(userID, lessonID int64) error {
	query := `
		UPDATE user_progress
		SET completed_content_count = 0, completed_phrases = '[]',
			completed_sentences = '[]', updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ? AND lesson_id = ?
	`
	_, err := r.db.Exec(query, userID, lessonID)
	if err != nil {
		return fmt.Errorf("failed to reset progress: %w", err)
	}
	return nil
}

// ListLessonProgress returns per-lesson progress rows for every lesson of a
// course, including lessons the user has not started.
func (r *ProgressRepository) ListLessonProgress(userID, courseID int64) ([]models.LessonProgressSummary, error) {
	query := `
		SELECT l.id, l.title,
			COALESCE(p.completed_content_count, 0),
			(SELECT COUNT(*) FROM lesson_content lc WHERE lc.lesson_id = l.id)
		FROM lessons l
		LEFT JOIN user_progress p ON p.lesson_id = l.id AND p.user_id = ?
		WHERE l.course_id = ?
		ORDER BY l.position, l.id
	`
	rows, err := r.db.Query(query, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lesson progress: %w", err)
	}
	defer rows.Close()

	var summaries []models.LessonProgressSummary
	for rows.Next() {
		var s models.LessonProgressSummary
		if err := rows.Scan(&s.LessonID, &s.LessonTitle, &s.CompletedCount, &s.TotalCount); err != nil {
			return nil, fmt.Errorf("failed to scan lesson progress: %w", err)
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// ListAllProgress returns every progress row a user has, for the dashboard
func (r *ProgressRepository) ListAllProgress(userID int64) ([]models.UserProgress, error) {
	query := `
		SELECT id, user_id, lesson_id, completed_content_count,
			completed_phrases, completed_sentences, practice_seconds,
			last_practiced_at, created_at, updated_at
		FROM user_progress
		WHERE user_id = ?
		ORDER BY last_practiced_at DESC
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query progress: %w", err)
	}
	defer rows.Close()

	var records []models.UserProgress
	for rows.Next() {
		var p models.UserProgress
		var phrasesJSON, sentencesJSON string
		if err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.LessonID,
			&p.CompletedContentCount,
			&phrasesJSON,
			&sentencesJSON,
			&p.PracticeSeconds,
			&p.LastPracticedAt,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan progress: %w", err)
		}
		if err := json.Unmarshal([]byte(phrasesJSON), &p.CompletedPhrases); err != nil {
			return nil, fmt.Errorf("failed to decode completed phrases: %w", err)
		}
		if err := json.Unmarshal([]byte(sentencesJSON), &p.CompletedSentences); err != nil {
			return nil, fmt.Errorf("failed to decode completed sentences: %w", err)
		}
		records = append(records, p)
	}

	return records, rows.Err()
}

// SumPracticeSeconds totals a user's practice time across a course's lessons
func (r *ProgressRepository) SumPracticeSeconds(userID, courseID int64) (int, error) {
	var total int
	err := r.db.QueryRow(`
		SELECT COALESCE(SUM(p.practice_seconds), 0)
		FROM user_progress p
		JOIN lessons l ON l.id = p.lesson_id
		WHERE p.user_id = ? AND l.course_id = ?
	`, userID, courseID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum practice seconds: %w", err)
	}
	return total, nil
}
