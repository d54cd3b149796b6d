package validation

import (
	"fmt"
	"regexp"
	"strings"

	"speechcoach/internal/models"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidatePassword checks if a password meets requirements
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) < 8 {
		return ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}
	return nil
}

// ValidateName checks if a name is valid
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if len(name) < 2 {
		return ValidationError{Field: "name", Message: "name must be at least 2 characters"}
	}
	return nil
}

// ValidateCourse checks the catalog fields of a course
func ValidateCourse(course *models.Course) error {
	if strings.TrimSpace(course.Title) == "" {
		return ValidationError{Field: "title", Message: "title is required"}
	}
	switch course.Level {
	case models.LevelBeginner, models.LevelIntermediate, models.LevelAdvanced:
	default:
		return ValidationError{Field: "level", Message: "level must be beginner, intermediate or advanced"}
	}
	for _, skill := range course.Skills {
		if strings.TrimSpace(skill) == "" {
			return ValidationError{Field: "skills", Message: "skills must not be empty"}
		}
	}
	return nil
}

// ValidateLessonTitle checks a lesson title
func ValidateLessonTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ValidationError{Field: "title", Message: "title is required"}
	}
	return nil
}

// ValidateContentText checks a practice phrase or sentence
func ValidateContentText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ValidationError{Field: "text", Message: "content text is required"}
	}
	if len(text) > 500 {
		return ValidationError{Field: "text", Message: "content text must be at most 500 characters"}
	}
	return nil
}

// ValidateStars checks a course rating value
func ValidateStars(stars int) error {
	if stars < 1 || stars > 5 {
		return ValidationError{Field: "stars", Message: "stars must be between 1 and 5"}
	}
	return nil
}
