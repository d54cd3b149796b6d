package models

import "time"

// Role controls what a user may do. Students practice, instructors author
// courses and lessons, admins additionally manage users.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleInstructor Role = "instructor"
	RoleStudent    Role = "student"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleInstructor, RoleStudent:
		return true
	}
	return false
}

// CanAuthor reports whether the role may create or edit courses and lessons.
func (r Role) CanAuthor() bool {
	return r == RoleAdmin || r == RoleInstructor
}

// User represents an account in the system
type User struct {
	ID            int64
	Email         string
	PasswordHash  string
	Name          string
	Role          Role
	OAuthProvider string
	OAuthSubject  string
	TotalPoints   int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Session represents an authenticated browser session
type Session struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// PasswordResetToken represents a token for password reset
type PasswordResetToken struct {
	Token     string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
	Used      bool
}

// IsExpired checks if the reset token has expired
func (t *PasswordResetToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}
