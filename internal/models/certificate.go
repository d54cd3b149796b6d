package models

import "time"

// Certificate records that a user completed every lesson of a course. The
// serial is a uuid string and doubles as the public lookup key.
type Certificate struct {
	ID          int64
	Serial      string
	UserID      int64
	CourseID    int64
	CourseTitle string
	UserName    string
	IssuedAt    time.Time
	EmailedAt   *time.Time
}

// Emailed reports whether the certificate notification has been sent.
func (c *Certificate) Emailed() bool {
	return c.EmailedAt != nil
}
