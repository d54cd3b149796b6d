package repository

import (
	"database/sql"
	"fmt"
	"time"

	"speechcoach/internal/database"
	"speechcoach/internal/models"
)

// CertificateRepository handles database operations for course certificates
type CertificateRepository struct {
	db *database.DB
}

// NewCertificateRepository creates a new certificate repository
func NewCertificateRepository(db *database.DB) *CertificateRepository {
	return &CertificateRepository{db: db}
}

const certificateColumns = `c.id, c.serial, c.user_id, c.course_id,
		co.title, u.name, c.issued_at, c.emailed_at`

const certificateJoins = `
	FROM certificates c
	JOIN courses co ON co.id = c.course_id
	JOIN users u ON u.id = c.user_id
`

func scanCertificate(row interface{ Scan(...interface{}) error }) (*models.Certificate, error) {
	cert := &models.Certificate{}
	var emailedAt sql.NullTime
	err := row.Scan(
		&cert.ID,
		&cert.Serial,
		&cert.UserID,
		&cert.CourseID,
		&cert.CourseTitle,
		&cert.UserName,
		&cert.IssuedAt,
		&emailedAt,
	)
	if err != nil {
		return nil, err
	}
	if emailedAt.Valid {
		cert.EmailedAt = &emailedAt.Time
	}
	return cert, nil
}

// CreateCertificate inserts a certificate row. Returns the existing row's ID
// without error when the user already holds a certificate for the course.
func (r *CertificateRepository) CreateCertificate(serial string, userID, courseID int64) (int64, bool, error) {
	existing, err := r.getByUserAndCourse(userID, courseID)
	if err != nil {
		return 0, false, err
	}
	if existing != nil {
		return existing.ID, false, nil
	}

	id, err := r.db.ExecReturningID(`
		INSERT INTO certificates (serial, user_id, course_id)
		VALUES (?, ?, ?)
	`, serial, userID, courseID)
	if err != nil {
		return 0, false, fmt.Errorf("failed to create certificate: %w", err)
	}
	return id, true, nil
}

func (r *CertificateRepository) getByUserAndCourse(userID, courseID int64) (*models.Certificate, error) {
	query := "SELECT " + certificateColumns + certificateJoins + "WHERE c.user_id = ? AND c.course_id = ?"
	cert, err := scanCertificate(r.db.QueryRow(query, userID, courseID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get certificate: %w", err)
	}
	return cert, nil
}

// GetCertificateBySerial retrieves a certificate by its public serial
func (r *CertificateRepository) GetCertificateBySerial(serial string) (*models.Certificate, error) {
	query := "SELECT " + certificateColumns + certificateJoins + "WHERE c.serial = ?"
	cert, err := scanCertificate(r.db.QueryRow(query, serial))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get certificate: %w", err)
	}
	return cert, nil
}

// ListCertificatesByUser retrieves a user's certificates, newest first
func (r *CertificateRepository) ListCertificatesByUser(userID int64) ([]models.Certificate, error) {
	query := "SELECT " + certificateColumns + certificateJoins + "WHERE c.user_id = ? ORDER BY c.issued_at DESC"
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query certificates: %w", err)
	}
	defer rows.Close()

	var certs []models.Certificate
	for rows.Next() {
		cert, err := scanCertificate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan certificate: %w", err)
		}
		certs = append(certs, *cert)
	}

	return certs, rows.Err()
}

// MarkEmailed records when the certificate notification was sent
func (r *CertificateRepository) MarkEmailed(id int64, at time.Time) error {
	query := "UPDATE certificates SET emailed_at = ? WHERE id = ?"
	_, err := r.db.Exec(query, at, id)
	if err != nil {
		return fmt.Errorf("failed to mark certificate emailed: %w", err)
	}
	return nil
}
