package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"speechcoach/internal/models"
	"speechcoach/internal/repository"
)

var ErrCertificateNotFound = errors.New("certificate not found")

// CertificateService issues course-completion certificates and notifies the
// learner by email.
type CertificateService struct {
	certRepo *repository.CertificateRepository
	userRepo *repository.UserRepository
	email    *EmailService
}

// NewCertificateService creates a new certificate service
func NewCertificateService(certRepo *repository.CertificateRepository, userRepo *repository.UserRepository, email *EmailService) *CertificateService {
	return &CertificateService{
		certRepo: certRepo,
		userRepo: userRepo,
		email:    email,
	}
}

// IssueCertificate creates a certificate for a completed course. Issuing
// twice for the same user and course is a no-op. The email notification is
// best-effort; the certificate stands even when sending fails.
func (s *CertificateService) IssueCertificate(ctx context.Context, userID, courseID int64) error {
	serial := uuid.New().String()
	id, created, err := s.certRepo.CreateCertificate(serial, userID, courseID)
	if err != nil {
		return fmt.Errorf("failed to issue certificate: %w", err)
	}
	if !created {
		return nil
	}

	log.Printf("Certificate issued: user=%d course=%d serial=%s", userID, courseID, serial)

	if s.email == nil || !s.email.IsEnabled() {
		return nil
	}

	cert, err := s.certRepo.GetCertificateBySerial(serial)
	if err != nil || cert == nil {
		return nil
	}

	user, err := s.userRepo.GetUserByID(userID)
	if err != nil || user == nil {
		return nil
	}

	if err := s.email.SendCertificateEmail(ctx, user.Email, user.Name, cert.CourseTitle, serial); err != nil {
		log.Printf("Certificate email failed for serial %s: %v", serial, err)
		return nil
	}

	if err := s.certRepo.MarkEmailed(id, time.Now()); err != nil {
		log.Printf("Failed to record certificate email for serial %s: %v", serial, err)
	}
	return nil
}

// GetCertificate retrieves a certificate by its public serial
func (s *CertificateService) GetCertificate(serial string) (*models.Certificate, error) {
	cert, err := s.certRepo.GetCertificateBySerial(serial)
	if err != nil {
		return nil, err
	}
	if cert == nil {
		return nil, ErrCertificateNotFound
	}
	return cert, nil
}

// ListCertificates returns a user's certificates
func (s *CertificateService) ListCertificates(userID int64) ([]models.Certificate, error) {
	return s.certRepo.ListCertificatesByUser(userID)
}
