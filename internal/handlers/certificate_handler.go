package handlers

import (
	"errors"
	"net/http"

	"speechcoach/internal/service"
)

// CertificateHandler serves completion certificates
type CertificateHandler struct {
	certService *service.CertificateService
}

// NewCertificateHandler creates a new certificate handler
func NewCertificateHandler(certService *service.CertificateService) *CertificateHandler {
	return &CertificateHandler{certService: certService}
}

// ListCertificates returns the caller's certificates.
func (h *CertificateHandler) ListCertificates(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	certs, err := h.certService.ListCertificates(user.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to list certificates", err)
		return
	}

	views := make([]certificateView, 0, len(certs))
	for i := range certs {
		views = append(views, newCertificateView(&certs[i]))
	}
	respondWithJSON(w, http.StatusOK, views)
}

// GetCertificate looks up a certificate by serial. Public: the serial is
// the share link printed on the certificate itself.
func (h *CertificateHandler) GetCertificate(w http.ResponseWriter, r *http.Request) {
	serial := r.PathValue("serial")

	cert, err := h.certService.GetCertificate(serial)
	if err != nil {
		if errors.Is(err, service.ErrCertificateNotFound) {
			respondWithError(w, http.StatusNotFound, ErrNotFound, "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to load certificate", err)
		return
	}

	respondWithJSON(w, http.StatusOK, newCertificateView(cert))
}
