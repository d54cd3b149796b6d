package handlers

import (
	"errors"
	"net/http"

	"golang.org/x/oauth2"

	"speechcoach/internal/security"
	"speechcoach/internal/service"
	"speechcoach/internal/validation"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService  *service.AuthService
	emailService *service.EmailService
	csrf         *security.CSRFGenerator

	googleOAuth *oauth2.Config
	baseURL     string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, emailService *service.EmailService, csrf *security.CSRFGenerator, googleOAuth *oauth2.Config, baseURL string) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		emailService: emailService,
		csrf:         csrf,
		googleOAuth:  googleOAuth,
		baseURL:      baseURL,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type authResponse struct {
	User      userView `json:"user"`
	CSRFToken string   `json:"csrf_token"`
}

// Register handles new account creation and logs the user in.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}

	if _, err := h.authService.Register(req.Email, req.Password, req.Name); err != nil {
		var verr validation.ValidationError
		switch {
		case errors.As(err, &verr):
			respondWithError(w, http.StatusBadRequest, verr.Error(), "", nil)
		case errors.Is(err, service.ErrEmailTaken):
			respondWithError(w, http.StatusConflict, "Email already registered", "", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to register user", err)
		}
		return
	}

	h.loginAndRespond(w, r, req.Email, req.Password, http.StatusCreated)
}

// Login handles credential login and issues a session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}

	h.loginAndRespond(w, r, req.Email, req.Password, http.StatusOK)
}

func (h *AuthHandler) loginAndRespond(w http.ResponseWriter, r *http.Request, email, password string, status int) {
	session, user, err := h.authService.Login(email, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondWithError(w, http.StatusUnauthorized, "Invalid email or password", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to log in", err)
		return
	}

	csrfToken, err := h.csrf.GenerateToken(session.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to generate CSRF token", err)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, SessionCookieName, session.ID, session.ExpiresAt))
	respondWithJSON(w, status, authResponse{User: newUserView(user), CSRFToken: csrfToken})
}

// Logout deletes the session and clears the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		_ = h.authService.Logout(cookie.Value)
	}

	http.SetCookie(w, security.CreateDeleteCookie(r, SessionCookieName))
	respondWithJSON(w, http.StatusNoContent, nil)
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}
	respondWithJSON(w, http.StatusOK, newUserView(user))
}

// IssueToken exchanges an authenticated session for a bearer token.
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	token, err := h.authService.IssueToken(user)
	if err != nil {
		if errors.Is(err, security.ErrTokensDisabled) {
			respondWithError(w, http.StatusServiceUnavailable, "API tokens are not configured", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to issue token", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"token": token})
}

type passwordResetRequest struct {
	Email string `json:"email"`
}

// RequestPasswordReset starts the reset flow. The response never reveals
// whether the email exists.
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req passwordResetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}

	if err := h.authService.RequestPasswordReset(r.Context(), h.emailService, req.Email); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to request password reset", err)
		return
	}

	respondWithJSON(w, http.StatusAccepted, map[string]string{"status": "ok"})
}

type passwordResetConfirm struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// ResetPassword completes the reset flow with the emailed token.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req passwordResetConfirm
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}

	if err := h.authService.ResetPassword(req.Token, req.NewPassword); err != nil {
		var verr validation.ValidationError
		if errors.As(err, &verr) {
			respondWithError(w, http.StatusBadRequest, verr.Error(), "", nil)
			return
		}
		respondWithError(w, http.StatusBadRequest, "Invalid or expired reset token", "", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
