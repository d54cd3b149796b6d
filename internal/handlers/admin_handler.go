package handlers

import (
	"errors"
	"net/http"

	"speechcoach/internal/models"
	"speechcoach/internal/service"
)

// AdminHandler handles user administration HTTP requests
type AdminHandler struct {
	authService *service.AuthService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(authService *service.AuthService) *AdminHandler {
	return &AdminHandler{authService: authService}
}

// ListUsers returns every account.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.authService.ListUsers()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to list users", err)
		return
	}

	views := make([]userView, 0, len(users))
	for i := range users {
		views = append(views, newUserView(&users[i]))
	}
	respondWithJSON(w, http.StatusOK, views)
}

type roleRequest struct {
	Role string `json:"role"`
}

// UpdateUserRole changes an account's role.
func (h *AdminHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid user ID", "", nil)
		return
	}

	var req roleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}

	if err := h.authService.UpdateUserRole(id, models.Role(req.Role)); err != nil {
		if errors.Is(err, service.ErrInvalidRole) {
			respondWithError(w, http.StatusBadRequest, "Unknown role", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to update user role", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// DeleteUser removes an account. Admins cannot delete themselves.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	caller := GetUserFromContext(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid user ID", "", nil)
		return
	}
	if id == caller.ID {
		respondWithError(w, http.StatusBadRequest, "Cannot delete your own account", "", nil)
		return
	}

	if err := h.authService.DeleteUser(id); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to delete user", err)
		return
	}

	respondWithJSON(w, http.StatusNoContent, nil)
}
