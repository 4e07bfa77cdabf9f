package handlers

import (
	"context"
	"net/http"

	"udinder-backend/internal/middleware"
	"udinder-backend/internal/models"
	"udinder-backend/internal/services"

	"github.com/go-chi/chi/v5"
)

type adminService interface {
	ListUsers(ctx context.Context, limit, offset int) (*services.UserPage, error)
	DeleteUser(ctx context.Context, actorID, userID string) error
	Grant(ctx context.Context, actorID, userID string) error
	SetBlocked(ctx context.Context, actorID, userID string, blocked bool) error
	Stats(ctx context.Context) (*models.Stats, error)
}

// AdminHandler handles /api/v1/admin routes
type AdminHandler struct {
	admin adminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(admin adminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// ListUsers handles GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := h.admin.ListUsers(r.Context(), queryInt(r, "limit", 0), queryInt(r, "offset", 0))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

// DeleteUser handles DELETE /api/v1/admin/users/{user_id}
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	err := h.admin.DeleteUser(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "user_id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Grant handles POST /api/v1/admin/admins/{user_id}
func (h *AdminHandler) Grant(w http.ResponseWriter, r *http.Request) {
	err := h.admin.Grant(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "user_id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Block handles POST /api/v1/admin/admins/{user_id}/block
func (h *AdminHandler) Block(w http.ResponseWriter, r *http.Request) {
	h.setBlocked(w, r, true)
}

// Unblock handles POST /api/v1/admin/admins/{user_id}/unblock
func (h *AdminHandler) Unblock(w http.ResponseWriter, r *http.Request) {
	h.setBlocked(w, r, false)
}

func (h *AdminHandler) setBlocked(w http.ResponseWriter, r *http.Request, blocked bool) {
	err := h.admin.SetBlocked(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "user_id"), blocked)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Stats handles GET /api/v1/admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.Stats(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
