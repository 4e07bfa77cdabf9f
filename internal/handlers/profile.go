package handlers

import (
	"context"
	"net/http"

	"udinder-backend/internal/middleware"
	"udinder-backend/internal/models"
	"udinder-backend/internal/services"

	"github.com/go-chi/chi/v5"
)

type profileService interface {
	Get(ctx context.Context, userID string) (*services.ProfileView, error)
	Update(ctx context.Context, userID string, req services.UpdateProfileRequest) (*models.Profile, error)
	UpdateAttributes(ctx context.Context, userID string, req services.UpdateAttributesRequest) (*models.User, error)
	SetPushToken(ctx context.Context, userID string, token *string) error
	RequestPhotoUpload(ctx context.Context, userID, contentType string) (*services.PhotoUploadResponse, error)
}

// ProfileHandler handles profile and user attribute requests
type ProfileHandler struct {
	profiles profileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profiles profileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// PhotoUploadRequest represents the request body for a photo upload
type PhotoUploadRequest struct {
	ContentType string `json:"content_type"`
}

// PushTokenRequest represents the request body for registering a device
type PushTokenRequest struct {
	PushToken *string `json:"push_token"`
}

// GetMe handles GET /api/v1/profile
func (h *ProfileHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	h.get(w, r, middleware.GetUserID(r.Context()))
}

// GetByUser handles GET /api/v1/users/{user_id}/profile
func (h *ProfileHandler) GetByUser(w http.ResponseWriter, r *http.Request) {
	h.get(w, r, chi.URLParam(r, "user_id"))
}

func (h *ProfileHandler) get(w http.ResponseWriter, r *http.Request, userID string) {
	view, err := h.profiles.Get(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// Update handles PUT /api/v1/profile
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req services.UpdateProfileRequest
	if !decodeJSON(r, &req) {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	profile, err := h.profiles.Update(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// UpdateAttributes handles PUT /api/v1/users/me
func (h *ProfileHandler) UpdateAttributes(w http.ResponseWriter, r *http.Request) {
	var req services.UpdateAttributesRequest
	if !decodeJSON(r, &req) {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.profiles.UpdateAttributes(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// SetPushToken handles PUT /api/v1/users/me/push-token
func (h *ProfileHandler) SetPushToken(w http.ResponseWriter, r *http.Request) {
	var req PushTokenRequest
	if !decodeJSON(r, &req) {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.profiles.SetPushToken(r.Context(), middleware.GetUserID(r.Context()), req.PushToken); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadPhoto handles POST /api/v1/profile/photo
func (h *ProfileHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	var req PhotoUploadRequest
	if r.ContentLength != 0 && !decodeJSON(r, &req) {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.profiles.RequestPhotoUpload(r.Context(), middleware.GetUserID(r.Context()), req.ContentType)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}
