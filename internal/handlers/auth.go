package handlers

import (
	"context"
	"net/http"

	"udinder-backend/internal/services"

	"github.com/rs/zerolog/log"
)

type authService interface {
	Register(ctx context.Context, req services.RegisterRequest) (*services.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*services.AuthResponse, error)
}

// AuthHandler handles registration and login
type AuthHandler struct {
	auth authService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth authService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if !decodeJSON(r, &req) {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.auth.Register(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().Str("user_id", resp.User.ID).Msg("User registered")
	respondJSON(w, http.StatusCreated, resp)
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(r, &req) {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}
