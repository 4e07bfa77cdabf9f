package handlers

import (
	"context"
	"net/http"

	"udinder-backend/internal/middleware"
	"udinder-backend/internal/models"
	"udinder-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type interactionService interface {
	Like(ctx context.Context, userID, targetID string) (*services.LikeResult, error)
	Unlike(ctx context.Context, userID, targetID string) error
	Candidates(ctx context.Context, userID string, limit, offset int) ([]*models.User, error)
	Matches(ctx context.Context, userID string) ([]*models.Match, error)
	Unmatch(ctx context.Context, userID, matchID string) error
}

// InteractionHandler handles likes, candidates and matches
type InteractionHandler struct {
	interactions interactionService
}

// NewInteractionHandler creates a new interaction handler
func NewInteractionHandler(interactions interactionService) *InteractionHandler {
	return &InteractionHandler{interactions: interactions}
}

// LikeRequest represents the request body for a like
type LikeRequest struct {
	UserID string `json:"user_id"`
}

// Like handles POST /api/v1/likes
func (h *InteractionHandler) Like(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req LikeRequest
	if !decodeJSON(r, &req) {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.interactions.Like(r.Context(), userID, req.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Unlike handles DELETE /api/v1/likes/{user_id}
func (h *InteractionHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	err := h.interactions.Unlike(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "user_id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Candidates handles GET /api/v1/candidates
func (h *InteractionHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	users, err := h.interactions.Candidates(r.Context(), middleware.GetUserID(r.Context()),
		queryInt(r, "limit", 0), queryInt(r, "offset", 0))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// Matches handles GET /api/v1/matches
func (h *InteractionHandler) Matches(w http.ResponseWriter, r *http.Request) {
	matches, err := h.interactions.Matches(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, matches)
}

// Unmatch handles DELETE /api/v1/matches/{match_id}
func (h *InteractionHandler) Unmatch(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	matchID := chi.URLParam(r, "match_id")

	if err := h.interactions.Unmatch(r.Context(), userID, matchID); err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().Str("user_id", userID).Str("match_id", matchID).Msg("Match deleted")
	w.WriteHeader(http.StatusNoContent)
}
