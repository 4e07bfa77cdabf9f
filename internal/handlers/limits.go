package handlers

import (
	"context"
	"net/http"

	"udinder-backend/internal/middleware"
	"udinder-backend/internal/ratelimit"
)

type cooldownSource interface {
	RetryAfter(ctx context.Context, action ratelimit.Action, userID string) (int64, error)
}

// LimitsResponse reports how many seconds the user must wait per action; zero means ready
type LimitsResponse struct {
	LikeRetryAfter    int64 `json:"like_retry_after"`
	MessageRetryAfter int64 `json:"message_retry_after"`
}

// LimitsHandler exposes rate limit cooldowns so clients can disable buttons
type LimitsHandler struct {
	limiter cooldownSource
}

// NewLimitsHandler creates a new limits handler
func NewLimitsHandler(limiter cooldownSource) *LimitsHandler {
	return &LimitsHandler{limiter: limiter}
}

// Get handles GET /api/v1/limits
func (h *LimitsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	like, err := h.limiter.RetryAfter(ctx, ratelimit.ActionLike, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	message, err := h.limiter.RetryAfter(ctx, ratelimit.ActionMessage, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, LimitsResponse{LikeRetryAfter: like, MessageRetryAfter: message})
}
