package handlers

import (
	"context"
	"net/http"
	"time"

	"udinder-backend/internal/models"

	"github.com/rs/zerolog/log"
)

type statsSource interface {
	Stats(ctx context.Context) (*models.Stats, error)
}

type presenceCounter interface {
	Online() int
}

// StatusResponse is the document served at /api/endpoint
type StatusResponse struct {
	Service string        `json:"service"`
	Status  string        `json:"status"`
	Time    time.Time     `json:"time"`
	Online  int           `json:"online"`
	Stats   *models.Stats `json:"stats,omitempty"`
}

// StatusHandler reports service health
type StatusHandler struct {
	stats    statsSource
	presence presenceCounter
	now      func() time.Time
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(stats statsSource, presence presenceCounter) *StatusHandler {
	return &StatusHandler{stats: stats, presence: presence, now: time.Now}
}

// Status handles GET /api/endpoint. A failing stats query degrades the status but still answers 200.
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Service: "udinder",
		Status:  "ok",
		Time:    h.now().UTC(),
		Online:  h.presence.Online(),
	}

	stats, err := h.stats.Stats(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to read stats")
		resp.Status = "degraded"
	} else {
		resp.Stats = stats
	}

	respondJSON(w, http.StatusOK, resp)
}
