package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"udinder-backend/internal/ratelimit"
	"udinder-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error      string `json:"error"`
	RetryAfter int64  `json:"retry_after,omitempty"`
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, statusCode, ErrorResponse{Error: message})
}

// respondServiceError maps a service error to a status code
func respondServiceError(w http.ResponseWriter, err error) {
	if tf, ok := ratelimit.IsTooFast(err); ok {
		retry := tf.RetryAfter()
		w.Header().Set("Retry-After", strconv.FormatInt(retry, 10))
		respondJSON(w, http.StatusTooManyRequests, ErrorResponse{Error: "Too many requests", RetryAfter: retry})
		return
	}

	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrSelfAction):
		respondError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrInvalidToken):
		respondError(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, services.ErrNotMatched), errors.Is(err, services.ErrForbidden):
		respondError(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, services.ErrNotFound):
		respondError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrEmailTaken):
		respondError(w, err.Error(), http.StatusConflict)
	default:
		log.Error().Err(err).Msg("Request failed")
		respondError(w, "Internal server error", http.StatusInternalServerError)
	}
}

// decodeJSON reads the request body into v
func decodeJSON(r *http.Request, v interface{}) bool {
	return json.NewDecoder(r.Body).Decode(v) == nil
}

// queryInt returns a non-negative integer query parameter or def
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}
