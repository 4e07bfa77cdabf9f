package handlers

import (
	"context"
	"net/http"
	"time"

	"udinder-backend/internal/middleware"
	"udinder-backend/internal/models"

	"github.com/go-chi/chi/v5"
)

type messageService interface {
	Send(ctx context.Context, senderID, receiverID, text string) (*models.Message, error)
	Conversation(ctx context.Context, userID, otherID string, before time.Time, limit int) ([]*models.Message, error)
}

// MessageHandler handles direct messages
type MessageHandler struct {
	messages messageService
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messages messageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// SendMessageRequest represents the request body for sending a message
type SendMessageRequest struct {
	ReceiverID string `json:"receiver_id"`
	Message    string `json:"message"`
}

// Send handles POST /api/v1/messages
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if !decodeJSON(r, &req) {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	msg, err := h.messages.Send(r.Context(), middleware.GetUserID(r.Context()), req.ReceiverID, req.Message)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, msg)
}

// Conversation handles GET /api/v1/messages/{user_id}?before=RFC3339&limit=N
func (h *MessageHandler) Conversation(w http.ResponseWriter, r *http.Request) {
	var before time.Time
	if raw := r.URL.Query().Get("before"); raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			respondError(w, "before must be an RFC 3339 timestamp", http.StatusBadRequest)
			return
		}
		before = t
	}

	messages, err := h.messages.Conversation(r.Context(), middleware.GetUserID(r.Context()),
		chi.URLParam(r, "user_id"), before, queryInt(r, "limit", 0))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, messages)
}
