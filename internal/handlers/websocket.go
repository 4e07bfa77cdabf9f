package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"udinder-backend/internal/middleware"
	"udinder-backend/internal/models"
	"udinder-backend/internal/ratelimit"
	"udinder-backend/internal/services"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type matchLister interface {
	Matches(ctx context.Context, userID string) ([]*models.Match, error)
}

type messageSender interface {
	Send(ctx context.Context, senderID, receiverID, text string) (*models.Message, error)
}

// WebSocketHandler handles WebSocket connections
type WebSocketHandler struct {
	hub      *services.Hub
	tokens   middleware.TokenValidator
	matches  matchLister
	messages messageSender
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(
	hub *services.Hub,
	tokens middleware.TokenValidator,
	matches matchLister,
	messages messageSender,
) *WebSocketHandler {
	return &WebSocketHandler{
		hub:      hub,
		tokens:   tokens,
		matches:  matches,
		messages: messages,
	}
}

// HandleWebSocket handles GET /ws?token=...
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondError(w, "token required", http.StatusUnauthorized)
		return
	}

	userID, err := h.tokens.ValidateJWT(token)
	if err != nil {
		respondError(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	// Detached from the request so the offline presence update always runs.
	ctx := context.WithoutCancel(r.Context())

	h.hub.Register(userID, conn)
	h.broadcastPresence(ctx, userID, true)

	defer func() {
		h.hub.Unregister(userID, conn)
		// The hub may already have dropped conn after a failed write.
		if !h.hub.IsOnline(userID) {
			h.broadcastPresence(ctx, userID, false)
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error().Err(err).Str("user_id", userID).Msg("WebSocket error")
			}
			return
		}

		var msg services.WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.replyError(userID, conn, "Invalid message format")
			continue
		}

		h.handleMessage(ctx, userID, conn, msg)
	}
}

func (h *WebSocketHandler) handleMessage(ctx context.Context, userID string, conn services.Conn, msg services.WSMessage) {
	switch msg.Type {
	case services.EventSendMessage:
		sent, err := h.messages.Send(ctx, userID, msg.ReceiverID, msg.Text)
		if err != nil {
			log.Debug().Err(err).Str("user_id", userID).Msg("WebSocket send_message rejected")
			h.replyError(userID, conn, socketErrorText(err))
			return
		}
		// Echo the stored message back to the sender.
		h.reply(userID, conn, services.WSMessage{
			Type:      services.EventNewMessage,
			Timestamp: sent.CreatedAt.UnixMilli(),
			UserID:    userID,
			Data:      sent,
		})
	default:
		h.replyError(userID, conn, "Unknown message type")
	}
}

// broadcastPresence tells every connected match partner that userID went online or offline
func (h *WebSocketHandler) broadcastPresence(ctx context.Context, userID string, online bool) {
	matches, err := h.matches.Matches(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to load matches for presence")
		return
	}

	for _, m := range matches {
		partnerID := m.Partner(userID)
		if !h.hub.IsOnline(partnerID) {
			continue
		}
		h.send(partnerID, services.WSMessage{
			Type:      services.EventPresence,
			Timestamp: time.Now().UnixMilli(),
			UserID:    userID,
			Online:    &online,
		})
	}
}

func (h *WebSocketHandler) replyError(userID string, conn services.Conn, message string) {
	h.reply(userID, conn, services.WSMessage{Type: services.EventError, Message: message})
}

func (h *WebSocketHandler) reply(userID string, conn services.Conn, msg services.WSMessage) {
	if err := h.hub.Reply(userID, conn, msg); err != nil && !errors.Is(err, services.ErrOffline) {
		log.Warn().Err(err).Str("user_id", userID).Str("type", msg.Type).Msg("Failed to write WebSocket reply")
	}
}

func (h *WebSocketHandler) send(userID string, msg services.WSMessage) {
	if err := h.hub.SendToUser(userID, msg); err != nil && !errors.Is(err, services.ErrOffline) {
		log.Warn().Err(err).Str("user_id", userID).Str("type", msg.Type).Msg("Failed to write WebSocket message")
	}
}

func socketErrorText(err error) string {
	if _, ok := ratelimit.IsTooFast(err); ok {
		return "Too many requests"
	}
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrSelfAction),
		errors.Is(err, services.ErrNotMatched):
		return err.Error()
	default:
		return "Internal server error"
	}
}
