package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WebSocket event types
const (
	EventMatchCreated = "match_created"
	EventNewMessage   = "new_message"
	EventSendMessage  = "send_message"
	EventPresence     = "presence"
	EventError        = "error"
)

// ErrOffline is returned when a user has no open connection
var ErrOffline = errors.New("user is not connected")

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type       string      `json:"type"`
	Timestamp  int64       `json:"timestamp,omitempty"`
	UserID     string      `json:"user_id,omitempty"`
	ReceiverID string      `json:"receiver_id,omitempty"`
	Text       string      `json:"text,omitempty"`
	Online     *bool       `json:"online,omitempty"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
}

// Conn is the part of *websocket.Conn the hub writes to
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type wsClient struct {
	conn Conn
	mu   sync.Mutex
}

func (c *wsClient) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub manages WebSocket connections, one per user
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*wsClient
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*wsClient),
	}
}

// Register registers a connection for a user, replacing any previous one
func (h *Hub) Register(userID string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.clients[userID]; ok {
		existing.conn.Close()
	}
	h.clients[userID] = &wsClient{conn: conn}

	log.Info().Str("user_id", userID).Msg("WebSocket connection registered")
}

// Unregister removes conn if it is still the user's current connection.
// It reports whether the user went offline.
func (h *Hub) Unregister(userID string, conn Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[userID]
	if !ok || c.conn != conn {
		return false
	}
	c.conn.Close()
	delete(h.clients, userID)

	log.Info().Str("user_id", userID).Msg("WebSocket connection unregistered")
	return true
}

// SendToUser sends a message to a specific user
func (h *Hub) SendToUser(userID string, message WSMessage) error {
	h.mu.RLock()
	c, ok := h.clients[userID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%s: %w", userID, ErrOffline)
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := c.write(data); err != nil {
		h.Unregister(userID, c.conn)
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// Reply writes to conn only while it is still the user's current connection,
// so answers to frames read from a replaced socket are dropped.
func (h *Hub) Reply(userID string, conn Conn, message WSMessage) error {
	h.mu.RLock()
	c, ok := h.clients[userID]
	h.mu.RUnlock()

	if !ok || c.conn != conn {
		return fmt.Errorf("%s: %w", userID, ErrOffline)
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := c.write(data); err != nil {
		h.Unregister(userID, conn)
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// IsOnline checks if a user is online
func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

// Online returns the number of connected users
func (h *Hub) Online() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// CloseAll closes every connection. Used on shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, c := range h.clients {
		c.conn.Close()
		delete(h.clients, id)
	}
}
