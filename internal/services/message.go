package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"udinder-backend/internal/models"
	"udinder-backend/internal/push"
	"udinder-backend/internal/ratelimit"

	"github.com/google/uuid"
)

const maxMessageLength = 2000

// MessageService handles direct messages between matched users
type MessageService struct {
	messages MessageStore
	matches  MatchStore
	limiter  RateLimiter
	delivery Deliverer
	now      func() time.Time
}

// NewMessageService creates a new message service
func NewMessageService(messages MessageStore, matches MatchStore, limiter RateLimiter, delivery Deliverer) *MessageService {
	return &MessageService{
		messages: messages,
		matches:  matches,
		limiter:  limiter,
		delivery: delivery,
		now:      time.Now,
	}
}

// Send stores a message from senderID to receiverID and delivers it
func (s *MessageService) Send(ctx context.Context, senderID, receiverID, text string) (*models.Message, error) {
	receiverID, err := parseID("receiver_id", receiverID)
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: message is empty", ErrValidation)
	}
	if utf8.RuneCountInString(text) > maxMessageLength {
		return nil, fmt.Errorf("%w: message exceeds %d characters", ErrValidation, maxMessageLength)
	}
	if senderID == receiverID {
		return nil, ErrSelfAction
	}

	matched, err := s.matches.Exists(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, ErrNotMatched
	}

	if s.limiter != nil {
		if err := s.limiter.Allow(ctx, ratelimit.ActionMessage, senderID); err != nil {
			return nil, err
		}
	}

	msg := &models.Message{
		ID:         uuid.New().String(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Message:    text,
		CreatedAt:  s.now(),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	if s.delivery != nil {
		s.delivery.Deliver(ctx, receiverID, WSMessage{
			Type:      EventNewMessage,
			Timestamp: msg.CreatedAt.UnixMilli(),
			UserID:    senderID,
			Data:      msg,
		}, push.Notification{
			Title: "New message",
			Body:  preview(text),
			Data:  map[string]string{"sender_id": senderID},
		})
	}

	return msg, nil
}

// Conversation returns messages between userID and otherID sent before the given time
func (s *MessageService) Conversation(ctx context.Context, userID, otherID string, before time.Time, limit int) ([]*models.Message, error) {
	otherID, err := parseID("user_id", otherID)
	if err != nil {
		return nil, err
	}
	if before.IsZero() {
		before = s.now().Add(time.Second)
	}
	return s.messages.ListConversation(ctx, userID, otherID, before, limit)
}

func preview(text string) string {
	const previewLen = 80
	if utf8.RuneCountInString(text) <= previewLen {
		return text
	}
	runes := []rune(text)
	return string(runes[:previewLen]) + "…"
}
