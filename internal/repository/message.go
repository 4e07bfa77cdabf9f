package repository

import (
	"context"
	"fmt"
	"time"

	"udinder-backend/internal/models"
)

// MessageRepository handles database operations for messages
type MessageRepository struct {
	db DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create stores a message
func (r *MessageRepository) Create(ctx context.Context, msg *models.Message) error {
	query := `
		INSERT INTO messages (id, sender_id, receiver_id, message, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query, msg.ID, msg.SenderID, msg.ReceiverID, msg.Message, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// ListConversation returns up to limit messages exchanged between two users
// created strictly before the given time, oldest first.
func (r *MessageRepository) ListConversation(ctx context.Context, userA, userB string, before time.Time, limit int) ([]*models.Message, error) {
	limit, _ = clampPage(limit, 0, 50, 200)

	query := `
		SELECT id, sender_id, receiver_id, message, created_at
		FROM (
			SELECT id, sender_id, receiver_id, message, created_at
			FROM messages
			WHERE ((sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1))
			  AND created_at < $3
			ORDER BY created_at DESC
			LIMIT $4
		) page
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, userA, userB, before, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*models.Message, 0)
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Message, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}
	return messages, nil
}
