package repository

import (
	"context"
	"fmt"

	"udinder-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

// MatchRepository handles database operations for matches
type MatchRepository struct {
	db DB
}

// NewMatchRepository creates a new match repository
func NewMatchRepository(db DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// GetByID retrieves a match by ID
func (r *MatchRepository) GetByID(ctx context.Context, id string) (*models.Match, error) {
	query := `SELECT id, user_id, liked_user_id, created_at FROM matches WHERE id = $1`
	var m models.Match
	if err := r.db.QueryRow(ctx, query, id).Scan(&m.ID, &m.UserID, &m.LikedUserID, &m.CreatedAt); err != nil {
		return nil, notFound(err, "match")
	}
	return &m, nil
}

// Exists reports whether two users are matched
func (r *MatchRepository) Exists(ctx context.Context, userA, userB string) (bool, error) {
	a, b := models.CanonicalPair(userA, userB)
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM matches WHERE user_id = $1 AND liked_user_id = $2)`, a, b,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check match: %w", err)
	}
	return exists, nil
}

// ListByUser returns the matches of a user, newest first
func (r *MatchRepository) ListByUser(ctx context.Context, userID string) ([]*models.Match, error) {
	query := `
		SELECT id, user_id, liked_user_id, created_at
		FROM matches
		WHERE user_id = $1 OR liked_user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		var m models.Match
		if err := rows.Scan(&m.ID, &m.UserID, &m.LikedUserID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating matches: %w", err)
	}
	return matches, nil
}

// Delete removes a match together with the likes that produced it
func (r *MatchRepository) Delete(ctx context.Context, m *models.Match) error {
	return WithTx(ctx, r.db, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx, `DELETE FROM matches WHERE id = $1`, m.ID)
		if err != nil {
			return fmt.Errorf("failed to delete match: %w", err)
		}
		if result.RowsAffected() == 0 {
			return fmt.Errorf("match %w", ErrNotFound)
		}

		_, err = tx.Exec(ctx, `
			DELETE FROM likes
			WHERE (user_id = $1 AND liked_user_id = $2)
			   OR (user_id = $2 AND liked_user_id = $1)
		`, m.UserID, m.LikedUserID)
		if err != nil {
			return fmt.Errorf("failed to delete match likes: %w", err)
		}
		return nil
	})
}
