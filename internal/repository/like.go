package repository

import (
	"context"
	"errors"
	"fmt"

	"udinder-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// LikeRepository handles database operations for likes
type LikeRepository struct {
	db DB
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// Like records like and, when the liked user already liked back, creates a match
// with id matchID. It returns the match only when this call created it.
func (r *LikeRepository) Like(ctx context.Context, like *models.Like, matchID string) (*models.Match, error) {
	var created *models.Match
	a, b := models.CanonicalPair(like.UserID, like.LikedUserID)

	err := WithTx(ctx, r.db, func(tx pgx.Tx) error {
		// Serialises concurrent likes within one pair so the reciprocal check sees the other side.
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, pairLockKey(a, b)); err != nil {
			return fmt.Errorf("failed to lock pair: %w", err)
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO likes (id, user_id, liked_user_id, created_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id, liked_user_id) DO NOTHING
		`, like.ID, like.UserID, like.LikedUserID, like.CreatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" {
				return fmt.Errorf("liked user %w", ErrNotFound)
			}
			return fmt.Errorf("failed to create like: %w", err)
		}

		var mutual bool
		err = tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM likes WHERE user_id = $1 AND liked_user_id = $2)`,
			like.LikedUserID, like.UserID,
		).Scan(&mutual)
		if err != nil {
			return fmt.Errorf("failed to check reciprocal like: %w", err)
		}
		if !mutual {
			return nil
		}

		match := models.Match{ID: matchID, UserID: a, LikedUserID: b, CreatedAt: like.CreatedAt}
		err = tx.QueryRow(ctx, `
			INSERT INTO matches (id, user_id, liked_user_id, created_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id, liked_user_id) DO NOTHING
			RETURNING id
		`, match.ID, match.UserID, match.LikedUserID, match.CreatedAt).Scan(&match.ID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}
			return fmt.Errorf("failed to create match: %w", err)
		}

		created = &match
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func pairLockKey(a, b string) string {
	return "pair:" + a + ":" + b
}

// Delete removes a like
func (r *LikeRepository) Delete(ctx context.Context, userID, likedUserID string) error {
	result, err := r.db.Exec(ctx,
		`DELETE FROM likes WHERE user_id = $1 AND liked_user_id = $2`, userID, likedUserID)
	if err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("like %w", ErrNotFound)
	}
	return nil
}
