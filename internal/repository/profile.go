package repository

import (
	"context"
	"fmt"

	"udinder-backend/internal/models"
)

// ProfileRepository handles database operations for profiles
type ProfileRepository struct {
	db DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetByUserID retrieves the profile of a user
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	query := `
		SELECT id, user_id, photo, description, interests, updated_at
		FROM profiles
		WHERE user_id = $1
	`
	var p models.Profile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.PhotoKey, &p.Description, &p.Interests, &p.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err, "profile")
	}
	return &p, nil
}

// Upsert creates the profile or updates its description and interests
func (r *ProfileRepository) Upsert(ctx context.Context, p *models.Profile) error {
	query := `
		INSERT INTO profiles (id, user_id, description, interests, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET description = EXCLUDED.description,
		    interests = EXCLUDED.interests,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, photo
	`
	err := r.db.QueryRow(ctx, query, p.ID, p.UserID, p.Description, p.Interests, p.UpdatedAt).
		Scan(&p.ID, &p.PhotoKey)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

// SetPhoto stores the object key of the profile photo, creating the profile if needed
func (r *ProfileRepository) SetPhoto(ctx context.Context, id, userID, photoKey string) error {
	query := `
		INSERT INTO profiles (id, user_id, photo, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET photo = EXCLUDED.photo, updated_at = NOW()
	`
	if _, err := r.db.Exec(ctx, query, id, userID, photoKey); err != nil {
		return fmt.Errorf("failed to set profile photo: %w", err)
	}
	return nil
}
