package repository

import (
	"context"
	"fmt"

	"udinder-backend/internal/models"
)

// AdminRepository handles database operations for admins
type AdminRepository struct {
	db DB
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// GetByUserID retrieves the admin record of a user
func (r *AdminRepository) GetByUserID(ctx context.Context, userID string) (*models.Admin, error) {
	query := `SELECT id, user_id, is_blocked FROM admins WHERE user_id = $1`
	var a models.Admin
	if err := r.db.QueryRow(ctx, query, userID).Scan(&a.ID, &a.UserID, &a.IsBlocked); err != nil {
		return nil, notFound(err, "admin")
	}
	return &a, nil
}

// Grant makes a user an active admin
func (r *AdminRepository) Grant(ctx context.Context, id, userID string) error {
	query := `
		INSERT INTO admins (id, user_id, is_blocked)
		VALUES ($1, $2, FALSE)
		ON CONFLICT (user_id) DO UPDATE SET is_blocked = FALSE
	`
	if _, err := r.db.Exec(ctx, query, id, userID); err != nil {
		return fmt.Errorf("failed to grant admin: %w", err)
	}
	return nil
}

// SetBlocked blocks or unblocks an admin
func (r *AdminRepository) SetBlocked(ctx context.Context, userID string, blocked bool) error {
	result, err := r.db.Exec(ctx, `UPDATE admins SET is_blocked = $1 WHERE user_id = $2`, blocked, userID)
	if err != nil {
		return fmt.Errorf("failed to update admin: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("admin %w", ErrNotFound)
	}
	return nil
}
