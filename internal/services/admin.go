package services

import (
	"context"
	"errors"

	"udinder-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// AdminService handles administration
type AdminService struct {
	admins AdminStore
	users  UserStore
}

// NewAdminService creates a new admin service
func NewAdminService(admins AdminStore, users UserStore) *AdminService {
	return &AdminService{admins: admins, users: users}
}

// IsActiveAdmin reports whether userID holds a non-blocked admin record
func (s *AdminService) IsActiveAdmin(ctx context.Context, userID string) (bool, error) {
	admin, err := s.admins.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return !admin.IsBlocked, nil
}

// UserPage is a page of users
type UserPage struct {
	Users []*models.User `json:"users"`
	Total int            `json:"total"`
}

// ListUsers returns a page of users
func (s *AdminService) ListUsers(ctx context.Context, limit, offset int) (*UserPage, error) {
	users, total, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return &UserPage{Users: users, Total: total}, nil
}

// DeleteUser removes a user and everything they own
func (s *AdminService) DeleteUser(ctx context.Context, actorID, userID string) error {
	userID, err := parseID("user_id", userID)
	if err != nil {
		return err
	}
	if actorID == userID {
		return ErrSelfAction
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	log.Info().Str("admin_id", actorID).Str("user_id", userID).Msg("User deleted")
	return nil
}

// Grant gives userID admin rights
func (s *AdminService) Grant(ctx context.Context, actorID, userID string) error {
	userID, err := parseID("user_id", userID)
	if err != nil {
		return err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}
	if err := s.admins.Grant(ctx, uuid.New().String(), userID); err != nil {
		return err
	}
	log.Info().Str("admin_id", actorID).Str("user_id", userID).Msg("Admin granted")
	return nil
}

// SetBlocked blocks or unblocks another admin
func (s *AdminService) SetBlocked(ctx context.Context, actorID, userID string, blocked bool) error {
	userID, err := parseID("user_id", userID)
	if err != nil {
		return err
	}
	if actorID == userID {
		return ErrSelfAction
	}
	if err := s.admins.SetBlocked(ctx, userID, blocked); err != nil {
		return err
	}
	log.Info().Str("admin_id", actorID).Str("user_id", userID).Bool("blocked", blocked).Msg("Admin block state changed")
	return nil
}

// Stats returns aggregate counters
func (s *AdminService) Stats(ctx context.Context) (*models.Stats, error) {
	return s.users.Stats(ctx)
}
