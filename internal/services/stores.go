package services

import (
	"context"
	"time"

	"udinder-backend/internal/models"
	"udinder-backend/internal/push"
	"udinder-backend/internal/ratelimit"
)

// UserStore is implemented by repository.UserRepository
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateAttributes(ctx context.Context, user *models.User) error
	UpdatePushToken(ctx context.Context, userID string, pushToken *string) error
	List(ctx context.Context, limit, offset int) ([]*models.User, int, error)
	ListCandidates(ctx context.Context, userID string, limit, offset int) ([]*models.User, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*models.Stats, error)
}

// ProfileStore is implemented by repository.ProfileRepository
type ProfileStore interface {
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	Upsert(ctx context.Context, p *models.Profile) error
	SetPhoto(ctx context.Context, id, userID, photoKey string) error
}

// AdminStore is implemented by repository.AdminRepository
type AdminStore interface {
	GetByUserID(ctx context.Context, userID string) (*models.Admin, error)
	Grant(ctx context.Context, id, userID string) error
	SetBlocked(ctx context.Context, userID string, blocked bool) error
}

// LikeStore is implemented by repository.LikeRepository
type LikeStore interface {
	Like(ctx context.Context, like *models.Like, matchID string) (*models.Match, error)
	Delete(ctx context.Context, userID, likedUserID string) error
}

// MatchStore is implemented by repository.MatchRepository
type MatchStore interface {
	GetByID(ctx context.Context, id string) (*models.Match, error)
	Exists(ctx context.Context, userA, userB string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Match, error)
	Delete(ctx context.Context, m *models.Match) error
}

// MessageStore is implemented by repository.MessageRepository
type MessageStore interface {
	Create(ctx context.Context, msg *models.Message) error
	ListConversation(ctx context.Context, userA, userB string, before time.Time, limit int) ([]*models.Message, error)
}

// PhotoStore issues presigned object storage URLs
type PhotoStore interface {
	PresignUpload(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)
	PresignDownload(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Deliverer sends realtime events to a user, falling back to push
type Deliverer interface {
	Deliver(ctx context.Context, userID string, msg WSMessage, alert push.Notification)
}

// RateLimiter is implemented by ratelimit.Limiter
type RateLimiter interface {
	Allow(ctx context.Context, action ratelimit.Action, userID string) error
}
