package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"udinder-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	photoUploadTTL   = 5 * time.Minute
	photoDownloadTTL = time.Hour
)

// ProfileService handles profile-related business logic
type ProfileService struct {
	profiles ProfileStore
	users    UserStore
	photos   PhotoStore
	now      func() time.Time
}

// NewProfileService creates a new profile service
func NewProfileService(profiles ProfileStore, users UserStore, photos PhotoStore) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		users:    users,
		photos:   photos,
		now:      time.Now,
	}
}

// ProfileView is a user together with their profile
type ProfileView struct {
	User    *models.User    `json:"user"`
	Profile *models.Profile `json:"profile"`
}

// UpdateProfileRequest represents editable profile fields
type UpdateProfileRequest struct {
	Description *string `json:"description"`
	Interests   *string `json:"interests"`
}

// UpdateAttributesRequest represents editable user attributes
type UpdateAttributesRequest struct {
	Gender      *string    `json:"gender"`
	BirthDate   *time.Time `json:"birth_date"`
	Preferences *string    `json:"preferences"`
	Location    *string    `json:"location"`
	Age         *int       `json:"age"`
}

// PhotoUploadResponse represents the response with a pre-signed URL
type PhotoUploadResponse struct {
	UploadURL string `json:"upload_url"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expires_in"`
}

// Get returns the user and profile of userID. A user without a profile gets an empty one.
func (s *ProfileService) Get(ctx context.Context, userID string) (*ProfileView, error) {
	userID, err := parseID("user_id", userID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		profile = &models.Profile{UserID: userID}
	}

	if profile.PhotoKey != nil && s.photos != nil {
		url, err := s.photos.PresignDownload(ctx, *profile.PhotoKey, photoDownloadTTL)
		if err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("Failed to presign profile photo")
		} else {
			profile.PhotoURL = url
		}
	}

	return &ProfileView{User: user, Profile: profile}, nil
}

// Update sets the description and interests of userID's profile
func (s *ProfileService) Update(ctx context.Context, userID string, req UpdateProfileRequest) (*models.Profile, error) {
	profile := &models.Profile{
		ID:          uuid.New().String(),
		UserID:      userID,
		Description: trimmed(req.Description),
		Interests:   trimmed(req.Interests),
		UpdatedAt:   s.now(),
	}
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}

// UpdateAttributes sets the optional attributes of userID
func (s *ProfileService) UpdateAttributes(ctx context.Context, userID string, req UpdateAttributesRequest) (*models.User, error) {
	if err := validateAge(req.Age); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Gender = trimmed(req.Gender)
	user.BirthDate = req.BirthDate
	user.Preferences = trimmed(req.Preferences)
	user.Location = trimmed(req.Location)
	user.Age = req.Age

	if err := s.users.UpdateAttributes(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// SetPushToken stores or clears the device token of userID
func (s *ProfileService) SetPushToken(ctx context.Context, userID string, token *string) error {
	return s.users.UpdatePushToken(ctx, userID, trimmed(token))
}

// RequestPhotoUpload issues a pre-signed URL and records the key on the profile
func (s *ProfileService) RequestPhotoUpload(ctx context.Context, userID, contentType string) (*PhotoUploadResponse, error) {
	if s.photos == nil {
		return nil, fmt.Errorf("photo storage is not configured")
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: content_type must be an image type", ErrValidation)
	}

	key := fmt.Sprintf("profiles/%s/%s.jpg", userID, uuid.New().String())

	url, err := s.photos.PresignUpload(ctx, key, contentType, photoUploadTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate pre-signed URL: %w", err)
	}

	if err := s.profiles.SetPhoto(ctx, uuid.New().String(), userID, key); err != nil {
		return nil, err
	}

	return &PhotoUploadResponse{
		UploadURL: url,
		Key:       key,
		ExpiresIn: int(photoUploadTTL.Seconds()),
	}, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
