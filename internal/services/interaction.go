package services

import (
	"context"
	"time"

	"udinder-backend/internal/models"
	"udinder-backend/internal/push"
	"udinder-backend/internal/ratelimit"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// InteractionService handles likes and matches
type InteractionService struct {
	users    UserStore
	likes    LikeStore
	matches  MatchStore
	limiter  RateLimiter
	delivery Deliverer
	now      func() time.Time
}

// NewInteractionService creates a new interaction service
func NewInteractionService(users UserStore, likes LikeStore, matches MatchStore, limiter RateLimiter, delivery Deliverer) *InteractionService {
	return &InteractionService{
		users:    users,
		likes:    likes,
		matches:  matches,
		limiter:  limiter,
		delivery: delivery,
		now:      time.Now,
	}
}

// LikeResult is the outcome of a like
type LikeResult struct {
	Liked   bool          `json:"liked"`
	Matched bool          `json:"matched"`
	Match   *models.Match `json:"match,omitempty"`
}

// Like records that userID likes targetID and creates a match when it is mutual
func (s *InteractionService) Like(ctx context.Context, userID, targetID string) (*LikeResult, error) {
	targetID, err := parseID("user_id", targetID)
	if err != nil {
		return nil, err
	}
	if userID == targetID {
		return nil, ErrSelfAction
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if s.limiter != nil {
		if err := s.limiter.Allow(ctx, ratelimit.ActionLike, userID); err != nil {
			return nil, err
		}
	}

	like := &models.Like{
		ID:          uuid.New().String(),
		UserID:      userID,
		LikedUserID: target.ID,
		CreatedAt:   s.now(),
	}
	match, err := s.likes.Like(ctx, like, uuid.New().String())
	if err != nil {
		return nil, err
	}

	if match == nil {
		matched, err := s.matches.Exists(ctx, userID, targetID)
		if err != nil {
			return nil, err
		}
		return &LikeResult{Liked: true, Matched: matched}, nil
	}

	log.Info().
		Str("match_id", match.ID).
		Str("user_id", match.UserID).
		Str("liked_user_id", match.LikedUserID).
		Msg("Match created")

	s.notifyMatch(ctx, match)

	return &LikeResult{Liked: true, Matched: true, Match: match}, nil
}

// Unlike removes a like. Existing matches are kept.
func (s *InteractionService) Unlike(ctx context.Context, userID, targetID string) error {
	targetID, err := parseID("user_id", targetID)
	if err != nil {
		return err
	}
	if userID == targetID {
		return ErrSelfAction
	}
	return s.likes.Delete(ctx, userID, targetID)
}

// Candidates lists users that userID has not liked yet
func (s *InteractionService) Candidates(ctx context.Context, userID string, limit, offset int) ([]*models.User, error) {
	return s.users.ListCandidates(ctx, userID, limit, offset)
}

// Matches lists the matches of userID, newest first
func (s *InteractionService) Matches(ctx context.Context, userID string) ([]*models.Match, error) {
	return s.matches.ListByUser(ctx, userID)
}

// Unmatch deletes a match the user is a member of
func (s *InteractionService) Unmatch(ctx context.Context, userID, matchID string) error {
	matchID, err := parseID("match_id", matchID)
	if err != nil {
		return err
	}
	match, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return err
	}
	if !match.Has(userID) {
		return ErrForbidden
	}
	return s.matches.Delete(ctx, match)
}

func (s *InteractionService) notifyMatch(ctx context.Context, match *models.Match) {
	if s.delivery == nil {
		return
	}

	for _, userID := range []string{match.UserID, match.LikedUserID} {
		s.delivery.Deliver(ctx, userID, WSMessage{
			Type:      EventMatchCreated,
			Timestamp: match.CreatedAt.UnixMilli(),
			UserID:    match.Partner(userID),
			Data:      match,
		}, push.Notification{
			Title: "It's a match!",
			Body:  "Someone you liked likes you too.",
			Data:  map[string]string{"match_id": match.ID},
		})
	}
}
