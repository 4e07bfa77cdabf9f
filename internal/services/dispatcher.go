package services

import (
	"context"
	"errors"

	"udinder-backend/internal/push"

	"github.com/rs/zerolog/log"
)

// Dispatcher delivers events over the hub and falls back to push notifications
// for users that are offline.
type Dispatcher struct {
	hub   *Hub
	users UserStore
	push  push.Notifier
}

// NewDispatcher creates a dispatcher; a nil notifier disables the push fallback
func NewDispatcher(hub *Hub, users UserStore, notifier push.Notifier) *Dispatcher {
	if notifier == nil {
		notifier = push.Noop{}
	}
	return &Dispatcher{hub: hub, users: users, push: notifier}
}

// Deliver sends msg to userID. Failures are logged, never returned.
func (d *Dispatcher) Deliver(ctx context.Context, userID string, msg WSMessage, alert push.Notification) {
	err := d.hub.SendToUser(userID, msg)
	if err == nil {
		return
	}
	if !errors.Is(err, ErrOffline) {
		log.Warn().Err(err).Str("user_id", userID).Str("type", msg.Type).Msg("Failed to deliver WebSocket event")
	}

	user, err := d.users.GetByID(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to load user for push")
		return
	}
	if user.PushToken == nil || *user.PushToken == "" {
		return
	}

	if err := d.push.Notify(ctx, *user.PushToken, alert); err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("type", msg.Type).Msg("Failed to send push notification")
		return
	}
	log.Debug().Str("user_id", userID).Str("type", msg.Type).Msg("Push notification sent")
}
