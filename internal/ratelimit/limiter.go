package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Action names a rate limited operation
type Action string

const (
	ActionLike    Action = "like"
	ActionMessage Action = "message"
)

// WindowStore counts events in expiring windows
type WindowStore interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
	WindowState(ctx context.Context, key string) (int64, time.Duration, error)
}

// TooFastError is returned when a user exceeded a window
type TooFastError struct {
	RetryAfterSec int64
}

func (e TooFastError) Error() string {
	return "too fast"
}

// RetryAfter returns the seconds to wait, never less than one
func (e TooFastError) RetryAfter() int64 {
	if e.RetryAfterSec <= 0 {
		return 1
	}
	return e.RetryAfterSec
}

// IsTooFast unwraps a TooFastError
func IsTooFast(err error) (*TooFastError, bool) {
	var tf TooFastError
	if errors.As(err, &tf) {
		return &tf, true
	}
	return nil, false
}

// Limits are the allowed counts per window; zero disables a window
type Limits struct {
	Per10Sec  int
	PerMinute int
}

type window struct {
	name   string
	length time.Duration
	limit  int
}

// Limiter enforces per-user windows for each action
type Limiter struct {
	store  WindowStore
	limits map[Action]Limits
}

// NewLimiter creates a limiter; actions without limits are always allowed
func NewLimiter(store WindowStore, limits map[Action]Limits) *Limiter {
	return &Limiter{store: store, limits: limits}
}

// Allow consumes one event for userID and returns TooFastError when a window overflows
func (l *Limiter) Allow(ctx context.Context, action Action, userID string) error {
	if l == nil || l.store == nil {
		return nil
	}
	if userID == "" {
		return fmt.Errorf("user id is required")
	}

	retryAfter := int64(0)
	for _, w := range l.windows(action) {
		count, ttl, err := l.store.IncrementWindow(ctx, key(action, w.name, userID), w.length)
		if err != nil {
			return err
		}
		if count > int64(w.limit) {
			retryAfter = max(retryAfter, ceilSeconds(ttl))
		}
	}

	if retryAfter > 0 {
		return TooFastError{RetryAfterSec: retryAfter}
	}
	return nil
}

// RetryAfter reports how long userID must wait before the next action, without consuming
func (l *Limiter) RetryAfter(ctx context.Context, action Action, userID string) (int64, error) {
	if l == nil || l.store == nil {
		return 0, nil
	}

	retryAfter := int64(0)
	for _, w := range l.windows(action) {
		count, ttl, err := l.store.WindowState(ctx, key(action, w.name, userID))
		if err != nil {
			return 0, err
		}
		if count >= int64(w.limit) {
			retryAfter = max(retryAfter, ceilSeconds(ttl))
		}
	}
	return retryAfter, nil
}

func (l *Limiter) windows(action Action) []window {
	limits := l.limits[action]
	out := make([]window, 0, 2)
	if limits.Per10Sec > 0 {
		out = append(out, window{name: "10s", length: 10 * time.Second, limit: limits.Per10Sec})
	}
	if limits.PerMinute > 0 {
		out = append(out, window{name: "min", length: time.Minute, limit: limits.PerMinute})
	}
	return out
}

func key(action Action, window, userID string) string {
	return "rate:" + string(action) + ":" + window + ":" + userID
}

func ceilSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	sec := int64(d / time.Second)
	if d%time.Second != 0 {
		sec++
	}
	return sec
}
