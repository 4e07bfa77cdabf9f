package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"udinder-backend/internal/models"
	"udinder-backend/internal/push"
	"udinder-backend/internal/ratelimit"
	"udinder-backend/internal/repository"
)

// Fixed identifiers; canonical order is alice < bob < carol.
const (
	alice     = "0a11ce00-0000-4000-8000-000000000001"
	bob       = "0b0b0000-0000-4000-8000-000000000002"
	carol     = "0ca40100-0000-4000-8000-000000000003"
	ghost     = "9e057000-0000-4000-8000-000000000009"
	rootUser  = "a0000000-0000-4000-8000-000000000001"
	modUser   = "a0000000-0000-4000-8000-000000000002"
	plainUser = "a0000000-0000-4000-8000-000000000003"
)

type memUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
	likes *memGraph
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[string]*models.User)}
}

func (m *memUsers) add(id, email string) *models.User {
	u := &models.User{ID: id, Email: email, Name: id, CreatedAt: time.Now()}
	m.users[id] = u
	return u
}

func (m *memUsers) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return fmt.Errorf("user email %w", repository.ErrDuplicate)
		}
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("user %w", repository.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("user %w", repository.ErrNotFound)
}

func (m *memUsers) UpdateAttributes(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return fmt.Errorf("user %w", repository.ErrNotFound)
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memUsers) UpdatePushToken(_ context.Context, userID string, token *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[userID]; ok {
		u.PushToken = token
	}
	return nil
}

func (m *memUsers) sorted() []*models.User {
	out := make([]*models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memUsers) List(_ context.Context, limit, offset int) ([]*models.User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.sorted()
	if offset > len(all) {
		offset = len(all)
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], len(all), nil
}

func (m *memUsers) ListCandidates(_ context.Context, userID string, limit, offset int) ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.User, 0)
	for _, u := range m.sorted() {
		if u.ID == userID {
			continue
		}
		if m.likes != nil && m.likes.hasLike(userID, u.ID) {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (m *memUsers) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return fmt.Errorf("user %w", repository.ErrNotFound)
	}
	delete(m.users, id)
	return nil
}

func (m *memUsers) Stats(context.Context) (*models.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &models.Stats{Users: len(m.users)}, nil
}

// memGraph backs both memLikes and memMatches.
type memGraph struct {
	mu      sync.Mutex
	likes   map[[2]string]bool
	matches map[string]*models.Match
}

func newMemGraph() *memGraph {
	return &memGraph{likes: make(map[[2]string]bool), matches: make(map[string]*models.Match)}
}

func (g *memGraph) hasLike(from, to string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.likes[[2]string{from, to}]
}

func (g *memGraph) findMatch(a, b string) *models.Match {
	a, b = models.CanonicalPair(a, b)
	for _, m := range g.matches {
		if m.UserID == a && m.LikedUserID == b {
			return m
		}
	}
	return nil
}

type memLikes struct{ g *memGraph }

func (l memLikes) Like(_ context.Context, like *models.Like, matchID string) (*models.Match, error) {
	g := l.g
	g.mu.Lock()
	defer g.mu.Unlock()
	g.likes[[2]string{like.UserID, like.LikedUserID}] = true
	if !g.likes[[2]string{like.LikedUserID, like.UserID}] {
		return nil, nil
	}
	if g.findMatch(like.UserID, like.LikedUserID) != nil {
		return nil, nil
	}
	a, b := models.CanonicalPair(like.UserID, like.LikedUserID)
	m := &models.Match{ID: matchID, UserID: a, LikedUserID: b, CreatedAt: like.CreatedAt}
	g.matches[m.ID] = m
	cp := *m
	return &cp, nil
}

func (l memLikes) Delete(_ context.Context, userID, likedUserID string) error {
	g := l.g
	g.mu.Lock()
	defer g.mu.Unlock()
	key := [2]string{userID, likedUserID}
	if !g.likes[key] {
		return fmt.Errorf("like %w", repository.ErrNotFound)
	}
	delete(g.likes, key)
	return nil
}

type memMatches struct{ g *memGraph }

func (m memMatches) GetByID(_ context.Context, id string) (*models.Match, error) {
	m.g.mu.Lock()
	defer m.g.mu.Unlock()
	match, ok := m.g.matches[id]
	if !ok {
		return nil, fmt.Errorf("match %w", repository.ErrNotFound)
	}
	cp := *match
	return &cp, nil
}

func (m memMatches) Exists(_ context.Context, a, b string) (bool, error) {
	m.g.mu.Lock()
	defer m.g.mu.Unlock()
	return m.g.findMatch(a, b) != nil, nil
}

func (m memMatches) ListByUser(_ context.Context, userID string) ([]*models.Match, error) {
	m.g.mu.Lock()
	defer m.g.mu.Unlock()
	out := make([]*models.Match, 0)
	for _, match := range m.g.matches {
		if match.Has(userID) {
			out = append(out, match)
		}
	}
	return out, nil
}

func (m memMatches) Delete(_ context.Context, match *models.Match) error {
	m.g.mu.Lock()
	defer m.g.mu.Unlock()
	if _, ok := m.g.matches[match.ID]; !ok {
		return fmt.Errorf("match %w", repository.ErrNotFound)
	}
	delete(m.g.matches, match.ID)
	delete(m.g.likes, [2]string{match.UserID, match.LikedUserID})
	delete(m.g.likes, [2]string{match.LikedUserID, match.UserID})
	return nil
}

type memMessages struct {
	mu       sync.Mutex
	messages []*models.Message
}

func (m *memMessages) Create(_ context.Context, msg *models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

func (m *memMessages) ListConversation(_ context.Context, a, b string, before time.Time, limit int) ([]*models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Message, 0)
	for _, msg := range m.messages {
		between := (msg.SenderID == a && msg.ReceiverID == b) || (msg.SenderID == b && msg.ReceiverID == a)
		if between && msg.CreatedAt.Before(before) {
			out = append(out, msg)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

type memProfiles struct {
	profiles map[string]*models.Profile
}

func newMemProfiles() *memProfiles {
	return &memProfiles{profiles: make(map[string]*models.Profile)}
}

func (m *memProfiles) GetByUserID(_ context.Context, userID string) (*models.Profile, error) {
	p, ok := m.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("profile %w", repository.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (m *memProfiles) Upsert(_ context.Context, p *models.Profile) error {
	if existing, ok := m.profiles[p.UserID]; ok {
		p.ID = existing.ID
		p.PhotoKey = existing.PhotoKey
	}
	cp := *p
	m.profiles[p.UserID] = &cp
	return nil
}

func (m *memProfiles) SetPhoto(_ context.Context, id, userID, key string) error {
	p, ok := m.profiles[userID]
	if !ok {
		p = &models.Profile{ID: id, UserID: userID}
		m.profiles[userID] = p
	}
	p.PhotoKey = &key
	return nil
}

type memAdmins struct {
	admins map[string]*models.Admin
}

func (m *memAdmins) GetByUserID(_ context.Context, userID string) (*models.Admin, error) {
	a, ok := m.admins[userID]
	if !ok {
		return nil, fmt.Errorf("admin %w", repository.ErrNotFound)
	}
	cp := *a
	return &cp, nil
}

func (m *memAdmins) Grant(_ context.Context, id, userID string) error {
	if a, ok := m.admins[userID]; ok {
		a.IsBlocked = false
		return nil
	}
	m.admins[userID] = &models.Admin{ID: id, UserID: userID}
	return nil
}

func (m *memAdmins) SetBlocked(_ context.Context, userID string, blocked bool) error {
	a, ok := m.admins[userID]
	if !ok {
		return fmt.Errorf("admin %w", repository.ErrNotFound)
	}
	a.IsBlocked = blocked
	return nil
}

type fakePhotos struct{}

func (fakePhotos) PresignUpload(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	return "https://storage.test/put/" + key, nil
}

func (fakePhotos) PresignDownload(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://storage.test/get/" + key, nil
}

type delivered struct {
	userID string
	msg    WSMessage
	alert  push.Notification
}

type recordingDelivery struct {
	mu   sync.Mutex
	sent []delivered
}

func (r *recordingDelivery) Deliver(_ context.Context, userID string, msg WSMessage, alert push.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, delivered{userID: userID, msg: msg, alert: alert})
}

type denyLimiter struct {
	action ratelimit.Action
}

func (d denyLimiter) Allow(_ context.Context, action ratelimit.Action, _ string) error {
	if action == d.action {
		return ratelimit.TooFastError{RetryAfterSec: 7}
	}
	return nil
}

type recordingPush struct {
	mu     sync.Mutex
	tokens []string
}

func (p *recordingPush) Notify(_ context.Context, token string, _ push.Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tokens = append(p.tokens, token)
	return nil
}

type fakeConn struct {
	mu     sync.Mutex
	writes [][]byte
	closed bool
	err    error
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.writes = append(c.writes, data)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}
