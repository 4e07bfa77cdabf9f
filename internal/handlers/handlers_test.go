package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"udinder-backend/internal/middleware"
	"udinder-backend/internal/models"
	"udinder-backend/internal/ratelimit"
	"udinder-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// asUser injects an authenticated user the way AuthMiddleware does.
func asUser(userID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithUserID(r.Context(), userID)))
		})
	}
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRespondServiceErrorStatusCodes(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: bad", services.ErrValidation), http.StatusBadRequest},
		{services.ErrSelfAction, http.StatusBadRequest},
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{services.ErrNotMatched, http.StatusForbidden},
		{services.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("user %w", services.ErrNotFound), http.StatusNotFound},
		{services.ErrEmailTaken, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		respondServiceError(rec, tc.err)
		assert.Equal(t, tc.status, rec.Code, tc.err.Error())
	}
}

func TestRespondServiceErrorTooFast(t *testing.T) {
	rec := httptest.NewRecorder()
	respondServiceError(rec, fmt.Errorf("like: %w", ratelimit.TooFastError{RetryAfterSec: 4}))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "4", rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"Too many requests","retry_after":4}`, rec.Body.String())
}

func TestQueryInt(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?limit=10&offset=-1&bad=x", nil)
	assert.Equal(t, 10, queryInt(r, "limit", 0))
	assert.Equal(t, 3, queryInt(r, "offset", 3))
	assert.Equal(t, 5, queryInt(r, "bad", 5))
	assert.Equal(t, 7, queryInt(r, "missing", 7))
}

type stubAuth struct {
	registered services.RegisterRequest
	err        error
}

func (s *stubAuth) Register(_ context.Context, req services.RegisterRequest) (*services.AuthResponse, error) {
	s.registered = req
	if s.err != nil {
		return nil, s.err
	}
	return &services.AuthResponse{User: &models.User{ID: "u1", Email: req.Email}, Token: "tok"}, nil
}

func (s *stubAuth) Login(_ context.Context, email, password string) (*services.AuthResponse, error) {
	if password != "secret123" {
		return nil, services.ErrInvalidCredentials
	}
	return &services.AuthResponse{User: &models.User{ID: "u1", Email: email}, Token: "tok"}, nil
}

func TestAuthHandler(t *testing.T) {
	auth := &stubAuth{}
	h := NewAuthHandler(auth)
	r := chi.NewRouter()
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)

	rec := do(t, r, http.MethodPost, "/register", `{"email":"a@b.c","name":"A","password":"secret123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "A", auth.registered.Name)
	var resp services.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "tok", resp.Token)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = do(t, r, http.MethodPost, "/register", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	auth.err = services.ErrEmailTaken
	rec = do(t, r, http.MethodPost, "/register", `{"email":"a@b.c"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, r, http.MethodPost, "/login", `{"email":"a@b.c","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, r, http.MethodPost, "/login", `{"email":"a@b.c","password":"secret123"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

type stubProfiles struct {
	lastUser    string
	contentType string
	token       *string
}

func (s *stubProfiles) Get(_ context.Context, userID string) (*services.ProfileView, error) {
	s.lastUser = userID
	if userID == "ghost" {
		return nil, fmt.Errorf("user %w", services.ErrNotFound)
	}
	return &services.ProfileView{User: &models.User{ID: userID}, Profile: &models.Profile{UserID: userID}}, nil
}

func (s *stubProfiles) Update(_ context.Context, userID string, req services.UpdateProfileRequest) (*models.Profile, error) {
	return &models.Profile{UserID: userID, Description: req.Description}, nil
}

func (s *stubProfiles) UpdateAttributes(_ context.Context, userID string, req services.UpdateAttributesRequest) (*models.User, error) {
	if req.Age != nil && *req.Age < 18 {
		return nil, fmt.Errorf("%w: age", services.ErrValidation)
	}
	return &models.User{ID: userID, Age: req.Age}, nil
}

func (s *stubProfiles) SetPushToken(_ context.Context, _ string, token *string) error {
	s.token = token
	return nil
}

func (s *stubProfiles) RequestPhotoUpload(_ context.Context, userID, contentType string) (*services.PhotoUploadResponse, error) {
	s.contentType = contentType
	return &services.PhotoUploadResponse{UploadURL: "https://put", Key: "profiles/" + userID + "/x.jpg", ExpiresIn: 300}, nil
}

func TestProfileHandler(t *testing.T) {
	profiles := &stubProfiles{}
	h := NewProfileHandler(profiles)
	r := chi.NewRouter()
	r.Use(asUser("me"))
	r.Get("/profile", h.GetMe)
	r.Put("/profile", h.Update)
	r.Post("/profile/photo", h.UploadPhoto)
	r.Get("/users/{user_id}/profile", h.GetByUser)
	r.Put("/users/me", h.UpdateAttributes)
	r.Put("/users/me/push-token", h.SetPushToken)

	rec := do(t, r, http.MethodGet, "/profile", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "me", profiles.lastUser)

	rec = do(t, r, http.MethodGet, "/users/other/profile", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "other", profiles.lastUser)

	rec = do(t, r, http.MethodGet, "/users/ghost/profile", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, r, http.MethodPut, "/profile", `{"description":"hi"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"description":"hi"`)

	rec = do(t, r, http.MethodPut, "/users/me", `{"age":12}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodPost, "/profile/photo", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, profiles.contentType)
	assert.JSONEq(t, `{"upload_url":"https://put","key":"profiles/me/x.jpg","expires_in":300}`, rec.Body.String())

	rec = do(t, r, http.MethodPost, "/profile/photo", `{"content_type":"image/png"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", profiles.contentType)

	rec = do(t, r, http.MethodPut, "/users/me/push-token", `{"push_token":"dev"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, profiles.token)
	assert.Equal(t, "dev", *profiles.token)
}

type stubInteractions struct {
	limit, offset int
	unmatched     string
}

func (s *stubInteractions) Like(_ context.Context, userID, targetID string) (*services.LikeResult, error) {
	switch targetID {
	case userID:
		return nil, services.ErrSelfAction
	case "spam":
		return nil, ratelimit.TooFastError{RetryAfterSec: 3}
	case "mutual":
		return &services.LikeResult{Liked: true, Matched: true, Match: &models.Match{ID: "m1"}}, nil
	}
	return &services.LikeResult{Liked: true}, nil
}

func (s *stubInteractions) Unlike(context.Context, string, string) error { return nil }

func (s *stubInteractions) Candidates(_ context.Context, _ string, limit, offset int) ([]*models.User, error) {
	s.limit, s.offset = limit, offset
	return []*models.User{{ID: "c1"}}, nil
}

func (s *stubInteractions) Matches(context.Context, string) ([]*models.Match, error) {
	return []*models.Match{}, nil
}

func (s *stubInteractions) Unmatch(_ context.Context, userID, matchID string) error {
	if matchID == "foreign" {
		return services.ErrForbidden
	}
	s.unmatched = matchID
	return nil
}

func TestInteractionHandler(t *testing.T) {
	svc := &stubInteractions{}
	h := NewInteractionHandler(svc)
	r := chi.NewRouter()
	r.Use(asUser("me"))
	r.Post("/likes", h.Like)
	r.Delete("/likes/{user_id}", h.Unlike)
	r.Get("/candidates", h.Candidates)
	r.Get("/matches", h.Matches)
	r.Delete("/matches/{match_id}", h.Unmatch)

	rec := do(t, r, http.MethodPost, "/likes", `{"user_id":"mutual"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"matched":true`)

	rec = do(t, r, http.MethodPost, "/likes", `{"user_id":"me"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodPost, "/likes", `{"user_id":"spam"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = do(t, r, http.MethodDelete, "/likes/other", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, r, http.MethodGet, "/candidates?limit=5&offset=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, svc.limit)
	assert.Equal(t, 10, svc.offset)

	rec = do(t, r, http.MethodGet, "/matches", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, r, http.MethodDelete, "/matches/m1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "m1", svc.unmatched)

	rec = do(t, r, http.MethodDelete, "/matches/foreign", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

type stubMessages struct {
	before time.Time
	limit  int
	other  string
}

func (s *stubMessages) Send(_ context.Context, senderID, receiverID, text string) (*models.Message, error) {
	if receiverID == "stranger" {
		return nil, services.ErrNotMatched
	}
	return &models.Message{ID: "msg1", SenderID: senderID, ReceiverID: receiverID, Message: text}, nil
}

func (s *stubMessages) Conversation(_ context.Context, _ string, otherID string, before time.Time, limit int) ([]*models.Message, error) {
	s.other, s.before, s.limit = otherID, before, limit
	return []*models.Message{}, nil
}

func TestMessageHandler(t *testing.T) {
	svc := &stubMessages{}
	h := NewMessageHandler(svc)
	r := chi.NewRouter()
	r.Use(asUser("me"))
	r.Post("/messages", h.Send)
	r.Get("/messages/{user_id}", h.Conversation)

	rec := do(t, r, http.MethodPost, "/messages", `{"receiver_id":"bob","message":"hi"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"sender_id":"me"`)

	rec = do(t, r, http.MethodPost, "/messages", `{"receiver_id":"stranger","message":"hi"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, r, http.MethodGet, "/messages/bob?before=2026-05-01T12:00:00Z&limit=20", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bob", svc.other)
	assert.Equal(t, 20, svc.limit)
	assert.True(t, svc.before.Equal(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)))

	rec = do(t, r, http.MethodGet, "/messages/bob?before=yesterday", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type stubAdmin struct {
	blocked map[string]bool
	granted []string
	deleted []string
	err     error
}

func (s *stubAdmin) ListUsers(_ context.Context, limit, offset int) (*services.UserPage, error) {
	return &services.UserPage{Users: []*models.User{{ID: "u1"}}, Total: 1}, nil
}

func (s *stubAdmin) DeleteUser(_ context.Context, actorID, userID string) error {
	if actorID == userID {
		return services.ErrSelfAction
	}
	s.deleted = append(s.deleted, userID)
	return nil
}

func (s *stubAdmin) Grant(_ context.Context, _, userID string) error {
	s.granted = append(s.granted, userID)
	return nil
}

func (s *stubAdmin) SetBlocked(_ context.Context, actorID, userID string, blocked bool) error {
	if actorID == userID {
		return services.ErrSelfAction
	}
	s.blocked[userID] = blocked
	return nil
}

func (s *stubAdmin) Stats(context.Context) (*models.Stats, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.Stats{Users: 3, Matches: 1, Messages: 9}, nil
}

func TestAdminHandler(t *testing.T) {
	svc := &stubAdmin{blocked: map[string]bool{}}
	h := NewAdminHandler(svc)
	r := chi.NewRouter()
	r.Use(asUser("root"))
	r.Get("/users", h.ListUsers)
	r.Delete("/users/{user_id}", h.DeleteUser)
	r.Post("/admins/{user_id}", h.Grant)
	r.Post("/admins/{user_id}/block", h.Block)
	r.Post("/admins/{user_id}/unblock", h.Unblock)
	r.Get("/stats", h.Stats)

	rec := do(t, r, http.MethodGet, "/users", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":1`)

	assert.Equal(t, http.StatusNoContent, do(t, r, http.MethodDelete, "/users/u1", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodDelete, "/users/root", "").Code)
	assert.Equal(t, []string{"u1"}, svc.deleted)

	assert.Equal(t, http.StatusNoContent, do(t, r, http.MethodPost, "/admins/mod", "").Code)
	assert.Equal(t, []string{"mod"}, svc.granted)

	assert.Equal(t, http.StatusNoContent, do(t, r, http.MethodPost, "/admins/mod/block", "").Code)
	assert.True(t, svc.blocked["mod"])
	assert.Equal(t, http.StatusNoContent, do(t, r, http.MethodPost, "/admins/mod/unblock", "").Code)
	assert.False(t, svc.blocked["mod"])
	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodPost, "/admins/root/block", "").Code)

	rec = do(t, r, http.MethodGet, "/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"users":3,"matches":1,"messages":9}`, rec.Body.String())
}

func TestStatusHandler(t *testing.T) {
	at := time.Date(2026, 10, 1, 8, 30, 0, 0, time.UTC)
	svc := &stubAdmin{}
	h := NewStatusHandler(svc, onlineCount(2))
	h.now = func() time.Time { return at }

	rec := do(t, http.HandlerFunc(h.Status), http.MethodGet, "/api/endpoint", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"service":"udinder","status":"ok","time":"2026-10-01T08:30:00Z","online":2,
		"stats":{"users":3,"matches":1,"messages":9}}`, rec.Body.String())

	svc.err = errors.New("db down")
	rec = do(t, http.HandlerFunc(h.Status), http.MethodGet, "/api/endpoint", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"service":"udinder","status":"degraded","time":"2026-10-01T08:30:00Z","online":2}`, rec.Body.String())
}

type onlineCount int

func (c onlineCount) Online() int { return int(c) }

type stubCooldowns map[ratelimit.Action]int64

func (s stubCooldowns) RetryAfter(_ context.Context, action ratelimit.Action, userID string) (int64, error) {
	if userID == "" {
		return 0, errors.New("no user")
	}
	return s[action], nil
}

func TestLimitsHandler(t *testing.T) {
	h := NewLimitsHandler(stubCooldowns{ratelimit.ActionLike: 6})
	r := chi.NewRouter()
	r.Use(asUser("me"))
	r.Get("/limits", h.Get)

	rec := do(t, r, http.MethodGet, "/limits", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"like_retry_after":6,"message_retry_after":0}`, rec.Body.String())
}
