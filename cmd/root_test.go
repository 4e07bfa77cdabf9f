package cmd

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"udinder-backend/internal/handlers"
	"udinder-backend/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "migrate", "probe", "hash-password"} {
		assert.True(t, names[want], want)
	}
}

func TestRouterPublicRoutes(t *testing.T) {
	auth := services.NewAuthService(nil, "secret", 0)
	r := newRouter(routes{
		auth:       auth,
		authH:      handlers.NewAuthHandler(auth),
		websocketH: handlers.NewWebSocketHandler(services.NewHub(), auth, nil, nil),
	})

	cases := []struct {
		method, target string
		status         int
		location       string
	}{
		{http.MethodGet, "/go/admin", http.StatusFound, "admin.html"},
		{http.MethodGet, "/go/user", http.StatusFound, "user.html"},
		{http.MethodGet, "/app.js", http.StatusOK, ""},
		{http.MethodGet, "/api/v1/profile", http.StatusUnauthorized, ""},
		{http.MethodGet, "/ws", http.StatusUnauthorized, ""},
		{http.MethodOptions, "/api/v1/likes", http.StatusOK, ""},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.target, nil))
		assert.Equal(t, tc.status, rec.Code, tc.target)
		if tc.location != "" {
			assert.Equal(t, tc.location, rec.Header().Get("Location"))
		}
	}
}
