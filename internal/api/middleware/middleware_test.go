package middleware

import (
	"compress/gzip"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/hospitaladmin/internal/domain/entities"
)

type stubAuthenticator struct {
	sessions map[string]SessionInfo
}

func (s stubAuthenticator) Authenticate(ctx context.Context, token string) (string, entities.AuthState, error) {
	info, ok := s.sessions[token]
	if !ok {
		return "", entities.AuthState{}, errors.New("unknown token")
	}
	return info.ID, info.State, nil
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("ok"))
}

func TestCORSMiddleware(t *testing.T) {
	handler := CORSMiddleware([]string{"http://admin.test"})(http.HandlerFunc(okHandler))

	req := httptest.NewRequest(http.MethodGet, "/api/doctors", nil)
	req.Header.Set("Origin", "http://admin.test")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, "http://admin.test", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/doctors", nil)
	req.Header.Set("Origin", "http://evil.test")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/doctors", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestSessionMiddleware_RequireRoles(t *testing.T) {
	auth := stubAuthenticator{sessions: map[string]SessionInfo{
		"admin-token": {ID: "s-admin", State: entities.AuthState{IsAuthenticated: true, IsAdmin: true}},
		"user-token":  {ID: "s-user", State: entities.AuthState{IsAuthenticated: true}},
		"stale-token": {ID: "s-stale"},
	}}

	var seen SessionInfo
	record := func(w http.ResponseWriter, r *http.Request) {
		seen = SessionFromContext(r.Context())
		okHandler(w, r)
	}

	tests := []struct {
		name      string
		token     string
		admin     bool
		wantCode  int
		wantOwner string
	}{
		{name: "anonymous", wantCode: http.StatusUnauthorized},
		{name: "garbage token", token: "nope", wantCode: http.StatusUnauthorized},
		{name: "logged out session", token: "stale-token", wantCode: http.StatusUnauthorized},
		{name: "user", token: "user-token", wantCode: http.StatusOK, wantOwner: "s-user"},
		{name: "user on admin route", token: "user-token", admin: true, wantCode: http.StatusForbidden},
		{name: "admin on admin route", token: "admin-token", admin: true, wantCode: http.StatusOK, wantOwner: "s-admin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = SessionInfo{}
			inner := RequireAuth(record)
			if tt.admin {
				inner = RequireAdmin(record)
			}
			handler := SessionMiddleware(auth)(inner)

			req := httptest.NewRequest(http.MethodGet, "/api/doctors", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantOwner, seen.ID)
		})
	}
}

func TestSessionToken_Sources(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/stream/bookings?token=from-query", nil)
	assert.Equal(t, "from-query", SessionToken(req))

	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "from-cookie"})
	assert.Equal(t, "from-cookie", SessionToken(req))

	req.Header.Set("Authorization", "Bearer from-header")
	assert.Equal(t, "from-header", SessionToken(req))
}

func TestIPRateLimiter(t *testing.T) {
	now := time.Date(2024, 8, 12, 9, 0, 0, 0, time.UTC)
	limiter := NewIPRateLimiter(1, 2)
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.2"))

	now = now.Add(time.Second)
	assert.True(t, limiter.Allow("10.0.0.1"))
}

func TestIPRateLimiter_Middleware(t *testing.T) {
	limiter := NewIPRateLimiter(0.01, 1)
	handler := limiter.Middleware(okHandler)

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "10.0.0.7:5555"
		w := httptest.NewRecorder()
		handler(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send().Code)
	w := send()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.5:4000"
	assert.Equal(t, "192.168.1.5", ClientIP(req))

	req.Header.Set("X-Real-IP", "10.1.1.1")
	assert.Equal(t, "10.1.1.1", ClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", ClientIP(req))
}

func TestETag_NotModified(t *testing.T) {
	handler := ETag(http.HandlerFunc(okHandler))

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	etag := w.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req = httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil)
	req.Header.Set("If-None-Match", etag)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotModified, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestCompression(t *testing.T) {
	handler := Compression(http.HandlerFunc(okHandler))

	req := httptest.NewRequest(http.MethodGet, "/api/doctors", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	gz, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(gz)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))

	req = httptest.NewRequest(http.MethodGet, "/api/stream/bookings", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, "ok", w.Body.String())
}
