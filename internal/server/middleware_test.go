package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallerRateLimit_PerUser(t *testing.T) {
	limited := callerRateLimit(2, time.Minute)(okHandler())

	send := func(userID, remote string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sync", nil)
		req.RemoteAddr = remote
		if userID != "" {
			req.Header.Set(HeaderUserID, userID)
		}
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("alice", "192.0.2.1:1000"))
	assert.Equal(t, http.StatusOK, send("alice", "192.0.2.2:1000"))
	assert.Equal(t, http.StatusTooManyRequests, send("alice", "192.0.2.3:1000"), "limit follows the user across IPs")
	assert.Equal(t, http.StatusOK, send("bob", "192.0.2.1:1000"))

	assert.Equal(t, http.StatusOK, send("", "198.51.100.7:1000"))
	assert.Equal(t, http.StatusOK, send("", "198.51.100.7:1001"))
	assert.Equal(t, http.StatusTooManyRequests, send("", "198.51.100.7:1002"), "anonymous callers fall back to IP")
}

func TestCallerRateLimit_Disabled(t *testing.T) {
	limited := callerRateLimit(0, time.Minute)(okHandler())

	for i := 0; i < 50; i++ {
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/sync", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestCORSMiddleware(t *testing.T) {
	h := corsMiddleware([]string{"https://app.example.com"})(okHandler())

	preflight := httptest.NewRequest(http.MethodOptions, "/api/v1/stats", nil)
	preflight.Header.Set("Origin", "https://app.example.com")
	preflight.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, preflight)

	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	other := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	other.Header.Set("Origin", "https://evil.example.net")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, other)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRedactHeaders(t *testing.T) {
	h := http.Header{}
	h.Set(HeaderAPIKey, "secret")
	h.Set(HeaderAuthorization, "Bearer x")
	h.Set(HeaderUserID, "alice")

	out := redactHeaders(h)

	assert.Equal(t, RedactedValue, out.Get(HeaderAPIKey))
	assert.Equal(t, RedactedValue, out.Get(HeaderAuthorization))
	assert.Equal(t, "alice", out.Get(HeaderUserID))
	assert.Equal(t, "secret", h.Get(HeaderAPIKey), "input is left untouched")
}
