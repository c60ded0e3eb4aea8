package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CodeLedger_Go/internal/handler"
	"github.com/osse101/CodeLedger_Go/internal/worker"
)

const testAPIKey = "test-key"

type countingTrigger struct {
	calls int
}

func (c *countingTrigger) Trigger(worker.Job) bool {
	c.calls++
	return true
}

type noopJob struct{}

func (noopJob) Process(context.Context) error { return nil }

func newTestRouter(t *testing.T) (http.Handler, *countingTrigger) {
	t.Helper()
	trigger := &countingTrigger{}
	opts := Options{APIKey: testAPIKey, ServiceName: "codeledger", Version: "test"}
	// Routes exercised here never reach the verification or sync services
	r := NewRouter(opts, nil, handler.NewPlatformHandlers(nil, nil), handler.NewAdminHandlers(trigger, noopJob{}))
	return r, trigger
}

func serve(r http.Handler, method, path string, authed bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authed {
		req.Header.Set(HeaderAPIKey, testAPIKey)
		req.Header.Set(handler.HeaderUserID, "6f1c2a4e-8d7b-4c3a-9e5f-1a2b3c4d5e6f")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRouter_PublicEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, path := range []string{"/healthz", "/readyz", "/version", "/metrics"} {
		rec := serve(r, http.MethodGet, path, false)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	rec := serve(r, http.MethodGet, "/version", false)
	assert.Contains(t, rec.Body.String(), "codeledger")
}

func TestRouter_APIRequiresKey(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := serve(r, http.MethodGet, "/api/v1/platforms", false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(r, http.MethodGet, "/api/v1/platforms", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "leetcode")
}

func TestRouter_PlatformParam(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := serve(r, http.MethodPost, "/api/v1/platforms/hackerrank/sync", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(r, http.MethodPost, "/api/v1/platforms/demo/verification", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "the demo platform is never accepted from callers")
}

func TestRouter_AdminSweep(t *testing.T) {
	r, trigger := newTestRouter(t)

	rec := serve(r, http.MethodPost, "/api/v1/admin/sweep", true)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, trigger.calls)
}

func TestRouter_SetsRequestIDAndSecurityHeaders(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := serve(r, http.MethodGet, "/api/v1/platforms", true)
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
	assert.Equal(t, HeaderValueNoSniff, rec.Header().Get(HeaderContentType))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/platforms", nil)
	req.Header.Set(HeaderAPIKey, testAPIKey)
	req.Header.Set(HeaderRequestID, "upstream-123")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "upstream-123", rec.Header().Get(HeaderRequestID))
}

func TestRouter_UnknownRoute(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := serve(r, http.MethodGet, "/api/v1/leaderboard", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
