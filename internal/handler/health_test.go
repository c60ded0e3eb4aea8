package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CodeLedger_Go/internal/database"
)

// MockDBPool mocks the database.Pool interface
type MockDBPool struct {
	mock.Mock
}

func (m *MockDBPool) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockDBPool) Close() {
	m.Called()
}

func decodeHealth(t *testing.T, w *httptest.ResponseRecorder) HealthResponse {
	t.Helper()
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandleHealthz(t *testing.T) {
	w := httptest.NewRecorder()
	HandleHealthz().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ContentTypeJSON, w.Header().Get(HeaderContentType))
	assert.Equal(t, HealthStatusOK, decodeHealth(t, w).Status)
}

func TestHandleReadyz(t *testing.T) {
	tests := []struct {
		name       string
		pingErr    error
		wantStatus int
		wantBody   HealthResponse
	}{
		{"database reachable", nil, http.StatusOK, HealthResponse{Status: HealthStatusOK, Storage: StoragePostgres}},
		{"ping failed", assert.AnError, http.StatusServiceUnavailable, HealthResponse{Status: HealthStatusUnavailable, Storage: StoragePostgres, Message: HealthMsgDatabaseDown}},
		{"ping timed out", context.DeadlineExceeded, http.StatusServiceUnavailable, HealthResponse{Status: HealthStatusUnavailable, Storage: StoragePostgres, Message: HealthMsgDatabaseDown}},
		{"connection refused", errors.New("connection refused"), http.StatusServiceUnavailable, HealthResponse{Status: HealthStatusUnavailable, Storage: StoragePostgres, Message: HealthMsgDatabaseDown}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB := &MockDBPool{}
			mockDB.On("Ping", mock.Anything).Return(tt.pingErr)

			w := httptest.NewRecorder()
			HandleReadyz(mockDB).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantBody, decodeHealth(t, w))
			mockDB.AssertExpectations(t)
		})
	}
}

func TestHandleReadyz_PingIsBounded(t *testing.T) {
	mockDB := &MockDBPool{}
	mockDB.On("Ping", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	})).Return(nil)

	w := httptest.NewRecorder()
	HandleReadyz(mockDB).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	mockDB.AssertExpectations(t)
}

func TestHandleReadyz_MemoryBackend(t *testing.T) {
	var pool database.Pool
	w := httptest.NewRecorder()
	HandleReadyz(pool).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, HealthResponse{Status: HealthStatusOK, Storage: StorageMemory}, decodeHealth(t, w))
}
