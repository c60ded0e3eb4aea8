package handler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CodeLedger_Go/internal/domain"
	"github.com/osse101/CodeLedger_Go/internal/syncer"
	"github.com/osse101/CodeLedger_Go/internal/verification"
	"github.com/osse101/CodeLedger_Go/internal/worker"
)

// ============================================================================
// MOCKS
// ============================================================================

type MockVerificationService struct {
	mock.Mock
}

func (m *MockVerificationService) Initiate(ctx context.Context, userID string, p domain.Platform, handle string) (*verification.Challenge, error) {
	args := m.Called(ctx, userID, p, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*verification.Challenge), args.Error(1)
}

func (m *MockVerificationService) Confirm(ctx context.Context, userID string, p domain.Platform, handle string) (*verification.ConnectionResult, error) {
	args := m.Called(ctx, userID, p, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*verification.ConnectionResult), args.Error(1)
}

func (m *MockVerificationService) Cancel(ctx context.Context, userID string, p domain.Platform) error {
	args := m.Called(ctx, userID, p)
	return args.Error(0)
}

func (m *MockVerificationService) Disconnect(ctx context.Context, userID string, p domain.Platform) error {
	args := m.Called(ctx, userID, p)
	return args.Error(0)
}

func (m *MockVerificationService) Status(ctx context.Context, userID string) ([]verification.LinkStatus, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]verification.LinkStatus), args.Error(1)
}

type MockSyncService struct {
	mock.Mock
}

func (m *MockSyncService) SyncOne(ctx context.Context, userID string, p domain.Platform) (*domain.NormalizedStats, error) {
	args := m.Called(ctx, userID, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NormalizedStats), args.Error(1)
}

func (m *MockSyncService) SyncAllForUser(ctx context.Context, userID string) (*domain.SyncOutcome, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SyncOutcome), args.Error(1)
}

func (m *MockSyncService) Sweep(ctx context.Context) (*domain.SweepSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SweepSummary), args.Error(1)
}

func (m *MockSyncService) CachedStats(ctx context.Context, userID string) (*syncer.CachedView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*syncer.CachedView), args.Error(1)
}

type MockTrigger struct {
	mock.Mock
}

func (m *MockTrigger) Trigger(job worker.Job) bool {
	return m.Called(job).Bool(0)
}

// ============================================================================
// HELPERS
// ============================================================================

const testUserID = "6f1c2a4e-8d7b-4c3a-9e5f-1a2b3c4d5e6f"

type handlerFixture struct {
	verify *MockVerificationService
	sync   *MockSyncService
	router chi.Router
}

func newHandlerFixture() *handlerFixture {
	f := &handlerFixture{verify: new(MockVerificationService), sync: new(MockSyncService)}
	h := NewPlatformHandlers(f.verify, f.sync)

	r := chi.NewRouter()
	r.Get("/platforms", h.HandleListPlatforms())
	r.Get("/platforms/links", h.HandleListLinks())
	r.Post("/platforms/{platform}/verification", h.HandleInitiate())
	r.Post("/platforms/{platform}/verification/confirm", h.HandleConfirm())
	r.Delete("/platforms/{platform}/verification", h.HandleCancel())
	r.Delete("/platforms/{platform}", h.HandleDisconnect())
	r.Post("/platforms/{platform}/sync", h.HandleSyncOne())
	r.Post("/sync", h.HandleSyncAll())
	r.Get("/stats", h.HandleGetStats())
	f.router = r
	return f
}

func (f *handlerFixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set(HeaderUserID, testUserID)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst))
}

// ============================================================================
// TESTS
// ============================================================================

func TestHandleListPlatforms(t *testing.T) {
	f := newHandlerFixture()

	w := f.do(http.MethodGet, "/platforms", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var infos []PlatformInfo
	decodeBody(t, w, &infos)
	require.Len(t, infos, 4)
	assert.Equal(t, domain.PlatformLeetCode, infos[0].Platform)
	assert.NotEmpty(t, infos[0].DisplayName)
}

func TestRequireUserID(t *testing.T) {
	f := newHandlerFixture()

	for _, header := range []string{"", "alice", "1234"} {
		req := httptest.NewRequest(http.MethodGet, "/platforms/links", nil)
		if header != "" {
			req.Header.Set(HeaderUserID, header)
		}
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
		assert.Contains(t, w.Body.String(), ErrMsgMissingUserID)
	}
	f.verify.AssertNotCalled(t, "Status", mock.Anything, mock.Anything)
}

func TestHandleInitiate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newHandlerFixture()
		challenge := &verification.Challenge{
			Platform:         domain.PlatformCodeforces,
			Handle:           "alice_cf",
			VerificationCode: "AB12CD34EF",
			ExpiresInMinutes: 15,
			Instructions:     "Paste the code",
		}
		f.verify.On("Initiate", mock.Anything, testUserID, domain.PlatformCodeforces, "alice_cf").Return(challenge, nil)

		w := f.do(http.MethodPost, "/platforms/Codeforces/verification", `{"handle":"alice_cf"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		var got verification.Challenge
		decodeBody(t, w, &got)
		assert.Equal(t, "AB12CD34EF", got.VerificationCode)
		assert.Equal(t, 15, got.ExpiresInMinutes)
		f.verify.AssertExpectations(t)
	})

	t.Run("unsupported platform", func(t *testing.T) {
		f := newHandlerFixture()

		w := f.do(http.MethodPost, "/platforms/hackerrank/verification", `{"handle":"alice"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var got ErrorResponse
		decodeBody(t, w, &got)
		assert.Equal(t, domain.KindInvalidPlatform, got.Kind)
	})

	t.Run("invalid json", func(t *testing.T) {
		f := newHandlerFixture()

		w := f.do(http.MethodPost, "/platforms/github/verification", `not json`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), ErrMsgInvalidRequest)
	})

	t.Run("validation failure", func(t *testing.T) {
		f := newHandlerFixture()

		w := f.do(http.MethodPost, "/platforms/github/verification", `{"handle":"bad handle"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var got ValidationErrorResponse
		decodeBody(t, w, &got)
		assert.Equal(t, ErrMsgFieldHandle, got.Fields["handle"])
	})

	t.Run("already connected", func(t *testing.T) {
		f := newHandlerFixture()
		f.verify.On("Initiate", mock.Anything, testUserID, domain.PlatformGitHub, "octocat").
			Return(nil, fmt.Errorf("%w: github", domain.ErrAlreadyConnected))

		w := f.do(http.MethodPost, "/platforms/github/verification", `{"handle":"octocat"}`)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.NotContains(t, w.Body.String(), "github", "internal error text is not leaked")
	})
}

func TestHandleConfirm_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		kind   domain.ErrorKind
	}{
		{"expired", domain.ErrChallengeExpired, http.StatusGone, domain.KindChallengeExpired},
		{"mismatch", domain.ErrVerificationFailed, http.StatusUnprocessableEntity, domain.KindVerificationFailed},
		{"unknown handle", domain.ErrHandleNotFound, http.StatusNotFound, domain.KindHandleNotFound},
		{"rate limited", domain.ErrRateLimited, http.StatusTooManyRequests, domain.KindRateLimited},
		{"throttled locally", domain.ErrThrottled, http.StatusTooManyRequests, domain.KindThrottled},
		{"down", context.DeadlineExceeded, http.StatusServiceUnavailable, domain.KindUpstreamUnavailable},
		{"shape", domain.ErrUpstreamShapeChanged, http.StatusBadGateway, domain.KindUpstreamShapeChanged},
		{"store", assert.AnError, http.StatusInternalServerError, domain.KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHandlerFixture()
			f.verify.On("Confirm", mock.Anything, testUserID, domain.PlatformLeetCode, "lee").Return(nil, tt.err)

			w := f.do(http.MethodPost, "/platforms/leetcode/verification/confirm", `{"handle":"lee"}`)

			assert.Equal(t, tt.status, w.Code)
			var got ErrorResponse
			decodeBody(t, w, &got)
			assert.Equal(t, tt.kind, got.Kind)
			assert.NotContains(t, w.Body.String(), assert.AnError.Error())
		})
	}
}

func TestHandleConfirm_Success(t *testing.T) {
	f := newHandlerFixture()
	f.verify.On("Confirm", mock.Anything, testUserID, domain.PlatformLeetCode, "lee").
		Return(&verification.ConnectionResult{Platform: domain.PlatformLeetCode, Connected: true, Handle: "lee"}, nil)

	w := f.do(http.MethodPost, "/platforms/leetcode/verification/confirm", `{"handle":"lee"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"connected":true`)
}

func TestHandleCancelAndDisconnect(t *testing.T) {
	f := newHandlerFixture()
	f.verify.On("Cancel", mock.Anything, testUserID, domain.PlatformCodeChef).Return(nil)
	f.verify.On("Disconnect", mock.Anything, testUserID, domain.PlatformCodeChef).Return(nil)

	w := f.do(http.MethodDelete, "/platforms/codechef/verification", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), MsgChallengeCancelled)

	w = f.do(http.MethodDelete, "/platforms/codechef", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), MsgPlatformDisconnected)
	f.verify.AssertExpectations(t)
}

func TestHandleSyncOne(t *testing.T) {
	t.Run("success keyed by platform", func(t *testing.T) {
		f := newHandlerFixture()
		stats := &domain.NormalizedStats{Platform: domain.PlatformCodeforces, TotalSolved: 12, RatingCurrent: domain.IntPtr(1600)}
		f.sync.On("SyncOne", mock.Anything, testUserID, domain.PlatformCodeforces).Return(stats, nil)

		w := f.do(http.MethodPost, "/platforms/codeforces/sync", "")

		assert.Equal(t, http.StatusOK, w.Code)
		var got map[string]map[string]any
		decodeBody(t, w, &got)
		assert.EqualValues(t, 12, got["codeforces"]["total_solved"])
		assert.EqualValues(t, 1600, got["codeforces"]["rating_current"])
		assert.EqualValues(t, 1600, got["codeforces"]["rating"], "rating mirrors rating_current")
	})

	t.Run("not connected", func(t *testing.T) {
		f := newHandlerFixture()
		f.sync.On("SyncOne", mock.Anything, testUserID, domain.PlatformGitHub).Return(nil, domain.ErrNotConnected)

		w := f.do(http.MethodPost, "/platforms/github/sync", "")

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestHandleSyncAll_PartialFailure(t *testing.T) {
	f := newHandlerFixture()
	outcome := domain.NewSyncOutcome(testUserID, time.Now())
	outcome.Results[domain.PlatformLeetCode] = domain.PlatformResult{Stats: &domain.NormalizedStats{TotalSolved: 300, RatingCurrent: domain.IntPtr(1850)}}
	outcome.Results[domain.PlatformCodeChef] = domain.PlatformResult{Err: fmt.Errorf("codechef: %w", domain.ErrUpstreamUnavailable)}
	f.sync.On("SyncAllForUser", mock.Anything, testUserID).Return(outcome, nil)

	w := f.do(http.MethodPost, "/sync", "")

	assert.Equal(t, http.StatusOK, w.Code, "platform failures do not fail the request")
	var got struct {
		Demo      bool                       `json:"demo"`
		Platforms map[string]json.RawMessage `json:"platforms"`
	}
	decodeBody(t, w, &got)
	assert.False(t, got.Demo)
	assert.Contains(t, string(got.Platforms["leetcode"]), `"total_solved":300`)
	assert.Contains(t, string(got.Platforms["leetcode"]), `"rating":1850`)

	var failed PlatformError
	require.NoError(t, json.Unmarshal(got.Platforms["codechef"], &failed))
	assert.Equal(t, domain.KindUpstreamUnavailable, failed.Error)
}

func TestHandleSyncAll_StoreFailure(t *testing.T) {
	f := newHandlerFixture()
	f.sync.On("SyncAllForUser", mock.Anything, testUserID).Return(nil, assert.AnError)

	w := f.do(http.MethodPost, "/sync", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), ErrMsgGenericServerError)
}

func TestHandleGetStats(t *testing.T) {
	f := newHandlerFixture()
	view := &syncer.CachedView{
		UserID: testUserID,
		Demo:   true,
		Stats: map[domain.Platform]*domain.NormalizedStats{
			domain.PlatformDemo:   {TotalSolved: 5},
			domain.PlatformGitHub: nil,
		},
	}
	f.sync.On("CachedStats", mock.Anything, testUserID).Return(view, nil)

	w := f.do(http.MethodGet, "/stats", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var got StatsResponse
	decodeBody(t, w, &got)
	assert.True(t, got.Demo)
	require.NotNil(t, got.Stats[domain.PlatformDemo])
	assert.Equal(t, 5, got.Stats[domain.PlatformDemo].TotalSolved)
	assert.Nil(t, got.Stats[domain.PlatformDemo].Rating, "unrated platforms carry a null rating")
	assert.Contains(t, got.Stats, domain.PlatformGitHub)
	assert.Nil(t, got.Stats[domain.PlatformGitHub])
}

func TestHandleTriggerSweep(t *testing.T) {
	trigger := new(MockTrigger)
	job := &syncer.SweepJob{}
	h := NewAdminHandlers(trigger, job)

	trigger.On("Trigger", job).Return(true).Once()
	w := httptest.NewRecorder()
	h.HandleTriggerSweep().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/sweep", nil))
	assert.Equal(t, http.StatusAccepted, w.Code)

	trigger.On("Trigger", job).Return(false).Once()
	w = httptest.NewRecorder()
	h.HandleTriggerSweep().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/sweep", nil))
	assert.Equal(t, http.StatusConflict, w.Code)
	trigger.AssertExpectations(t)
}
