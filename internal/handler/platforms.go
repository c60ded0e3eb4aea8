package handler

import (
	"net/http"
	"time"

	"github.com/osse101/CodeLedger_Go/internal/domain"
	"github.com/osse101/CodeLedger_Go/internal/syncer"
	"github.com/osse101/CodeLedger_Go/internal/verification"
)

// PlatformHandlers serves verification and sync endpoints for the calling user
type PlatformHandlers struct {
	verify verification.Service
	sync   syncer.Service
}

// NewPlatformHandlers creates new platform handlers
func NewPlatformHandlers(verify verification.Service, sync syncer.Service) *PlatformHandlers {
	return &PlatformHandlers{verify: verify, sync: sync}
}

// HandleRequest is the request body naming the external account
type HandleRequest struct {
	Handle string `json:"handle" validate:"required,max=64,handle"`
}

// PlatformInfo describes one supported platform
type PlatformInfo struct {
	Platform    domain.Platform `json:"platform"`
	DisplayName string          `json:"display_name"`
}

// PlatformError is the per-platform entry of a sync payload when that platform failed
type PlatformError struct {
	Error   domain.ErrorKind `json:"error"`
	Message string           `json:"message"`
}

// SyncResponse is the consolidated payload of a user sync
type SyncResponse struct {
	UserID     string                  `json:"user_id"`
	Demo       bool                    `json:"demo"`
	Platforms  map[domain.Platform]any `json:"platforms"`
	StartedAt  time.Time               `json:"started_at"`
	FinishedAt time.Time               `json:"finished_at"`
}

// StatsPayload is a stats snapshot on the wire. Rating repeats RatingCurrent under its short name.
type StatsPayload struct {
	*domain.NormalizedStats
	Rating *int `json:"rating"`
}

func newStatsPayload(stats *domain.NormalizedStats) *StatsPayload {
	if stats == nil {
		return nil
	}
	return &StatsPayload{NormalizedStats: stats, Rating: stats.RatingCurrent}
}

// StatsResponse is the cached stats view; nil entries are connected platforms not synced yet
type StatsResponse struct {
	UserID string                            `json:"user_id"`
	Demo   bool                              `json:"demo"`
	Stats  map[domain.Platform]*StatsPayload `json:"stats"`
}

// platformPayload renders one result as stats or as a typed error
func platformPayload(stats *domain.NormalizedStats, err error) any {
	if err != nil {
		_, message, kind := mapServiceError(err)
		return PlatformError{Error: kind, Message: message}
	}
	return newStatsPayload(stats)
}

// HandleListPlatforms returns the supported platforms
// @Summary List supported platforms
// @Tags platforms
// @Produce json
// @Success 200 {array} PlatformInfo
// @Router /api/v1/platforms [get]
func (h *PlatformHandlers) HandleListPlatforms() http.HandlerFunc {
	platforms := domain.SupportedPlatforms()
	infos := make([]PlatformInfo, 0, len(platforms))
	for _, p := range platforms {
		infos = append(infos, PlatformInfo{Platform: p, DisplayName: p.DisplayName()})
	}
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, infos)
	}
}

// HandleListLinks returns the link state of every platform for the caller
// @Summary Platform link status
// @Tags platforms
// @Produce json
// @Param X-User-ID header string true "Caller id"
// @Success 200 {array} verification.LinkStatus
// @Router /api/v1/platforms/links [get]
func (h *PlatformHandlers) HandleListLinks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := RequireUserID(w, r)
		if !ok {
			return
		}

		status, err := h.verify.Status(r.Context(), userID)
		if err != nil {
			respondServiceError(w, r, "list links", err)
			return
		}
		respondJSON(w, http.StatusOK, status)
	}
}

// HandleInitiate issues a verification challenge
// @Summary Start verification
// @Tags verification
// @Accept json
// @Produce json
// @Param platform path string true "Platform"
// @Param request body HandleRequest true "Handle to verify"
// @Success 201 {object} verification.Challenge
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/platforms/{platform}/verification [post]
func (h *PlatformHandlers) HandleInitiate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := RequireUserID(w, r)
		if !ok {
			return
		}
		p, ok := RequirePlatform(w, r)
		if !ok {
			return
		}

		var req HandleRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Initiate verification"); err != nil {
			return
		}

		challenge, err := h.verify.Initiate(r.Context(), userID, p, req.Handle)
		if err != nil {
			respondServiceError(w, r, "initiate verification", err)
			return
		}
		respondJSON(w, http.StatusCreated, challenge)
	}
}

// HandleConfirm checks the external profile for the issued code
// @Summary Confirm verification
// @Tags verification
// @Accept json
// @Produce json
// @Param platform path string true "Platform"
// @Param request body HandleRequest true "Handle being verified"
// @Success 200 {object} verification.ConnectionResult
// @Failure 410 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /api/v1/platforms/{platform}/verification/confirm [post]
func (h *PlatformHandlers) HandleConfirm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := RequireUserID(w, r)
		if !ok {
			return
		}
		p, ok := RequirePlatform(w, r)
		if !ok {
			return
		}

		var req HandleRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Confirm verification"); err != nil {
			return
		}

		result, err := h.verify.Confirm(r.Context(), userID, p, req.Handle)
		if err != nil {
			respondServiceError(w, r, "confirm verification", err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleCancel drops a pending challenge
// @Summary Cancel verification
// @Tags verification
// @Param platform path string true "Platform"
// @Success 200 {object} SuccessResponse
// @Router /api/v1/platforms/{platform}/verification [delete]
func (h *PlatformHandlers) HandleCancel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := RequireUserID(w, r)
		if !ok {
			return
		}
		p, ok := RequirePlatform(w, r)
		if !ok {
			return
		}

		if err := h.verify.Cancel(r.Context(), userID, p); err != nil {
			respondServiceError(w, r, "cancel verification", err)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgChallengeCancelled})
	}
}

// HandleDisconnect resets a connected platform and drops its cached stats
// @Summary Disconnect platform
// @Tags platforms
// @Param platform path string true "Platform"
// @Success 200 {object} SuccessResponse
// @Router /api/v1/platforms/{platform} [delete]
func (h *PlatformHandlers) HandleDisconnect() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := RequireUserID(w, r)
		if !ok {
			return
		}
		p, ok := RequirePlatform(w, r)
		if !ok {
			return
		}

		if err := h.verify.Disconnect(r.Context(), userID, p); err != nil {
			respondServiceError(w, r, "disconnect platform", err)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgPlatformDisconnected})
	}
}

// HandleSyncOne syncs one connected platform now
// @Summary Sync one platform
// @Tags sync
// @Produce json
// @Param platform path string true "Platform"
// @Success 200 {object} map[string]StatsPayload
// @Failure 409 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/v1/platforms/{platform}/sync [post]
func (h *PlatformHandlers) HandleSyncOne() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := RequireUserID(w, r)
		if !ok {
			return
		}
		p, ok := RequirePlatform(w, r)
		if !ok {
			return
		}

		stats, err := h.sync.SyncOne(r.Context(), userID, p)
		if err != nil {
			respondServiceError(w, r, "sync platform", err)
			return
		}
		respondJSON(w, http.StatusOK, map[domain.Platform]*StatsPayload{p: newStatsPayload(stats)})
	}
}

// HandleSyncAll syncs every connected platform; failed platforms carry an error entry
// @Summary Sync all platforms
// @Tags sync
// @Produce json
// @Success 200 {object} SyncResponse
// @Router /api/v1/sync [post]
func (h *PlatformHandlers) HandleSyncAll() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := RequireUserID(w, r)
		if !ok {
			return
		}

		outcome, err := h.sync.SyncAllForUser(r.Context(), userID)
		if err != nil {
			respondServiceError(w, r, "sync all platforms", err)
			return
		}

		resp := SyncResponse{
			UserID:     outcome.UserID,
			Demo:       outcome.Demo,
			Platforms:  make(map[domain.Platform]any, len(outcome.Results)),
			StartedAt:  outcome.StartedAt,
			FinishedAt: outcome.FinishedAt,
		}
		for p, res := range outcome.Results {
			resp.Platforms[p] = platformPayload(res.Stats, res.Err)
		}
		respondJSON(w, http.StatusOK, resp)
	}
}

// HandleGetStats serves cached stats without calling any platform
// @Summary Cached stats
// @Tags sync
// @Produce json
// @Success 200 {object} StatsResponse
// @Router /api/v1/stats [get]
func (h *PlatformHandlers) HandleGetStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := RequireUserID(w, r)
		if !ok {
			return
		}

		view, err := h.sync.CachedStats(r.Context(), userID)
		if err != nil {
			respondServiceError(w, r, "get cached stats", err)
			return
		}
		resp := StatsResponse{
			UserID: view.UserID,
			Demo:   view.Demo,
			Stats:  make(map[domain.Platform]*StatsPayload, len(view.Stats)),
		}
		for p, stats := range view.Stats {
			resp.Stats[p] = newStatsPayload(stats)
		}
		respondJSON(w, http.StatusOK, resp)
	}
}
