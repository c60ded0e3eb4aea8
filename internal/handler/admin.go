package handler

import (
	"net/http"

	"github.com/osse101/CodeLedger_Go/internal/worker"
)

// JobTrigger hands a job to the background pool without blocking
type JobTrigger interface {
	Trigger(job worker.Job) bool
}

// AdminHandlers serves operator endpoints
type AdminHandlers struct {
	trigger JobTrigger
	sweep   worker.Job
}

// NewAdminHandlers creates admin handlers that start sweep on demand
func NewAdminHandlers(trigger JobTrigger, sweep worker.Job) *AdminHandlers {
	return &AdminHandlers{trigger: trigger, sweep: sweep}
}

// HandleTriggerSweep queues a sweep in the background
// @Summary Trigger a sweep
// @Tags admin
// @Produce json
// @Success 202 {object} SuccessResponse
// @Failure 409 {object} SuccessResponse
// @Router /api/v1/admin/sweep [post]
func (h *AdminHandlers) HandleTriggerSweep() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.trigger.Trigger(h.sweep) {
			respondJSON(w, http.StatusConflict, SuccessResponse{Message: MsgSweepSkipped})
			return
		}
		respondJSON(w, http.StatusAccepted, SuccessResponse{Message: MsgSweepQueued})
	}
}
