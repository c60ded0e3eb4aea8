package syncer

import (
	"context"
	"time"

	"github.com/osse101/CodeLedger_Go/internal/worker"
)

// Scheduler is the part of scheduler.Scheduler the sweep needs
type Scheduler interface {
	Schedule(interval time.Duration, job worker.Job)
}

// SweepJob runs Sweep as a worker pool job
type SweepJob struct {
	svc Service
}

// NewSweepJob wraps svc for the worker pool
func NewSweepJob(svc Service) *SweepJob {
	return &SweepJob{svc: svc}
}

// Process implements worker.Job
func (j *SweepJob) Process(ctx context.Context) error {
	_, err := j.svc.Sweep(ctx)
	return err
}

// Name implements worker.Named
func (j *SweepJob) Name() string { return SweepJobName }

// ScheduleSweep registers the periodic sweep; a non-positive interval disables it
func ScheduleSweep(s Scheduler, svc Service, interval time.Duration) bool {
	if interval <= 0 {
		return false
	}
	s.Schedule(interval, NewSweepJob(svc))
	return true
}
