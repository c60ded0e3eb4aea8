package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/CodeLedger_Go/internal/logger"
	"github.com/osse101/CodeLedger_Go/internal/worker"
)

// Log messages
const (
	LogMsgJobScheduled = "Job scheduled"
	LogMsgTickDropped  = "Scheduler tick dropped, previous run still queued"
)

// Enqueuer is the part of worker.Pool the scheduler needs
type Enqueuer interface {
	TryEnqueue(job worker.Job) bool
}

// Scheduler manages scheduled jobs
type Scheduler struct {
	workerPool Enqueuer
	quit       chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
}

// New creates a new scheduler
func New(pool Enqueuer) *Scheduler {
	return &Scheduler{
		workerPool: pool,
		quit:       make(chan struct{}),
	}
}

// Schedule registers a job to run at a fixed interval. Ticks are handed to the pool without
// blocking, so a job that is still queued when the next tick fires is not stacked.
func (s *Scheduler) Schedule(interval time.Duration, job worker.Job) {
	logger.FromContext(context.Background()).Info(LogMsgJobScheduled, "interval", interval.String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.Trigger(job)
			case <-s.quit:
				return
			}
		}
	}()
}

// Trigger hands job to the pool once, outside the interval
func (s *Scheduler) Trigger(job worker.Job) bool {
	if !s.workerPool.TryEnqueue(job) {
		logger.FromContext(context.Background()).Warn(LogMsgTickDropped)
		return false
	}
	return true
}

// Stop stops all scheduled jobs and waits for the tickers to exit
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.quit) })
	s.wg.Wait()
}
