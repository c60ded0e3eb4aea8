package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/CodeLedger_Go/internal/logger"
	"github.com/osse101/CodeLedger_Go/internal/metrics"
)

// Job represents a task to be executed by a worker
type Job interface {
	Process(ctx context.Context) error
}

// Named is implemented by jobs that want a readable name in logs
type Named interface {
	Name() string
}

// Pool represents a worker pool
type Pool struct {
	workers    int
	jobTimeout time.Duration
	jobQueue   chan Job
	wg         sync.WaitGroup
	quit       chan struct{}
	stopOnce   sync.Once

	// baseCtx is cancelled by Stop so in-flight jobs observe shutdown
	baseCtx context.Context
	cancel  context.CancelFunc
}

// NewPool creates a new worker pool. A zero jobTimeout means jobs only end on Stop.
func NewPool(workers int, queueSize int, jobTimeout time.Duration) *Pool {
	if workers <= 0 {
		workers = DefaultWorkerCount
	}
	if queueSize < 0 {
		queueSize = 0
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		workers:    workers,
		jobTimeout: jobTimeout,
		jobQueue:   make(chan Job, queueSize),
		quit:       make(chan struct{}),
		baseCtx:    ctx,
		cancel:     cancel,
	}
}

// Start starts the workers
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// worker is the worker loop
func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobQueue:
			p.run(job)
		case <-p.quit:
			return
		}
	}
}

func (p *Pool) run(job Job) {
	ctx := p.baseCtx
	if p.jobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.jobTimeout)
		defer cancel()
	}
	ctx = logger.WithRequestID(ctx, logger.GenerateRequestID())
	log := logger.FromContext(ctx)
	name := jobName(job)

	defer func() {
		// A panicking job must not take the worker down with it
		if r := recover(); r != nil {
			metrics.WorkerJobsTotal.WithLabelValues(name, metrics.ResultPanicked).Inc()
			log.Error(LogMsgWorkerJobPanicked, "job", name, "panic", fmt.Sprint(r))
		}
	}()

	start := time.Now()
	if err := job.Process(ctx); err != nil {
		metrics.WorkerJobsTotal.WithLabelValues(name, metrics.ResultFailed).Inc()
		log.Error(LogMsgWorkerJobFailed, "job", name, "error", err, "duration", time.Since(start))
		return
	}
	metrics.WorkerJobsTotal.WithLabelValues(name, metrics.ResultCompleted).Inc()
	log.Debug(LogMsgWorkerJobCompleted, "job", name, "duration", time.Since(start))
}

// TryEnqueue adds a job without blocking and reports whether it was queued
func (p *Pool) TryEnqueue(job Job) bool {
	select {
	case <-p.quit:
		return false
	default:
	}
	select {
	case p.jobQueue <- job:
		return true
	default:
		return false
	}
}

// Stop cancels in-flight jobs and waits for the workers to finish. Queued jobs are dropped.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		close(p.quit)
		p.cancel()
	})
	p.wg.Wait()
}

func jobName(job Job) string {
	if n, ok := job.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", job)
}
