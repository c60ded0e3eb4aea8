package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CodeLedger_Go/internal/metrics"
)

type testJob struct {
	executed *int32
}

func (j *testJob) Process(ctx context.Context) error {
	atomic.AddInt32(j.executed, 1)
	return nil
}

func TestPool(t *testing.T) {
	var executed int32
	pool := NewPool(TestWorkerCount, TestQueueSize, time.Second)
	pool.Start()

	job := &testJob{executed: &executed}
	require.True(t, pool.TryEnqueue(job))
	require.True(t, pool.TryEnqueue(job))

	// Wait a bit for workers to process
	time.Sleep(TestWorkerProcessWaitTime * time.Millisecond)

	pool.Stop()

	if atomic.LoadInt32(&executed) != TestExpectedJobCount {
		t.Errorf("Expected %d jobs executed, got %d", TestExpectedJobCount, executed)
	}
}

type funcJob func(ctx context.Context) error

func (f funcJob) Process(ctx context.Context) error { return f(ctx) }

const (
	failingJobName   = "failing-job"
	panickingJobName = "panicking-job"
)

type namedJob struct {
	name string
	fn   funcJob
}

func (j namedJob) Name() string { return j.name }
func (j namedJob) Process(ctx context.Context) error { return j.fn(ctx) }

func TestPool_JobTimeout(t *testing.T) {
	pool := NewPool(1, 1, 20*time.Millisecond)
	pool.Start()
	defer pool.Stop()

	done := make(chan error, 1)
	require.True(t, pool.TryEnqueue(funcJob(func(ctx context.Context) error {
		<-ctx.Done()
		done <- ctx.Err()
		return ctx.Err()
	})))

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(time.Second):
		t.Fatal("job context never expired")
	}
}

func TestPool_SurvivesFailingAndPanickingJobs(t *testing.T) {
	pool := NewPool(1, 4, time.Second)
	pool.Start()
	defer pool.Stop()

	var executed int32
	failed := testutil.ToFloat64(metrics.WorkerJobsTotal.WithLabelValues(failingJobName, metrics.ResultFailed))
	panicked := testutil.ToFloat64(metrics.WorkerJobsTotal.WithLabelValues(panickingJobName, metrics.ResultPanicked))

	require.True(t, pool.TryEnqueue(namedJob{failingJobName, func(context.Context) error { return errors.New("boom") }}))
	require.True(t, pool.TryEnqueue(namedJob{panickingJobName, func(context.Context) error { panic("kaboom") }}))
	require.True(t, pool.TryEnqueue(&testJob{executed: &executed}))

	require.Eventually(t, func() bool { return atomic.LoadInt32(&executed) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, failed+1, testutil.ToFloat64(metrics.WorkerJobsTotal.WithLabelValues(failingJobName, metrics.ResultFailed)))
	assert.Equal(t, panicked+1, testutil.ToFloat64(metrics.WorkerJobsTotal.WithLabelValues(panickingJobName, metrics.ResultPanicked)))
}

func TestPool_TryEnqueueDoesNotBlock(t *testing.T) {
	pool := NewPool(1, 1, time.Second)
	release := make(chan struct{})
	started := make(chan struct{})
	pool.Start()
	defer pool.Stop()

	require.True(t, pool.TryEnqueue(funcJob(func(context.Context) error {
		close(started)
		<-release
		return nil
	})))
	<-started

	var executed int32
	assert.True(t, pool.TryEnqueue(&testJob{executed: &executed}), "one slot in the queue")
	assert.False(t, pool.TryEnqueue(&testJob{executed: &executed}), "queue full")
	close(release)
}

func TestPool_StopCancelsAndRejects(t *testing.T) {
	pool := NewPool(1, 1, 0)
	pool.Start()

	cancelled := make(chan struct{})
	started := make(chan struct{})
	require.True(t, pool.TryEnqueue(funcJob(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		close(cancelled)
		return nil
	})))
	<-started

	pool.Stop()
	<-cancelled

	var executed int32
	assert.False(t, pool.TryEnqueue(&testJob{executed: &executed}))
	pool.Stop()
}
