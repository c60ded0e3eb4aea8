package worker

// ============================================================================
// Pool Defaults
// ============================================================================

// DefaultWorkerCount is used when NewPool is given a non-positive worker count
const DefaultWorkerCount = 2

// ============================================================================
// Log Messages - Worker Pool
// ============================================================================

// Log messages for worker pool operations
const (
	LogMsgWorkerJobFailed    = "Worker job failed"
	LogMsgWorkerJobPanicked  = "Worker job panicked"
	LogMsgWorkerJobCompleted = "Worker job completed"
)

// ============================================================================
// Test Configuration
// ============================================================================

// Test pool configuration values used in pool_test.go
const (
	TestWorkerCount           = 2
	TestQueueSize             = 10
	TestExpectedJobCount      = 2
	TestWorkerProcessWaitTime = 100 // milliseconds
)
