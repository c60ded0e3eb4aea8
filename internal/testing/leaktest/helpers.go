// Package leaktest detects goroutines that outlive the code under test.
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

// Polling bounds for Check
const (
	settleTimeout  = 2 * time.Second
	settleInterval = 20 * time.Millisecond
	stackBufBytes  = 1 << 16
)

// GoroutineChecker compares the goroutine count against a baseline
type GoroutineChecker struct {
	t        testing.TB
	baseline int
	timeout  time.Duration
}

// NewGoroutineChecker records the current goroutine count as the baseline
func NewGoroutineChecker(t testing.TB) *GoroutineChecker {
	t.Helper()
	runtime.Gosched()
	return &GoroutineChecker{t: t, baseline: runtime.NumGoroutine(), timeout: settleTimeout}
}

// Check waits for goroutines to wind down and fails the test when more than
// tolerance goroutines above the baseline remain. Stacks are logged on failure.
func (g *GoroutineChecker) Check(tolerance int) {
	g.t.Helper()

	deadline := time.Now().Add(g.timeout)
	for {
		current := runtime.NumGoroutine()
		if current-g.baseline <= tolerance {
			return
		}
		if time.Now().After(deadline) {
			buf := make([]byte, stackBufBytes)
			n := runtime.Stack(buf, true)
			g.t.Errorf("goroutine leak: baseline=%d current=%d tolerance=%d\n%s",
				g.baseline, current, tolerance, buf[:n])
			return
		}
		runtime.GC()
		time.Sleep(settleInterval)
	}
}

// CheckNoGoroutineLeak runs fn and requires the goroutine count to return to its baseline
func CheckNoGoroutineLeak(t *testing.T, fn func()) {
	t.Helper()
	checker := NewGoroutineChecker(t)
	fn()
	checker.Check(0)
}
