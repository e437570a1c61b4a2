// Package monitor tracks one search run's node count and wall-clock
// budget, and drives a background garbage-collection goroutine against
// the transposition table while the search is in flight.
package monitor

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"mateengine/internal/tt"
)

// Monitor is shared between the search goroutine (which calls Tick and
// ShouldStop on every node) and any goroutine that wants to observe or
// halt the run (a UI thread, a status endpoint, a timeout).
type Monitor struct {
	nodes int64
	stop  int32
	start time.Time

	nodeLimit int64
	deadline  time.Time

	table *tt.Table
}

// New builds a Monitor watching table's fill level for its background GC
// pass.
func New(table *tt.Table) *Monitor {
	return &Monitor{table: table}
}

// Reset clears the node counter and stop flag and starts the clock, for
// the beginning of a new root search.
func (m *Monitor) Reset() {
	atomic.StoreInt64(&m.nodes, 0)
	atomic.StoreInt32(&m.stop, 0)
	m.start = time.Now()
}

// SetLimits bounds the run by node count and/or wall time; zero disables
// the corresponding limit.
func (m *Monitor) SetLimits(nodeLimit int64, timeLimit time.Duration) {
	m.nodeLimit = nodeLimit
	if timeLimit > 0 {
		m.deadline = time.Now().Add(timeLimit)
	} else {
		m.deadline = time.Time{}
	}
}

// Tick records one more node visited and returns the running total.
func (m *Monitor) Tick() int64 {
	return atomic.AddInt64(&m.nodes, 1)
}

func (m *Monitor) Nodes() int64            { return atomic.LoadInt64(&m.nodes) }
func (m *Monitor) Elapsed() time.Duration  { return time.Since(m.start) }
func (m *Monitor) Stop()                   { atomic.StoreInt32(&m.stop, 1) }

// ShouldStop reports whether the run has been asked to stop, exhausted
// its node budget, or run past its deadline.
func (m *Monitor) ShouldStop() bool {
	if atomic.LoadInt32(&m.stop) != 0 {
		return true
	}
	if m.nodeLimit > 0 && m.Nodes() >= m.nodeLimit {
		return true
	}
	if !m.deadline.IsZero() && time.Now().After(m.deadline) {
		return true
	}
	return false
}

// RunBackgroundGC starts a goroutine that checks the table's Hashfull at a
// fixed cadence for as long as ctx is alive and collects garbage whenever
// it exceeds 900 permille, stopping it via the returned cancel. Call the returned wait function after canceling to
// block until the goroutine has exited.
func (m *Monitor) RunBackgroundGC(ctx context.Context, every time.Duration, ratio float64) (cancel context.CancelFunc, wait func() error) {
	g, gctx := errgroup.WithContext(ctx)
	gctx, cancel = context.WithCancel(gctx)
	g.Go(func() error {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if m.table.Hashfull() > 900 {
					m.table.CollectGarbage(ratio)
				}
			}
		}
	})
	return cancel, g.Wait
}
