package extsort

import (
	"context"
	"sync"
)

// ProgressGate is a monotonically non-decreasing counter with wait/notify
// semantics, used to overlap index construction with sorting: a sort task
// blocks until enough of the index has been filled in to cover its range.
type ProgressGate struct {
	mu     sync.Mutex
	cond   *sync.Cond
	filled uint64
}

// NewProgressGate returns a gate initialized with filled = 0.
func NewProgressGate() *ProgressGate {
	g := &ProgressGate{}
	g.cond = sync.NewCond(&g.mu)
	return g
}

// Notify atomically sets filled = max(filled, m) and wakes all waiters.
// Notifications must be monotonic from the caller's perspective; the max
// guards against a stray out-of-order call regressing the counter.
func (g *ProgressGate) Notify(m uint64) {
	g.mu.Lock()
	if m > g.filled {
		g.filled = m
	}
	g.mu.Unlock()
	g.cond.Broadcast()
}

// WaitUntil blocks until filled >= m. Spurious wakeups are re-checked by
// the loop condition, matching the predicate form of std::condition_variable::wait.
func (g *ProgressGate) WaitUntil(m uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for g.filled < m {
		g.cond.Wait()
	}
}

// WaitUntilContext blocks until filled >= m or ctx is done, whichever comes
// first, returning ctx.Err() in the latter case. This is what a sort task
// gated on a concurrently running FillIndex must call instead of WaitUntil:
// if that scan fails partway through, it can never reach filled >= m on its
// own, and a plain WaitUntil would block forever even after the surrounding
// errgroup has cancelled ctx and every other worker has returned.
func (g *ProgressGate) WaitUntilContext(ctx context.Context, m uint64) error {
	// The AfterFunc must take g.mu before broadcasting, not just call
	// Broadcast directly: otherwise cancellation racing between the loop's
	// ctx.Err check and its call to Wait could fire and be missed entirely,
	// leaving the waiter blocked with no further notification ever coming.
	// Acquiring the same mutex first forces the broadcast to serialize with
	// the waiter's lock-held section, so it either lands before the waiter
	// reads ctx.Err (and is caught there) or after the waiter is inside
	// Wait (and wakes it).
	stop := context.AfterFunc(ctx, func() {
		g.mu.Lock()
		g.mu.Unlock()
		g.cond.Broadcast()
	})
	defer stop()

	g.mu.Lock()
	defer g.mu.Unlock()
	for g.filled < m {
		if err := ctx.Err(); err != nil {
			return err
		}
		g.cond.Wait()
	}
	return nil
}

// Filled returns the current progress value.
func (g *ProgressGate) Filled() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.filled
}
