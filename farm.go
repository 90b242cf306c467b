package extsort

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// farmTaskKind distinguishes the two node kinds in a task-graph farm's
// binary merge-sort tree.
type farmTaskKind uint8

const (
	farmSort farmTaskKind = iota
	farmMerge
)

// noParent marks the root task, which has nothing to report completion to.
const noParent = -1

// farmTask is one node in the task-graph arena: a leaf sorts idx[left:right+1],
// an internal node merges its two already-sorted children's ranges. parent
// is an index back into the same arena rather than a pointer, so the whole
// tree lives in one owned slice with no per-node allocation.
type farmTask struct {
	kind             farmTaskKind
	left, mid, right int
	parent           int
}

// TaskGraphFarm is a pre-built binary task tree for merge-sorting an index,
// the arena-of-handles counterpart to a recursive task-based mergesort:
// every task is materialized upfront rather than being forked on the fly,
// and a worker pool drains a work queue instead of recursing.
type TaskGraphFarm struct {
	tasks     []farmTask
	remaining []int32 // atomic join counters, one per task; only merge nodes use theirs
}

// buildTaskGraph constructs the full binary tree over idx[0:n],
// splitting ranges larger than cutoff into a merge node with
// two children and leaving ranges at or below cutoff as sort leaves.
// Returns the farm with task 0 always the root.
func buildTaskGraph(n int, cutoff int) *TaskGraphFarm {
	f := &TaskGraphFarm{}
	if n == 0 {
		return f
	}
	f.build(0, n-1, noParent, cutoff)
	f.remaining = make([]int32, len(f.tasks))
	for i, t := range f.tasks {
		if t.kind == farmMerge {
			f.remaining[i] = 2
		}
	}
	return f
}

func (f *TaskGraphFarm) build(l, r, parent, cutoff int) int {
	if r-l+1 <= cutoff {
		f.tasks = append(f.tasks, farmTask{kind: farmSort, left: l, right: r, parent: parent})
		return len(f.tasks) - 1
	}
	mid := l + (r-l)/2
	handle := len(f.tasks)
	f.tasks = append(f.tasks, farmTask{kind: farmMerge, left: l, mid: mid, right: r, parent: parent})
	f.build(l, mid, handle, cutoff)
	f.build(mid+1, r, handle, cutoff)
	return handle
}

// RunTaskGraphFarm sorts n records read from in into an index, using a
// worker pool of goroutines that drains a pre-built task-graph work queue
// while a dedicated goroutine builds the index progressively and reports
// its progress through a ProgressGate. Sort leaves gate on the portion of
// the index they need; merges never need to gate, since both of their
// children have already completed by the time they run. This overlaps
// index construction with the first layer of sorting instead of running
// the two phases back to back.
//
// workers <= 0 selects runtime.NumCPU(). cutoff <= 0 selects the same
// default leaf threshold NewConfig uses.
func RunTaskGraphFarm(ctx context.Context, in *InputFile, n uint64, cutoff int, workers int) ([]IndexEntry, error) {
	idx := make([]IndexEntry, n)
	if n == 0 {
		return idx, nil
	}
	if cutoff <= 0 {
		cutoff = defaultCutoff
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	farm := buildTaskGraph(int(n), cutoff)
	gate := NewProgressGate()

	workChan := make(chan int, len(farm.tasks))
	for i, t := range farm.tasks {
		if t.kind == farmSort {
			workChan <- i
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	ctx2, cancel := context.WithCancel(gctx)
	defer cancel()

	g.Go(func() error {
		return FillIndex(ctx2, in, idx, WithGate(gate, uint64(cutoff)))
	})

	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for {
				select {
				case <-ctx2.Done():
					return nil
				case handle, ok := <-workChan:
					if !ok {
						return nil
					}
					t := farm.tasks[handle]
					switch t.kind {
					case farmSort:
						if err := gate.WaitUntilContext(ctx2, uint64(t.right+1)); err != nil {
							return err
						}
						sortRange(idx, t.left, t.right)
					case farmMerge:
						mergeAdjacent(idx, t.left, t.mid, t.right)
					}

					if t.parent == noParent {
						cancel()
						return nil
					}
					if atomic.AddInt32(&farm.remaining[t.parent], -1) == 0 {
						workChan <- t.parent
					}
				}
			}
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return idx, nil
}
