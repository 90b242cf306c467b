package extsort

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// TaskMergeSort sorts idx[0:len(idx)] ascending by Key using a recursive
// divide-and-conquer mergesort, translated from a task-based OpenMP
// mergesort (recursive omp task / taskwait) into goroutines: each call
// below cutoff records sorts directly, otherwise it forks two recursive
// subtasks and merges their results once both return.
//
// Parallelism is bounded by maxGoroutines, a counting semaphore shared
// across the whole call tree so that a wide, shallow index doesn't spawn
// one goroutine per leaf. When maxGoroutines <= 1 the sort runs entirely on
// the calling goroutine. Each split spawns at most one of its two halves;
// the other runs inline on the caller, mirroring the omp task / fallthrough
// shape the original recursion used.
//
// If gate is non-nil, TaskMergeSort blocks each leaf until the index range
// it needs has been filled in by a concurrently running FillIndex on the
// same idx slice, then
// sorts it — the recursive counterpart to the leaf-only gating a task-graph
// farm uses to overlap index construction with sorting.
func TaskMergeSort(ctx context.Context, idx []IndexEntry, cutoff int, maxGoroutines int, gate *ProgressGate) error {
	if len(idx) == 0 {
		return nil
	}
	if cutoff <= 0 {
		cutoff = defaultCutoff
	}
	if maxGoroutines <= 0 {
		maxGoroutines = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	// The calling goroutine counts toward maxGoroutines, so the semaphore
	// admits maxGoroutines-1 spawned goroutines (none when it is 1).
	sem := make(chan struct{}, maxGoroutines-1)

	var recur func(l, r int) error
	recur = func(l, r int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r-l+1 <= cutoff {
			if gate != nil {
				if err := gate.WaitUntilContext(ctx, uint64(r+1)); err != nil {
					return err
				}
			}
			sortRange(idx, l, r)
			return nil
		}

		mid := l + (r-l)/2

		var g errgroup.Group
		spawned := false
		select {
		case sem <- struct{}{}:
			spawned = true
			g.Go(func() error {
				defer func() { <-sem }()
				return recur(l, mid)
			})
		default:
			if err := recur(l, mid); err != nil {
				cancel()
				return err
			}
		}

		if err := recur(mid+1, r); err != nil {
			cancel()
			if spawned {
				g.Wait()
			}
			return err
		}

		if spawned {
			if err := g.Wait(); err != nil {
				cancel()
				return err
			}
		}

		mergeAdjacent(idx, l, mid, r)
		return nil
	}

	return recur(0, len(idx)-1)
}
