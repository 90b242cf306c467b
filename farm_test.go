package extsort

import (
	"context"
	"errors"
	"testing"
	"time"

	sorterrors "github.com/tamirms/extsort/errors"
)

func TestRunTaskGraphFarmSorts(t *testing.T) {
	keys := randomKeys(50_000, 11)
	path := writeTestInput(t, keys, constPayloadLen(8))

	in, err := OpenInput(path)
	if err != nil {
		t.Fatalf("OpenInput: %v", err)
	}
	defer in.Close()

	idx, err := RunTaskGraphFarm(context.Background(), in, uint64(len(keys)), 1000, 4)
	if err != nil {
		t.Fatalf("RunTaskGraphFarm: %v", err)
	}
	if len(idx) != len(keys) {
		t.Fatalf("len(idx) = %d, want %d", len(idx), len(keys))
	}
	if ok, bad := isSorted(idx); !ok {
		t.Fatalf("not sorted at index %d", bad)
	}

	gotKeys := make(map[uint64]int, len(keys))
	for _, e := range idx {
		gotKeys[e.Key]++
	}
	for _, k := range keys {
		if gotKeys[k] == 0 {
			t.Fatalf("key %d missing from sorted output", k)
		}
	}
}

func TestRunTaskGraphFarmZeroRecords(t *testing.T) {
	path := writeTestInput(t, nil, constPayloadLen(8))
	in, err := OpenInput(path)
	if err != nil {
		t.Fatalf("OpenInput: %v", err)
	}
	defer in.Close()

	idx, err := RunTaskGraphFarm(context.Background(), in, 0, 1000, 4)
	if err != nil {
		t.Fatalf("RunTaskGraphFarm: %v", err)
	}
	if len(idx) != 0 {
		t.Fatalf("len(idx) = %d, want 0", len(idx))
	}
}

func TestRunTaskGraphFarmSingleLeaf(t *testing.T) {
	keys := randomKeys(10, 12)
	path := writeTestInput(t, keys, constPayloadLen(8))
	in, err := OpenInput(path)
	if err != nil {
		t.Fatalf("OpenInput: %v", err)
	}
	defer in.Close()

	// cutoff bigger than n: the whole tree is a single sort leaf, no merges.
	idx, err := RunTaskGraphFarm(context.Background(), in, uint64(len(keys)), 1000, 4)
	if err != nil {
		t.Fatalf("RunTaskGraphFarm: %v", err)
	}
	if ok, bad := isSorted(idx); !ok {
		t.Fatalf("not sorted at index %d", bad)
	}
}

// TestRunTaskGraphFarmTruncatedInputReturnsError guards against a farm
// worker deadlocking on a gate that a failed index scan will never reach.
// Without a context-aware gate wait, the leaves blocked in gate.WaitUntil
// for ranges past the truncation point never wake up, and g.Wait() never
// returns even though FillIndex has already failed.
func TestRunTaskGraphFarmTruncatedInputReturnsError(t *testing.T) {
	keys := []uint64{1, 2, 3}
	path := writeTestInput(t, keys, constPayloadLen(8))

	in, err := OpenInput(path)
	if err != nil {
		t.Fatalf("OpenInput: %v", err)
	}
	defer in.Close()

	// Ask for far more records than the file actually holds, and a cutoff
	// small enough that later leaves gate on index ranges FillIndex will
	// never reach before it fails.
	done := make(chan error, 1)
	go func() {
		_, err := RunTaskGraphFarm(context.Background(), in, 1000, 1, 4)
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, sorterrors.ErrTruncatedInput) {
			t.Fatalf("err = %v, want ErrTruncatedInput", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("RunTaskGraphFarm did not return after a failed index scan (deadlocked on a gate)")
	}
}

func TestBuildTaskGraphShape(t *testing.T) {
	farm := buildTaskGraph(10, 3)
	if len(farm.tasks) == 0 {
		t.Fatal("expected a non-empty task graph")
	}
	if farm.tasks[0].parent != noParent {
		t.Fatalf("root parent = %d, want noParent", farm.tasks[0].parent)
	}

	var leaves, merges int
	for _, task := range farm.tasks {
		switch task.kind {
		case farmSort:
			leaves++
			if task.right-task.left+1 > 3 {
				t.Fatalf("leaf range [%d,%d] exceeds cutoff 3", task.left, task.right)
			}
		case farmMerge:
			merges++
		}
	}
	if leaves == 0 {
		t.Fatal("expected at least one leaf")
	}
	if merges != leaves-1 {
		t.Fatalf("merges = %d, want leaves-1 = %d", merges, leaves-1)
	}
}
