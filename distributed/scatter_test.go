package distributed

import (
	"context"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/tamirms/extsort"
)

func TestScatterFromRootDistributesEveryRecordOnce(t *testing.T) {
	const worldSize = 5
	const total = 53 // deliberately not a multiple of worldSize

	full := make([]extsort.IndexEntry, total)
	for i := range full {
		full[i] = extsort.IndexEntry{Key: uint64(i), Offset: uint64(i)}
	}

	_, transports := NewChannelNetwork(worldSize)

	g, ctx := errgroup.WithContext(context.Background())
	results := make([][]extsort.IndexEntry, worldSize)

	g.Go(func() error {
		rootSlice, err := ScatterFromRoot(ctx, transports[0], full, worldSize)
		results[0] = rootSlice
		return err
	})
	for r := 1; r < worldSize; r++ {
		r := r
		g.Go(func() error {
			slice, err := ReceiveScatter(ctx, transports[r], r, worldSize, total)
			results[r] = slice
			return err
		})
	}

	if err := g.Wait(); err != nil {
		t.Fatalf("scatter: %v", err)
	}

	var gotTotal int
	seen := make(map[uint64]bool, total)
	for r := 0; r < worldSize; r++ {
		want := CountForRank(r, total, worldSize)
		if len(results[r]) != want {
			t.Fatalf("rank %d got %d entries, want %d", r, len(results[r]), want)
		}
		gotTotal += len(results[r])
		for _, e := range results[r] {
			if seen[e.Offset] {
				t.Fatalf("offset %d delivered to more than one rank", e.Offset)
			}
			seen[e.Offset] = true
		}
	}
	if gotTotal != total {
		t.Fatalf("scattered %d records total, want %d", gotTotal, total)
	}
}

func TestReceiveScatterZeroWant(t *testing.T) {
	_, transports := NewChannelNetwork(3)
	// With total=2 split across 3 ranks, rank 0's range [0,0) is empty.
	got, err := ReceiveScatter(context.Background(), transports[0], 0, 3, 2)
	if err != nil {
		t.Fatalf("ReceiveScatter: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("len(got) = %d, want 0", len(got))
	}
}
