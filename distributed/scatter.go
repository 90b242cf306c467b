package distributed

import (
	"context"

	"github.com/tamirms/extsort"
)

// scatterTag is the tag used for the initial one-shot distribution of
// index entries from the root to every other rank, distinct from any
// pairwise-merge round's tag.
const scatterTag = 650

// ScatterFromRoot builds every rank's slice of the index from a fully
// built index on the root (rank 0) and sends each one exactly once, then
// returns rank 0's own slice. It never sends a size message: every rank
// already knows exactly how many entries it will receive from
// CountForRank, so the transport's Recv can pre-post the right buffer.
func ScatterFromRoot(ctx context.Context, tr Transport, full []extsort.IndexEntry, worldSize int) ([]extsort.IndexEntry, error) {
	total := uint64(len(full))
	var rootSlice []extsort.IndexEntry
	for r := 0; r < worldSize; r++ {
		start := StartForRank(r, total, worldSize)
		end := EndForRank(r, total, worldSize)
		slice := full[start:end]
		if r == 0 {
			rootSlice = slice
			continue
		}
		if err := tr.Send(ctx, r, scatterTag, slice); err != nil {
			return nil, err
		}
	}
	return rootSlice, nil
}

// ReceiveScatter is the non-root counterpart to ScatterFromRoot: it
// pre-computes its own expected slice size from CountForRank and blocks
// for that many entries from the root.
func ReceiveScatter(ctx context.Context, tr Transport, rank, worldSize int, total uint64) ([]extsort.IndexEntry, error) {
	want := CountForRank(rank, total, worldSize)
	if want == 0 {
		return nil, nil
	}
	return tr.Recv(ctx, 0, scatterTag, want)
}
