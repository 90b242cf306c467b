package distributed

import (
	"context"
	"fmt"

	"github.com/tamirms/extsort"
)

// mergeRoundTagBase offsets the tag used for round r's exchange so it can't
// collide with the initial scatter's tag or with other rounds running
// concurrently on the same transport.
const mergeRoundTagBase = 700

// PairwiseMergeTree runs log2(worldSize) rounds of pairwise exchange and
// merge over local, which must already be sorted by key. In round r, rank
// XORs its bit r to find its partner; the lower-numbered rank of the pair
// (by the usual "am I a multiple of 2^(r+1)" test) receives the partner's
// entire subtree and merges it in, while the higher-numbered rank sends its
// data once and drops out of all later rounds. After the last round, rank 0
// holds every entry in sorted order and every other rank holds nothing.
//
// This is a direct translation of a message-passing pairwise merge tree:
// no rank ever sends a size message, because partnerSubtreeSize computes
// exactly how many entries the receiver should expect.
func PairwiseMergeTree(ctx context.Context, tr Transport, local []extsort.IndexEntry, rank, worldSize int, total uint64) ([]extsort.IndexEntry, error) {
	for round := 0; (1 << round) < worldSize; round++ {
		partner := rank ^ (1 << round)
		if partner >= worldSize {
			continue
		}

		iReceive := (rank&((1<<(round+1))-1)) == 0 && rank < partner

		if iReceive {
			expected := partnerSubtreeSize(partner, round, total, worldSize)
			if expected == 0 {
				continue
			}
			partnerBuf, err := tr.Recv(ctx, partner, mergeRoundTagBase+round, expected)
			if err != nil {
				return nil, fmt.Errorf("round %d: %w", round, err)
			}
			switch {
			case len(local) == 0:
				local = partnerBuf
			default:
				concat := make([]extsort.IndexEntry, len(local)+len(partnerBuf))
				copy(concat, local)
				copy(concat[len(local):], partnerBuf)
				mergeSortedHalves(concat, len(local))
				local = concat
			}
		} else {
			if len(local) > 0 {
				if err := tr.Send(ctx, partner, mergeRoundTagBase+round, local); err != nil {
					return nil, fmt.Errorf("round %d: %w", round, err)
				}
			}
			local = nil
			break
		}
	}
	return local, nil
}

// mergeSortedHalves merges concat[0:mid] and concat[mid:] in place, both
// already sorted by Key. It always copies the left half into a scratch
// buffer, whichever half is smaller, and merges forward from the front.
func mergeSortedHalves(concat []extsort.IndexEntry, mid int) {
	left := append([]extsort.IndexEntry(nil), concat[:mid]...)
	i, j, k := 0, mid, 0
	for i < len(left) && j < len(concat) {
		if left[i].Key <= concat[j].Key {
			concat[k] = left[i]
			i++
		} else {
			concat[k] = concat[j]
			j++
		}
		k++
	}
	for i < len(left) {
		concat[k] = left[i]
		i++
		k++
	}
}
