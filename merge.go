package extsort

import "slices"

// sortRange sorts idx[l:r+1] ascending by Key in place. Not stable across
// equal keys.
func sortRange(idx []IndexEntry, l, r int) {
	slices.SortFunc(idx[l:r+1], func(a, b IndexEntry) int {
		switch {
		case a.Key < b.Key:
			return -1
		case a.Key > b.Key:
			return 1
		default:
			return 0
		}
	})
}

// mergeAdjacent merges the two adjacent sorted runs idx[l:mid+1] and
// idx[mid+1:r+1] into a single sorted run occupying idx[l:r+1]. Unlike a
// classic in-place merge this allocates a scratch buffer sized to the
// smaller run rather than working in guaranteed logarithmic extra space —
// a deliberate simplicity/speed tradeoff that dropping the stability
// requirement makes safe.
func mergeAdjacent(idx []IndexEntry, l, mid, r int) {
	leftLen := mid - l + 1
	rightLen := r - mid

	if leftLen <= rightLen {
		left := append([]IndexEntry(nil), idx[l:mid+1]...)
		i, j, k := 0, mid+1, l
		for i < len(left) && j <= r {
			if left[i].Key <= idx[j].Key {
				idx[k] = left[i]
				i++
			} else {
				idx[k] = idx[j]
				j++
			}
			k++
		}
		for i < len(left) {
			idx[k] = left[i]
			i++
			k++
		}
		// Remaining idx[j:r+1] is already in place.
	} else {
		right := append([]IndexEntry(nil), idx[mid+1:r+1]...)
		i, j, k := mid, len(right)-1, r
		for i >= l && j >= 0 {
			if idx[i].Key > right[j].Key {
				idx[k] = idx[i]
				i--
			} else {
				idx[k] = right[j]
				j--
			}
			k--
		}
		for j >= 0 {
			idx[k] = right[j]
			j--
			k--
		}
		// Remaining idx[l:i+1] is already in place.
	}
}

// isSorted reports whether idx is non-decreasing by Key, used by tests and
// by Verify.
func isSorted(idx []IndexEntry) (ok bool, firstBadIndex int) {
	for i := 1; i < len(idx); i++ {
		if idx[i].Key < idx[i-1].Key {
			return false, i
		}
	}
	return true, -1
}
