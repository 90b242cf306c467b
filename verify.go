package extsort

import (
	"context"
	"fmt"

	sorterrors "github.com/tamirms/extsort/errors"
)

// Verify re-reads out and confirms it holds exactly n records in
// non-decreasing key order, independent of the index that produced it. It
// exists to catch a wrong sort or a bad rewrite by inspecting only the
// bytes actually written, the same way a build's last step re-scans its
// output rather than trusting the in-memory state that produced it.
func Verify(ctx context.Context, out *OutputFile, n uint64) error {
	data := out.Bytes()
	var pos uint64
	var prevKey uint64
	for i := uint64(0); i < n; i++ {
		if i%contextCheckStride == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
		key, length, err := readRecordHeaderAt(data, pos, i)
		if err != nil {
			return err
		}
		if i > 0 && key < prevKey {
			return wrapRecordIndex(fmt.Errorf("%w: %d < %d", sorterrors.ErrOutOfOrder, key, prevKey), i)
		}
		prevKey = key
		pos += uint64(RecordHeaderSize) + uint64(length)
	}
	if pos != uint64(out.Size()) {
		return fmt.Errorf("%w: consumed %d bytes, output is %d", sorterrors.ErrCountMismatch, pos, out.Size())
	}
	return nil
}
