package extsort

import (
	"context"

	sorterrors "github.com/tamirms/extsort/errors"
)

// Rewrite copies each record named by idx, in order, from in into out,
// producing the fully sorted output file. out must have been created with
// CreateOutput(path, idx) so its size exactly matches the records being
// copied. Each record is copied as a single header+payload span — the
// binary layout is opaque past its declared length, so no decoding happens
// here beyond what CreateOutput already needed to size the file.
func Rewrite(ctx context.Context, in *InputFile, out *OutputFile, idx []IndexEntry) error {
	src := in.Bytes()
	dst := out.Bytes()

	var off int64
	for i, e := range idx {
		if i%contextCheckStride == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
		recSize := int64(RecordHeaderSize) + int64(e.Len)
		if e.Offset+uint64(recSize) > uint64(len(src)) {
			return wrapRecordIndex(sorterrors.ErrIndexOutOfRange, uint64(i))
		}
		copy(dst[off:off+recSize], src[e.Offset:e.Offset+uint64(recSize)])
		off += recSize
	}
	return nil
}
