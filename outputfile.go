package extsort

import (
	"errors"
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"

	sorterrors "github.com/tamirms/extsort/errors"
)

// OutputFile is a read-write memory mapping of the sorted output, created
// or truncated to the exact pre-computed size: the sum of 12+len over every
// index entry. The mapping is readable as well as writable; Verify and
// ChecksumOutput read the written records back through it.
type OutputFile struct {
	file       *os.File
	mmap       mmap.MMap
	data       []byte
	size       int64
	everMapped bool
	closed     bool
}

// OutputSize returns the exact byte size required for a sorted output built
// from idx, i.e. sum(RecordHeaderSize + idx[i].Len).
func OutputSize(idx []IndexEntry) int64 {
	var total int64
	for _, e := range idx {
		total += int64(RecordHeaderSize) + int64(e.Len)
	}
	return total
}

// CreateOutput creates (or truncates) path and maps it read-write at the
// exact size required to hold idx, preallocating disk blocks first so that
// a full disk fails fast instead of delivering SIGBUS mid-copy.
func CreateOutput(path string, idx []IndexEntry) (*OutputFile, error) {
	size := OutputSize(idx)

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output %q: %w: %w", path, sorterrors.ErrOpenFailed, err)
	}

	if size == 0 {
		if err := file.Close(); err != nil {
			return nil, fmt.Errorf("close empty output %q: %w", path, err)
		}
		return &OutputFile{size: 0}, nil
	}

	if err := fallocateFile(file, size); err != nil {
		primary := fmt.Errorf("preallocate output %q: %w: %w", path, sorterrors.ErrTruncateFailed, err)
		return nil, errors.Join(primary, file.Close())
	}

	mm, err := mmap.MapRegion(file, int(size), mmap.RDWR, 0, 0)
	if err != nil {
		primary := fmt.Errorf("mmap output %q: %w: %w", path, sorterrors.ErrMapFailed, err)
		return nil, errors.Join(primary, file.Close())
	}

	out := &OutputFile{file: file, mmap: mm, data: []byte(mm), size: size, everMapped: true}
	prefaultRegion(out.data)
	return out, nil
}

// Bytes returns the mapped output as a byte slice.
func (out *OutputFile) Bytes() []byte {
	return out.data
}

// Size returns the exact output size in bytes.
func (out *OutputFile) Size() int64 {
	return out.size
}

// Close flushes, unmaps, and closes the output file. Safe to call once for
// a zero-length output (there is nothing mapped). Closing an already-closed,
// non-empty OutputFile returns ErrClosed rather than silently succeeding a
// second time.
func (out *OutputFile) Close() error {
	if !out.everMapped {
		return nil
	}
	if out.closed {
		return sorterrors.ErrClosed
	}
	out.closed = true

	var errs []error
	if err := out.mmap.Flush(); err != nil {
		errs = append(errs, fmt.Errorf("flush output: %w: %w", sorterrors.ErrWriteFailed, err))
	}
	if err := out.mmap.Unmap(); err != nil {
		errs = append(errs, fmt.Errorf("unmap output: %w: %w", sorterrors.ErrUnmapFailed, err))
	}
	out.mmap = nil
	out.data = nil
	if err := out.file.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close output file: %w", err))
	}
	return errors.Join(errs...)
}
