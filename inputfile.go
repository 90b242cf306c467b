package extsort

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"

	sorterrors "github.com/tamirms/extsort/errors"
)

// InputFile is a read-only memory mapping of the unsorted record stream.
// Mapping failures are fatal to the caller — there is no degraded fallback.
type InputFile struct {
	file       *os.File
	mmap       mmap.MMap
	data       []byte
	everMapped bool
	closed     bool
}

// OpenInput opens path and maps it read-only for the duration of the sort.
func OpenInput(path string) (*InputFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input %q: %w: %w", path, sorterrors.ErrOpenFailed, err)
	}
	in, err := OpenInputFile(f)
	closeErr := f.Close()
	if err != nil {
		return nil, err
	}
	if closeErr != nil {
		return nil, fmt.Errorf("close input file handle %q: %w", path, closeErr)
	}
	return in, nil
}

// OpenInputFile maps an already-open file read-only. Per POSIX mmap(2), f
// may be closed once this call returns; the mapping stays valid.
func OpenInputFile(f *os.File) (*InputFile, error) {
	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat input file: %w: %w", sorterrors.ErrStatFailed, err)
	}
	size := st.Size()
	if size == 0 {
		// A zero-length input has no records to map; represent it with an
		// empty mapping rather than failing mmap on a zero-length region.
		return &InputFile{}, nil
	}
	mm, err := mmap.MapRegion(f, int(size), mmap.RDONLY, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap input file: %w: %w", sorterrors.ErrMapFailed, err)
	}
	fadviseSequential(int(f.Fd()), 0, size)
	return &InputFile{file: f, mmap: mm, data: []byte(mm), everMapped: true}, nil
}

// Bytes returns the mapped input as a byte slice. Callers must not retain
// it past Close.
func (in *InputFile) Bytes() []byte {
	return in.data
}

// Size returns the mapped file size in bytes.
func (in *InputFile) Size() int64 {
	return int64(len(in.data))
}

// Close unmaps the input. Safe to call once; idempotent for a zero-length
// input (there is nothing mapped). Closing an already-closed, non-empty
// InputFile returns ErrClosed rather than silently succeeding a second time.
func (in *InputFile) Close() error {
	if !in.everMapped {
		return nil
	}
	if in.closed {
		return sorterrors.ErrClosed
	}
	in.closed = true
	err := in.mmap.Unmap()
	in.mmap = nil
	in.data = nil
	if err != nil {
		return fmt.Errorf("unmap input file: %w: %w", sorterrors.ErrUnmapFailed, err)
	}
	return nil
}
