package extsort

import (
	"context"
)

// indexBuildConfig holds the optional gate/notify-stride pair for
// BuildIndex, set via IndexBuildOption.
type indexBuildConfig struct {
	gate        *ProgressGate
	notifyEvery uint64
}

// IndexBuildOption configures BuildIndex.
type IndexBuildOption func(*indexBuildConfig)

// WithGate makes BuildIndex publish progress to gate every notifyEvery
// entries, and once more with the final count when the scan completes.
// This is what lets sort leaves run before index construction finishes,
// overlapping the two phases.
func WithGate(gate *ProgressGate, notifyEvery uint64) IndexBuildOption {
	return func(c *indexBuildConfig) {
		c.gate = gate
		c.notifyEvery = notifyEvery
	}
}

// BuildIndex performs the single linear scan over in that materializes the
// index array: starting at offset 0, for i = 0..n it reads the 8-byte key
// and 4-byte length, records index[i] = {key, offset, len}, and advances by
// RecordHeaderSize+len.
//
// It fails fatally (returns a wrapped error) if the remaining input bytes
// are insufficient for the next header or its declared payload. The
// returned slice always has exactly n entries on success.
func BuildIndex(ctx context.Context, in *InputFile, n uint64, opts ...IndexBuildOption) ([]IndexEntry, error) {
	idx := make([]IndexEntry, n)
	if err := FillIndex(ctx, in, idx, opts...); err != nil {
		return nil, err
	}
	return idx, nil
}

// FillIndex is BuildIndex's underlying scan, writing into a caller-owned
// idx slice instead of allocating one. This is what lets a sort backend
// allocate the index once, hand a ProgressGate-backed FillIndex call the
// exact same slice its sort tasks are already reading from, and have the
// two overlap without ever passing a second, disconnected copy of the data
// around.
func FillIndex(ctx context.Context, in *InputFile, idx []IndexEntry, opts ...IndexBuildOption) error {
	cfg := &indexBuildConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	n := uint64(len(idx))
	if n == 0 {
		if cfg.gate != nil {
			cfg.gate.Notify(0)
		}
		return nil
	}

	data := in.Bytes()
	var pos uint64
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
		idx[i] = IndexEntry{Key: key, Offset: pos, Len: length}
		pos += uint64(RecordHeaderSize) + uint64(length)

		if cfg.gate != nil && cfg.notifyEvery > 0 {
			filledNow := i + 1
			if filledNow%cfg.notifyEvery == 0 {
				cfg.gate.Notify(filledNow)
			}
		}
	}

	if cfg.gate != nil {
		cfg.gate.Notify(n)
	}
	return nil
}

// contextCheckStride bounds how often BuildIndex checks ctx.Done() during
// the scan, avoiding a per-record channel-select cost on huge inputs.
const contextCheckStride = 1 << 16
