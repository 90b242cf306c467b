package extsort

import (
	"encoding/binary"
	"fmt"
	"math/rand"
	"os"
)

// GenerateInput writes an unsorted input file of n records to path, each
// key uniformly random in [0, math.MaxInt32] and each payload a uniformly
// random length in [minLen, maxLen] filled with random bytes. seed makes
// generation reproducible across runs, mirroring a fixed-seed synthetic
// benchmark input rather than a security-sensitive random stream.
func GenerateInput(path string, n uint64, minLen, maxLen uint32, seed int64) error {
	if maxLen < minLen {
		return fmt.Errorf("extsort: maxLen %d < minLen %d", maxLen, minLen)
	}

	rng := rand.New(rand.NewSource(seed))

	// Precompute lengths so the file can be preallocated to its exact size
	// before any bytes are written, the same two-pass shape build_index_mmap's
	// generator counterpart uses.
	lens := make([]uint32, n)
	var size int64
	span := int64(maxLen-minLen) + 1
	for i := range lens {
		l := minLen
		if span > 1 {
			l += uint32(rng.Int63n(span))
		}
		lens[i] = l
		size += int64(RecordHeaderSize) + int64(l)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create input %q: %w", path, err)
	}
	defer file.Close()

	if err := fallocateFile(file, size); err != nil {
		return fmt.Errorf("preallocate input %q: %w", path, err)
	}

	header := make([]byte, RecordHeaderSize)
	payload := make([]byte, maxLen)
	for _, l := range lens {
		key := uint64(rng.Int63n(1 << 31))
		binary.LittleEndian.PutUint64(header[0:8], key)
		binary.LittleEndian.PutUint32(header[8:12], l)
		if _, err := file.Write(header); err != nil {
			return fmt.Errorf("write header to %q: %w", path, err)
		}
		if l > 0 {
			rng.Read(payload[:l])
			if _, err := file.Write(payload[:l]); err != nil {
				return fmt.Errorf("write payload to %q: %w", path, err)
			}
		}
	}

	return nil
}
