package extsort

import (
	"encoding/binary"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

// writeTestInput writes n records with the given keys (payload contents are
// deterministic filler, not random) to a temp file and returns its path.
// keys need not be sorted.
func writeTestInput(t *testing.T, keys []uint64, payloadLen func(i int) uint32) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "input.bin")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create input: %v", err)
	}
	defer f.Close()

	header := make([]byte, RecordHeaderSize)
	for i, key := range keys {
		length := payloadLen(i)
		binary.LittleEndian.PutUint64(header[0:8], key)
		binary.LittleEndian.PutUint32(header[8:12], length)
		if _, err := f.Write(header); err != nil {
			t.Fatalf("write header: %v", err)
		}
		payload := make([]byte, length)
		for j := range payload {
			payload[j] = byte(i + j)
		}
		if _, err := f.Write(payload); err != nil {
			t.Fatalf("write payload: %v", err)
		}
	}
	return path
}

// randomKeys returns n pseudo-random uint64 keys from a fixed seed, for
// reproducible test fixtures.
func randomKeys(n int, seed int64) []uint64 {
	rng := rand.New(rand.NewSource(seed))
	keys := make([]uint64, n)
	for i := range keys {
		keys[i] = uint64(rng.Int63())
	}
	return keys
}

func constPayloadLen(n uint32) func(int) uint32 {
	return func(int) uint32 { return n }
}
