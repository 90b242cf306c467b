package extsort

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	sorterrors "github.com/tamirms/extsort/errors"
)

func TestRewriteProducesSortedOutput(t *testing.T) {
	keys := []uint64{9, 1, 5, 3, 7}
	path := writeTestInput(t, keys, constPayloadLen(4))

	in, err := OpenInput(path)
	if err != nil {
		t.Fatalf("OpenInput: %v", err)
	}
	defer in.Close()

	idx, err := BuildIndex(context.Background(), in, uint64(len(keys)))
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	sortRange(idx, 0, len(idx)-1)

	outPath := filepath.Join(t.TempDir(), "sorted.bin")
	out, err := CreateOutput(outPath, idx)
	if err != nil {
		t.Fatalf("CreateOutput: %v", err)
	}
	defer out.Close()

	if err := Rewrite(context.Background(), in, out, idx); err != nil {
		t.Fatalf("Rewrite: %v", err)
	}

	if err := Verify(context.Background(), out, uint64(len(keys))); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestRewritePreservesPayloadBytes(t *testing.T) {
	keys := []uint64{2, 1}
	lens := []uint32{4, 6}
	path := writeTestInput(t, keys, func(i int) uint32 { return lens[i] })

	in, err := OpenInput(path)
	if err != nil {
		t.Fatalf("OpenInput: %v", err)
	}
	defer in.Close()

	idx, err := BuildIndex(context.Background(), in, uint64(len(keys)))
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	sortRange(idx, 0, len(idx)-1) // key 1 (record index 1) now comes first

	outPath := filepath.Join(t.TempDir(), "sorted.bin")
	out, err := CreateOutput(outPath, idx)
	if err != nil {
		t.Fatalf("CreateOutput: %v", err)
	}
	defer out.Close()

	if err := Rewrite(context.Background(), in, out, idx); err != nil {
		t.Fatalf("Rewrite: %v", err)
	}

	inData := in.Bytes()
	outData := out.Bytes()
	// First output record should be the original record index 1 (key 1, len 6).
	wantPayload := inData[RecordHeaderSize+4+RecordHeaderSize : RecordHeaderSize+4+RecordHeaderSize+6]
	gotPayload := outData[RecordHeaderSize : RecordHeaderSize+6]
	if string(gotPayload) != string(wantPayload) {
		t.Fatalf("payload mismatch: got %v, want %v", gotPayload, wantPayload)
	}
}

func TestRewriteIndexOutOfRange(t *testing.T) {
	keys := []uint64{1, 2}
	path := writeTestInput(t, keys, constPayloadLen(4))

	in, err := OpenInput(path)
	if err != nil {
		t.Fatalf("OpenInput: %v", err)
	}
	defer in.Close()

	// An index entry pointing past the end of the input file, as if built
	// against a different, larger file.
	idx := []IndexEntry{{Key: 1, Offset: uint64(in.Size()), Len: 4}}

	outPath := filepath.Join(t.TempDir(), "sorted.bin")
	out, err := CreateOutput(outPath, idx)
	if err != nil {
		t.Fatalf("CreateOutput: %v", err)
	}
	defer out.Close()

	err = Rewrite(context.Background(), in, out, idx)
	if !errors.Is(err, sorterrors.ErrIndexOutOfRange) {
		t.Fatalf("err = %v, want ErrIndexOutOfRange", err)
	}
}

func TestRewriteEmptyIndex(t *testing.T) {
	path := writeTestInput(t, nil, constPayloadLen(4))
	in, err := OpenInput(path)
	if err != nil {
		t.Fatalf("OpenInput: %v", err)
	}
	defer in.Close()

	outPath := filepath.Join(t.TempDir(), "sorted.bin")
	out, err := CreateOutput(outPath, nil)
	if err != nil {
		t.Fatalf("CreateOutput: %v", err)
	}
	defer out.Close()

	if err := Rewrite(context.Background(), in, out, nil); err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	if out.Size() != 0 {
		t.Fatalf("out.Size() = %d, want 0", out.Size())
	}
}
