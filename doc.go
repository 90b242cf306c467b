// Package extsort sorts a large binary file of variable-length records by
// an unsigned numeric key, using an amount of RAM bounded by an in-memory
// index whose size is linear in the record count and independent of
// payload size.
//
// The file format is a flat concatenation of records, each an 8-byte key,
// a 4-byte payload length, and the payload itself (see RecordHeaderSize).
// A single linear scan over a read-only mapping of the input builds an
// array of IndexEntry values; that array is then sorted by one of two
// backends and used to rewrite the input into a new file in ascending
// key order.
//
// # Basic usage
//
//	in, err := extsort.OpenInput("unsorted_1000000_256.bin")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer in.Close()
//
//	cfg, err := extsort.NewConfig(n, extsort.WithThreads(8), extsort.WithCutoff(4096))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	idx, err := extsort.BuildIndex(context.Background(), in, n)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := extsort.TaskMergeSort(context.Background(), idx, cfg.Cutoff, cfg.Threads, nil); err != nil {
//	    log.Fatal(err)
//	}
//
//	out, err := extsort.CreateOutput("sorted_1000000_256.bin", idx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer out.Close()
//	if err := extsort.Rewrite(context.Background(), in, out, idx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Package structure
//
//   - Binary format: record.go (record header), index_entry.go (in-memory index)
//   - Mapped files: inputfile.go, outputfile.go
//   - Platform helpers: fallocate_*.go, fadvise_*.go, prefault_*.go
//   - Overlap primitive: gate.go (ProgressGate)
//   - Index construction: indexbuilder.go
//   - Sort primitives: merge.go (in-place adjacent merge, base sort)
//   - Execution backends: tasksort.go (recursive), farm.go (task-graph farm)
//   - Output: rewriter.go, verify.go
//   - Integrity checks: checksum.go
//   - Test/CLI input generation: generator.go
//   - Distributed backend: the distributed subpackage
//   - Configuration: config.go
//   - Errors: the errors subpackage
package extsort
