package extsort

import (
	"runtime"

	sorterrors "github.com/tamirms/extsort/errors"
)

// Config holds the run-time parameters for a sort run: the sort core
// accepts this as a plain value produced by the (out-of-scope) CLI
// collaborator. Built with a functional-options shape.
type Config struct {
	Records uint64 // N: number of records (required, > 0)
	Payload uint32 // maximum payload size in bytes (>= 8); informational, not enforced here
	Threads int    // worker-pool size (0 => host hardware concurrency)
	Cutoff  int    // leaf threshold in records (> 0); also the progress-notify stride
}

// Option is a functional option for NewConfig.
type Option func(*Config)

// WithPayload records the maximum payload size used to generate the input,
// carried through for diagnostics; it does not change sort behavior.
func WithPayload(maxBytes uint32) Option {
	return func(c *Config) { c.Payload = maxBytes }
}

// WithThreads sets the worker-pool size. 0 selects runtime.NumCPU().
func WithThreads(n int) Option {
	return func(c *Config) { c.Threads = n }
}

// WithCutoff sets the leaf threshold in records, also used as the
// progress-notify stride when overlapping index construction with sorting.
func WithCutoff(n int) Option {
	return func(c *Config) { c.Cutoff = n }
}

// defaultCutoff mirrors original_source/utils.hpp's Params::cutoff default.
const defaultCutoff = 10_000

// NewConfig validates and constructs a Config for records total records,
// mirroring parse_argv's validation in original_source/utils.hpp.
func NewConfig(records uint64, opts ...Option) (Config, error) {
	if records == 0 {
		return Config{}, sorterrors.ErrZeroRecords
	}

	cfg := Config{
		Records: records,
		Payload: 8,
		Cutoff:  defaultCutoff,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.Payload < minPayloadLen {
		return Config{}, sorterrors.ErrPayloadSmall
	}
	if cfg.Cutoff <= 0 {
		return Config{}, sorterrors.ErrZeroCutoff
	}
	if cfg.Threads <= 0 {
		cfg.Threads = runtime.NumCPU()
	}

	return cfg, nil
}
