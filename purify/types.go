package purify

import (
	"errors"
	"fmt"
	"runtime"
)

var (
	// ErrNilStore indicates purification was required but no reference
	// store was supplied.
	ErrNilStore = errors.New("purify: reference store is nil")

	// ErrLengthMismatch indicates raw counts and the reference gene set
	// have different lengths.
	ErrLengthMismatch = errors.New("purify: raw counts length does not match reference gene set")
)

// Status tags the outcome of purification for one unit.
type Status int

const (
	// StatusUnchanged — the unit passed through with raw counts.
	StatusUnchanged Status = iota

	// StatusPurified — contamination was subtracted.
	StatusPurified

	// StatusExcludedReject — the decomposition rejected the unit; it is
	// dropped from all downstream stages.
	StatusExcludedReject

	// StatusMissingReference — the secondary type has no reference
	// profile; the unit passed through raw and was flagged.
	StatusMissingReference
)

// String returns the table-level name of the status.
func (s Status) String() string {
	switch s {
	case StatusUnchanged:
		return "unchanged"
	case StatusPurified:
		return "purified"
	case StatusExcludedReject:
		return "excluded_reject"
	case StatusMissingReference:
		return "missing_reference"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Profile is the per-unit purification result. Counts is nil only for
// StatusExcludedReject. Never mutated after creation.
type Profile struct {
	Counts []float64
	Status Status
}

// Options configures the purifier.
//
//   - PurifySinglets: also purify singlets that carry a secondary
//     signal (doublets are always purified).
//   - Workers: parallel worker count for All; ≤ 0 means runtime.NumCPU().
//   - ChunkSize: units per work chunk for All; ≤ 0 means DefaultChunkSize.
//
// Workers and ChunkSize affect throughput and memory only — results
// are identical for every configuration.
type Options struct {
	PurifySinglets bool
	Workers        int
	ChunkSize      int
}

// DefaultChunkSize is the unit count per work chunk when unset.
const DefaultChunkSize = 1024

// DefaultOptions returns the default purifier configuration:
// singlets pass through, one worker per CPU, DefaultChunkSize.
func DefaultOptions() Options {
	return Options{
		PurifySinglets: false,
		Workers:        runtime.NumCPU(),
		ChunkSize:      DefaultChunkSize,
	}
}

// normalized returns a copy with Workers and ChunkSize resolved to
// usable positive values.
func (o Options) normalized() Options {
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}

	return o
}
