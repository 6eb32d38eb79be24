package decomp

import (
	"errors"
	"fmt"
)

// ErrMalformedDecomposition indicates a structurally invalid
// decomposition table: unknown spot class, weight out of range,
// unknown cell type, or duplicate unit. Fatal — a run must abort.
var ErrMalformedDecomposition = errors.New("decomp: malformed decomposition result")

// SpotClass is the categorical outcome of the external decomposition.
type SpotClass int

const (
	// Reject marks a unit the decomposition could not assign reliably.
	// Rejects are dropped from all downstream stages.
	Reject SpotClass = iota

	// Singlet marks a unit dominated by a single cell type.
	Singlet

	// DoubletCertain marks a confidently detected two-type mixture.
	DoubletCertain

	// DoubletUncertain marks a two-type mixture with low discrimination
	// confidence. Purified the same as DoubletCertain.
	DoubletUncertain
)

// String returns the table-level name of the spot class.
func (c SpotClass) String() string {
	switch c {
	case Reject:
		return "reject"
	case Singlet:
		return "singlet"
	case DoubletCertain:
		return "doublet_certain"
	case DoubletUncertain:
		return "doublet_uncertain"
	default:
		return fmt.Sprintf("SpotClass(%d)", int(c))
	}
}

// ParseSpotClass converts a table value into a SpotClass.
func ParseSpotClass(s string) (SpotClass, error) {
	switch s {
	case "reject":
		return Reject, nil
	case "singlet":
		return Singlet, nil
	case "doublet_certain":
		return DoubletCertain, nil
	case "doublet_uncertain":
		return DoubletUncertain, nil
	default:
		return 0, fmt.Errorf("%w: unknown spot_class %q", ErrMalformedDecomposition, s)
	}
}

// Row is one line of the external decomposition table, unvalidated.
type Row struct {
	UnitID       string
	SpotClass    string
	FirstType    string
	SecondType   string // empty ⇒ absent
	WeightFirst  float64
	WeightSecond float64
	Confidence   float64
}

// Record is the validated per-unit decomposition record. Immutable
// once produced by Normalize.
type Record struct {
	Class        SpotClass
	FirstType    string
	SecondType   string // empty ⇒ absent
	WeightFirst  float64
	WeightSecond float64
	Confidence   float64
}

// HasSecond reports whether the record carries a usable secondary
// signal: a present second type with positive weight.
func (r Record) HasSecond() bool {
	return r.SecondType != "" && r.WeightSecond > 0
}

// Swapped returns a copy with first/second types and weights exchanged.
// Used by the balancer's label-swap step; the receiver is not modified.
func (r Record) Swapped() Record {
	out := r
	out.FirstType, out.SecondType = r.SecondType, r.FirstType
	out.WeightFirst, out.WeightSecond = r.WeightSecond, r.WeightFirst

	return out
}
