package balance

import (
	"errors"
	"fmt"
	"math"

	"github.com/koetjen/SPLIT/decomp"
	"github.com/koetjen/SPLIT/expr"
	"github.com/koetjen/SPLIT/neighborhood"
	"github.com/koetjen/SPLIT/purify"
)

var (
	// ErrBadThreshold indicates a NaN threshold.
	ErrBadThreshold = errors.New("balance: threshold must not be NaN")

	// ErrMissingRaw indicates a unit with a purifier profile but no raw
	// counts — a structural inconsistency, never recovered per unit.
	ErrMissingRaw = errors.New("balance: raw counts missing for unit")
)

// DefaultThreshold is the neighborhood-score threshold used by
// DefaultOptions.
const DefaultThreshold = 0.05

// Options configures the balancer.
//
//   - Threshold: neighborhood score at or above which the purified
//     profile is chosen. Lower ⇒ more units purified.
//   - SwapEnabled: allow primary/secondary label swaps on
//     transcriptomic homogeneity evidence.
type Options struct {
	Threshold   float64
	SwapEnabled bool
}

// DefaultOptions returns Threshold=DefaultThreshold, swaps disabled.
func DefaultOptions() Options {
	return Options{Threshold: DefaultThreshold}
}

// Decision carries everything the balancer needs for one unit.
type Decision struct {
	// Raw is the unit's raw count vector.
	Raw []float64

	// Profile is the purifier's own outcome for the unit, the fallback
	// when no spatial evidence exists.
	Profile purify.Profile

	// Candidate is the always-computed purified count vector, present
	// whenever the unit has a usable secondary signal and a reference
	// profile — the vector chosen on a threshold override. nil ⇒ no
	// purified form exists; the override degrades to the fallback.
	Candidate []float64

	// Record is the unit's decomposition record.
	Record decomp.Record

	// Score is the spatial neighborhood score driving the threshold
	// decision; undefined ⇒ fallback to Profile.
	Score neighborhood.Score

	// HomogeneityFirst and HomogeneitySecond are the transcriptomic
	// homogeneity scores of the unit's first and second type; both
	// must be defined for a swap to fire.
	HomogeneityFirst  neighborhood.Score
	HomogeneitySecond neighborhood.Score
}

// Outcome is the balancer's final per-unit result.
type Outcome struct {
	Counts []float64
	Status purify.Status
	Record decomp.Record
	Swap   bool
	Score  neighborhood.Score
}

// Decide applies the decision policy to one unit. The second return is
// false for excluded (reject) units.
func Decide(d Decision, opts Options) (Outcome, bool) {
	if d.Profile.Status == purify.StatusExcludedReject {
		return Outcome{}, false
	}

	out := Outcome{
		Counts: d.Profile.Counts,
		Status: d.Profile.Status,
		Record: d.Record,
		Score:  d.Score,
	}

	if d.Score.Defined() {
		if float64(d.Score) >= opts.Threshold {
			// Neighborhood corroborates contamination: override toward
			// purification when a purified form exists.
			if d.Candidate != nil {
				out.Counts = d.Candidate
				out.Status = purify.StatusPurified
			}
		} else {
			// No corroborating signal: revert to raw. A missing-reference
			// flag survives; it documents that purification was impossible,
			// not merely skipped.
			out.Counts = d.Raw
			if out.Status == purify.StatusPurified {
				out.Status = purify.StatusUnchanged
			}
		}
	}

	if opts.SwapEnabled &&
		d.Record.SecondType != "" &&
		d.HomogeneityFirst.Defined() && d.HomogeneitySecond.Defined() &&
		float64(d.HomogeneitySecond) > float64(d.HomogeneityFirst) {
		out.Record = d.Record.Swapped()
		out.Swap = true
	}

	return out, true
}

// All applies Decide to every unit with a purifier profile. candidates
// may omit units without a purified form; scores and homogeneity maps
// may omit units entirely (treated as undefined).
//
// Complexity: O(U).
func All(
	counts *expr.Matrix,
	profiles map[string]purify.Profile,
	candidates map[string][]float64,
	records map[string]decomp.Record,
	scores, homoFirst, homoSecond map[string]neighborhood.Score,
	opts Options,
) (map[string]Outcome, error) {
	if math.IsNaN(opts.Threshold) {
		return nil, ErrBadThreshold
	}

	out := make(map[string]Outcome, len(profiles))
	for id, profile := range profiles {
		raw, err := counts.Column(id)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrMissingRaw, id)
		}
		d := Decision{
			Raw:               raw,
			Profile:           profile,
			Candidate:         candidates[id],
			Record:            records[id],
			Score:             scoreOr(scores, id),
			HomogeneityFirst:  scoreOr(homoFirst, id),
			HomogeneitySecond: scoreOr(homoSecond, id),
		}
		if outcome, ok := Decide(d, opts); ok {
			out[id] = outcome
		}
	}

	return out, nil
}

// scoreOr reads a score map that may be nil or sparse; absent entries
// are undefined.
func scoreOr(m map[string]neighborhood.Score, id string) neighborhood.Score {
	if m == nil {
		return neighborhood.Undefined()
	}
	s, ok := m[id]
	if !ok {
		return neighborhood.Undefined()
	}

	return s
}
