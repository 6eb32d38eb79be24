package pipeline

import (
	"errors"
	"fmt"
	"sort"

	"github.com/koetjen/SPLIT/balance"
	"github.com/koetjen/SPLIT/decomp"
	"github.com/koetjen/SPLIT/expr"
	"github.com/koetjen/SPLIT/knng"
	"github.com/koetjen/SPLIT/neighborhood"
	"github.com/koetjen/SPLIT/purify"
	"github.com/koetjen/SPLIT/reference"
)

var (
	// ErrNilCounts indicates a missing count matrix.
	ErrNilCounts = errors.New("pipeline: count matrix is nil")

	// ErrNilReference indicates a missing reference store.
	ErrNilReference = errors.New("pipeline: reference store is nil")

	// ErrNoDecomposition indicates an empty decomposition table.
	ErrNoDecomposition = errors.New("pipeline: decomposition table is empty")

	// ErrGeneMismatch indicates the reference gene set and the count
	// matrix disagree on gene count.
	ErrGeneMismatch = errors.New("pipeline: reference gene set does not match count matrix")

	// ErrCoordinateMismatch indicates a coordinate slice whose length
	// differs from the count matrix unit count.
	ErrCoordinateMismatch = errors.New("pipeline: coordinates do not align with count matrix units")

	// ErrUnknownUnit indicates a decomposition record for a unit absent
	// from the count matrix — a structural inconsistency, never
	// recovered per unit.
	ErrUnknownUnit = errors.New("pipeline: decomposition references unit absent from count matrix")
)

// Input bundles everything one run consumes. Counts, Decomposition and
// Reference are required; Spatial and Embedding are optional coordinate
// slices aligned with Counts.Units() (row i describes unit i).
type Input struct {
	Counts        *expr.Matrix
	Decomposition []decomp.Row
	Reference     *reference.Store

	// KnownTypes is the cell-type universe for decomposition
	// validation. Empty ⇒ every non-empty type is accepted and missing
	// reference profiles are handled per unit.
	KnownTypes []string

	// Spatial holds 2-D tissue coordinates; nil disables the diffusion
	// score and every unit falls back to the purifier's own decision.
	Spatial [][]float64

	// Embedding holds transcriptomic embedding coordinates; nil
	// disables homogeneity scores and therefore label swaps.
	Embedding [][]float64
}

// Options configures all stages of a run.
type Options struct {
	Purify    purify.Options
	Spatial   knng.Options
	Embedding knng.Options
	Balance   balance.Options
}

// DefaultOptions returns every stage's own defaults.
func DefaultOptions() Options {
	return Options{
		Purify:    purify.DefaultOptions(),
		Spatial:   knng.DefaultOptions(),
		Embedding: knng.DefaultOptions(),
		Balance:   balance.DefaultOptions(),
	}
}

// Meta is the per-unit metadata row of a Result. Type labels reflect a
// swap when one fired.
type Meta struct {
	Status            purify.Status
	Swap              bool
	FirstType         string
	SecondType        string
	SpatialScore      neighborhood.Score
	HomogeneityFirst  neighborhood.Score
	HomogeneitySecond neighborhood.Score
}

// Result is the output of one run. Counts holds the surviving units in
// their original column order; Meta has one row per surviving unit.
type Result struct {
	Counts *expr.Matrix
	Meta   map[string]Meta

	// Run counters.
	Purified         int
	Unchanged        int
	MissingReference int
	RejectsDropped   int
	UnknownDropped   int
	UndefinedScores  int
}

// Run executes the full pass over in. Any structural failure aborts
// with a nil Result; per-unit conditions (missing reference profiles,
// zero-neighbor units) are recovered and counted instead.
func Run(in Input, opts Options) (*Result, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	records, err := decomp.Normalize(in.Decomposition, knownTypeFunc(in.KnownTypes))
	if err != nil {
		return nil, err
	}
	recordIDs := sortedKeys(records)
	for _, id := range recordIDs {
		if !in.Counts.HasUnit(id) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownUnit, id)
		}
	}

	profiles, err := purify.All(in.Counts, records, in.Reference, opts.Purify)
	if err != nil {
		return nil, err
	}

	candidates, err := candidateProfiles(in.Counts, records, profiles, in.Reference, recordIDs)
	if err != nil {
		return nil, err
	}

	// Graph stages run over trusted units only: reject and unknown
	// units neither receive nor contribute neighborhood signal.
	units := in.Counts.Units()
	eligible := make([]int, 0, len(units))
	for i, id := range units {
		if rec, ok := records[id]; ok && rec.Class != decomp.Reject {
			eligible = append(eligible, i)
		}
	}

	// With no trusted units there is nothing to index; the graph
	// stages are skipped and every score stays undefined.
	var scores map[string]neighborhood.Score
	if in.Spatial != nil && len(eligible) > 0 {
		g, gErr := graphOver(units, in.Spatial, eligible, opts.Spatial)
		if gErr != nil {
			return nil, gErr
		}
		scores = neighborhood.Aggregate(g, records, neighborhood.SecondWeight)
	}

	var homoFirst, homoSecond map[string]neighborhood.Score
	if in.Embedding != nil && len(eligible) > 0 {
		g, gErr := graphOver(units, in.Embedding, eligible, opts.Embedding)
		if gErr != nil {
			return nil, gErr
		}
		homoFirst = neighborhood.AggregatePair(g, records, neighborhood.FirstTypeHomogeneity)
		homoSecond = neighborhood.AggregatePair(g, records, neighborhood.SecondTypeHomogeneity)
	}

	outcomes, err := balance.All(in.Counts, profiles, candidates, records,
		scores, homoFirst, homoSecond, opts.Balance)
	if err != nil {
		return nil, err
	}

	return assemble(in, records, outcomes, scores != nil, homoFirst, homoSecond)
}

// validate checks the structural preconditions of Run.
func validate(in Input) error {
	switch {
	case in.Counts == nil:
		return ErrNilCounts
	case in.Reference == nil:
		return ErrNilReference
	case len(in.Decomposition) == 0:
		return ErrNoDecomposition
	}
	if len(in.Reference.Genes()) != in.Counts.NumGenes() {
		return fmt.Errorf("%w: %d reference genes for %d matrix genes",
			ErrGeneMismatch, len(in.Reference.Genes()), in.Counts.NumGenes())
	}
	if in.Spatial != nil && len(in.Spatial) != in.Counts.NumUnits() {
		return fmt.Errorf("%w: %d spatial rows for %d units",
			ErrCoordinateMismatch, len(in.Spatial), in.Counts.NumUnits())
	}
	if in.Embedding != nil && len(in.Embedding) != in.Counts.NumUnits() {
		return fmt.Errorf("%w: %d embedding rows for %d units",
			ErrCoordinateMismatch, len(in.Embedding), in.Counts.NumUnits())
	}

	return nil
}

// knownTypeFunc turns an optional type universe into the membership
// predicate the adapter expects.
func knownTypeFunc(types []string) func(string) bool {
	if len(types) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(types))
	for _, typ := range types {
		set[typ] = struct{}{}
	}

	return func(typ string) bool {
		_, ok := set[typ]
		return ok
	}
}

// candidateProfiles computes the purified count vector for every
// non-reject unit with a usable secondary signal, so a neighborhood
// override always has a profile to switch to — including units the
// default policy passed through. Units whose secondary type lacks a
// reference profile get no candidate; the balancer degrades to the
// purifier's result for them.
func candidateProfiles(
	counts *expr.Matrix,
	records map[string]decomp.Record,
	profiles map[string]purify.Profile,
	store *reference.Store,
	recordIDs []string,
) (map[string][]float64, error) {
	candidates := make(map[string][]float64)
	for _, id := range recordIDs {
		rec := records[id]
		if rec.Class == decomp.Reject || !rec.HasSecond() {
			continue
		}
		if p, ok := profiles[id]; ok && p.Status == purify.StatusPurified {
			// The purifier already produced the purified form.
			candidates[id] = p.Counts
			continue
		}
		raw, err := counts.Column(id)
		if err != nil {
			return nil, err
		}
		vec, status, err := purify.Subtract(raw, rec, store)
		if err != nil {
			return nil, err
		}
		if status == purify.StatusPurified {
			candidates[id] = vec
		}
	}

	return candidates, nil
}

// graphOver builds a neighbor graph over the eligible subset of units,
// with coordinates taken from the full per-unit slice.
func graphOver(units []string, coords [][]float64, eligible []int, opts knng.Options) (*knng.Graph, error) {
	ids := make([]string, len(eligible))
	sub := make([][]float64, len(eligible))
	for j, i := range eligible {
		ids[j] = units[i]
		sub[j] = coords[i]
	}

	return knng.Build(ids, sub, opts)
}

// assemble builds the Result from the balancer's outcomes, preserving
// the original column order among surviving units.
func assemble(
	in Input,
	records map[string]decomp.Record,
	outcomes map[string]balance.Outcome,
	spatialRan bool,
	homoFirst, homoSecond map[string]neighborhood.Score,
) (*Result, error) {
	units := in.Counts.Units()
	surviving := make([]string, 0, len(outcomes))
	for _, id := range units {
		if _, ok := outcomes[id]; ok {
			surviving = append(surviving, id)
		}
	}

	merged, err := expr.NewZero(in.Counts.Genes(), surviving)
	if err != nil {
		return nil, err
	}

	res := &Result{Counts: merged, Meta: make(map[string]Meta, len(surviving))}
	for _, id := range surviving {
		out := outcomes[id]
		if err = merged.SetColumn(id, out.Counts); err != nil {
			return nil, err
		}
		res.Meta[id] = Meta{
			Status:            out.Status,
			Swap:              out.Swap,
			FirstType:         out.Record.FirstType,
			SecondType:        out.Record.SecondType,
			SpatialScore:      out.Score,
			HomogeneityFirst:  scoreOr(homoFirst, id),
			HomogeneitySecond: scoreOr(homoSecond, id),
		}

		switch out.Status {
		case purify.StatusPurified:
			res.Purified++
		case purify.StatusMissingReference:
			res.MissingReference++
		default:
			res.Unchanged++
		}
		if spatialRan && !out.Score.Defined() {
			res.UndefinedScores++
		}
	}

	for _, id := range units {
		if _, ok := outcomes[id]; ok {
			continue
		}
		if rec, ok := records[id]; ok && rec.Class == decomp.Reject {
			res.RejectsDropped++
		} else {
			res.UnknownDropped++
		}
	}

	return res, nil
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

// sortedKeys returns the map's keys in ascending order, for stable
// validation and candidate iteration.
func sortedKeys(m map[string]decomp.Record) []string {
	out := make([]string, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Strings(out)

	return out
}
