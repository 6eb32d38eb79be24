package knng

import "errors"

var (
	// ErrNoCoordinates indicates an empty input point set.
	ErrNoCoordinates = errors.New("knng: no coordinates supplied")

	// ErrDimensionMismatch indicates ids/coordinates length disagreement
	// or rows of differing dimension.
	ErrDimensionMismatch = errors.New("knng: dimension mismatch")

	// ErrBadK indicates a non-positive neighbor count.
	ErrBadK = errors.New("knng: k must be positive")

	// ErrBadRadius indicates a pruning radius that is negative or NaN.
	ErrBadRadius = errors.New("knng: pruning radius must be non-negative")

	// ErrNotFinite indicates a NaN or ±Inf coordinate.
	ErrNotFinite = errors.New("knng: non-finite coordinate")

	// ErrDuplicateID indicates a repeated unit identifier.
	ErrDuplicateID = errors.New("knng: duplicate unit identifier")
)

// Edge is one neighbor relation: the neighbor's unit identifier and
// the Euclidean distance to it.
type Edge struct {
	ID   string
	Dist float64
}

// Graph maps each unit to its ordered neighbor set (ascending by
// distance, ties by identifier). Built once, read-only thereafter;
// safe for concurrent readers.
type Graph struct {
	ids   []string
	index map[string]int
	adj   [][]Edge
}

// Units returns the unit identifiers in input order (copy).
func (g *Graph) Units() []string { return append([]string(nil), g.ids...) }

// Neighbors returns the unit's neighbor edges and whether the unit
// exists. The returned slice is shared and must not be mutated.
func (g *Graph) Neighbors(id string) ([]Edge, bool) {
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}

	return g.adj[i], true
}

// Degree returns the unit's neighbor count (0 for unknown units).
func (g *Graph) Degree(id string) int {
	i, ok := g.index[id]
	if !ok {
		return 0
	}

	return len(g.adj[i])
}

// Options configures graph construction.
//
//   - K: neighbors per unit (required, > 0).
//   - Prune: discard edges with distance > Radius after k-selection.
//   - Radius: pruning radius; only consulted when Prune is true.
type Options struct {
	K      int
	Prune  bool
	Radius float64
}

// DefaultK is the neighbor count used by DefaultOptions.
const DefaultK = 20

// DefaultOptions returns k=DefaultK with pruning disabled.
func DefaultOptions() Options {
	return Options{K: DefaultK}
}
