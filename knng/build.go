package knng

import (
	"fmt"
	"math"
	"runtime"
	"sync"
)

// nearestSource is the internal contract shared by the grid and k-d
// tree indexes: the k nearest candidates of unit i, self excluded,
// ascending by (squared distance, unit identifier).
type nearestSource interface {
	nearest(i, k int) []ranked
}

// Build constructs the k-NN graph over the given coordinates. ids and
// coords are parallel slices; every coordinate row must have the same
// dimension. 2-dimensional inputs are indexed with a uniform grid,
// higher dimensions with a k-d tree.
//
// Pruning (when opts.Prune) removes edges with distance > opts.Radius
// after the k set is fixed; it never adds edges.
//
// Complexity: index build O(n) or O(n log n); n queries run across
// runtime.NumCPU() workers against the read-only index. Output is
// independent of worker scheduling.
func Build(ids []string, coords [][]float64, opts Options) (*Graph, error) {
	if opts.K <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrBadK, opts.K)
	}
	if opts.Prune && (math.IsNaN(opts.Radius) || opts.Radius < 0) {
		return nil, fmt.Errorf("%w: got %g", ErrBadRadius, opts.Radius)
	}
	if len(coords) == 0 {
		return nil, ErrNoCoordinates
	}
	if len(ids) != len(coords) {
		return nil, fmt.Errorf("%w: %d ids for %d coordinates",
			ErrDimensionMismatch, len(ids), len(coords))
	}

	dims := len(coords[0])
	if dims == 0 {
		return nil, fmt.Errorf("%w: zero-dimensional coordinates", ErrDimensionMismatch)
	}
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		if _, dup := index[id]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, id)
		}
		index[id] = i
		if len(coords[i]) != dims {
			return nil, fmt.Errorf("%w: row %d has %d dims, want %d",
				ErrDimensionMismatch, i, len(coords[i]), dims)
		}
		for _, v := range coords[i] {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: unit %q", ErrNotFinite, id)
			}
		}
	}

	var source nearestSource
	if dims == 2 {
		source = newGridIndex(ids, coords)
	} else {
		source = newTreeIndex(ids, coords)
	}

	// The index is read-only from here on; queries fan out across
	// workers, each writing only its own preassigned rows.
	adj := make([][]Edge, len(ids))
	var wg sync.WaitGroup
	workers := runtime.NumCPU()
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(start int) {
			defer wg.Done()
			for i := start; i < len(ids); i += workers {
				cand := source.nearest(i, opts.K)
				edges := make([]Edge, 0, len(cand))
				for _, c := range cand {
					d := math.Sqrt(c.d2)
					if opts.Prune && d > opts.Radius {
						continue
					}
					edges = append(edges, Edge{ID: ids[c.idx], Dist: d})
				}
				adj[i] = edges
			}
		}(w)
	}
	wg.Wait()

	return &Graph{
		ids:   append([]string(nil), ids...),
		index: index,
		adj:   adj,
	}, nil
}

// ranked is an index-level neighbor candidate with squared distance.
type ranked struct {
	d2  float64
	idx int
}

// topk keeps the k smallest candidates under the strict total order
// (squared distance, then unit identifier). The order is total, so the
// kept set is unique regardless of insertion order.
type topk struct {
	ids  []string
	k    int
	list []ranked // ascending, len ≤ k
}

func newTopK(ids []string, k int) *topk {
	return &topk{ids: ids, k: k, list: make([]ranked, 0, k)}
}

func (t *topk) less(a, b ranked) bool {
	if a.d2 != b.d2 {
		return a.d2 < b.d2
	}

	return t.ids[a.idx] < t.ids[b.idx]
}

// add offers a candidate; k is small, so an insertion step is cheaper
// than heap bookkeeping.
func (t *topk) add(d2 float64, idx int) {
	c := ranked{d2: d2, idx: idx}
	if len(t.list) == t.k {
		if !t.less(c, t.list[len(t.list)-1]) {
			return
		}
		t.list = t.list[:len(t.list)-1]
	}
	pos := len(t.list)
	for pos > 0 && t.less(c, t.list[pos-1]) {
		pos--
	}
	t.list = append(t.list, ranked{})
	copy(t.list[pos+1:], t.list[pos:])
	t.list[pos] = c
}

func (t *topk) full() bool { return len(t.list) == t.k }

// worst returns the largest kept squared distance, +Inf when not full.
func (t *topk) worst() float64 {
	if !t.full() {
		return math.Inf(1)
	}

	return t.list[len(t.list)-1].d2
}

// sorted returns the kept candidates in ascending order.
func (t *topk) sorted() []ranked { return t.list }
