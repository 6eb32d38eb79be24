package knng

import (
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"
)

// treePoint carries the original unit index through the k-d tree.
type treePoint struct {
	kdtree.Point
	idx int
}

func (p treePoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(treePoint)
	return p.Point[d] - q.Point[d]
}

func (p treePoint) Dims() int { return len(p.Point) }

func (p treePoint) Distance(c kdtree.Comparable) float64 {
	q := c.(treePoint)
	return p.Point.Distance(q.Point)
}

// treePoints implements kdtree.Interface.
type treePoints []treePoint

func (p treePoints) Index(i int) kdtree.Comparable { return p[i] }
func (p treePoints) Len() int                      { return len(p) }
func (p treePoints) Pivot(d kdtree.Dim) int {
	return treePlane{treePoints: p, Dim: d}.Pivot()
}
func (p treePoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

// treePlane implements kdtree.SortSlicer for pivot selection.
type treePlane struct {
	treePoints
	kdtree.Dim
}

func (p treePlane) Less(i, j int) bool {
	return p.treePoints[i].Point[p.Dim] < p.treePoints[j].Point[p.Dim]
}
func (p treePlane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p treePlane) Slice(start, end int) kdtree.SortSlicer {
	p.treePoints = p.treePoints[start:end]
	return p
}
func (p treePlane) Swap(i, j int) {
	p.treePoints[i], p.treePoints[j] = p.treePoints[j], p.treePoints[i]
}

// treeIndex answers k-NN queries in arbitrary dimension (embeddings)
// via a gonum k-d tree. kdtree distances are squared Euclidean, which
// matches the ranked convention.
type treeIndex struct {
	ids   []string
	query []treePoint // by original index; kdtree.New reorders its input
	tree  *kdtree.Tree
}

func newTreeIndex(ids []string, coords [][]float64) *treeIndex {
	t := &treeIndex{
		ids:   ids,
		query: make([]treePoint, len(coords)),
	}
	for i, c := range coords {
		t.query[i] = treePoint{
			Point: kdtree.Point(append([]float64(nil), c...)),
			idx:   i,
		}
	}
	build := make(treePoints, len(t.query))
	copy(build, t.query)
	t.tree = kdtree.New(build, false)

	return t
}

// nearest finds the kth candidate distance with an NKeeper, then
// re-collects everything within that distance so equal-distance
// boundary ties resolve by unit identifier, not tree order.
func (t *treeIndex) nearest(q, k int) []ranked {
	// +1 slot: the query point itself lives in the tree at distance 0.
	keeper := kdtree.NewNKeeper(k + 1)
	t.tree.NearestSet(keeper, t.query[q])

	cands := t.collect(keeper.Heap, q)
	if len(cands) >= k {
		sortRanked(t.ids, cands)
		kth := cands[k-1].d2
		// Nudge past FP representation so ties at exactly kth survive
		// the keeper's cutoff.
		bound := kth + 1e-12 + kth*1e-12
		dk := kdtree.NewDistKeeper(bound)
		t.tree.NearestSet(dk, t.query[q])
		cands = t.collect(dk.Heap, q)
	}
	sortRanked(t.ids, cands)
	if len(cands) > k {
		cands = cands[:k]
	}

	return cands
}

// collect extracts non-self candidates from a keeper heap, skipping
// the keeper's sentinel entries.
func (t *treeIndex) collect(heap []kdtree.ComparableDist, q int) []ranked {
	out := make([]ranked, 0, len(heap))
	for _, cd := range heap {
		if cd.Comparable == nil {
			continue
		}
		p := cd.Comparable.(treePoint)
		if p.idx == q {
			continue
		}
		out = append(out, ranked{d2: cd.Dist, idx: p.idx})
	}

	return out
}

func sortRanked(ids []string, cands []ranked) {
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].d2 != cands[j].d2 {
			return cands[i].d2 < cands[j].d2
		}

		return ids[cands[i].idx] < ids[cands[j].idx]
	})
}
