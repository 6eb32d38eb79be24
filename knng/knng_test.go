package knng_test

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koetjen/SPLIT/knng"
)

// bruteforce computes reference k-NN with an all-pairs scan and
// (distance, id) ordering.
func bruteforce(ids []string, coords [][]float64, k int) map[string][]knng.Edge {
	type cand struct {
		id string
		d  float64
	}
	out := make(map[string][]knng.Edge, len(ids))
	for i, id := range ids {
		cands := make([]cand, 0, len(ids)-1)
		for j, jd := range ids {
			if i == j {
				continue
			}
			var d2 float64
			for dim := range coords[i] {
				diff := coords[i][dim] - coords[j][dim]
				d2 += diff * diff
			}
			cands = append(cands, cand{id: jd, d: math.Sqrt(d2)})
		}
		sort.Slice(cands, func(a, b int) bool {
			if cands[a].d != cands[b].d {
				return cands[a].d < cands[b].d
			}
			return cands[a].id < cands[b].id
		})
		if len(cands) > k {
			cands = cands[:k]
		}
		edges := make([]knng.Edge, len(cands))
		for e, c := range cands {
			edges[e] = knng.Edge{ID: c.id, Dist: c.d}
		}
		out[id] = edges
	}

	return out
}

func randomPoints(n, dims int, seed int64) ([]string, [][]float64) {
	rng := rand.New(rand.NewSource(seed))
	ids := make([]string, n)
	coords := make([][]float64, n)
	for i := range ids {
		ids[i] = "u" + string(rune('A'+i%26)) + string(rune('a'+(i/26)%26)) + string(rune('0'+(i/676)%10))
		row := make([]float64, dims)
		for d := range row {
			row[d] = rng.Float64() * 100
		}
		coords[i] = row
	}
	// Make identifiers unique regardless of n.
	for i := range ids {
		ids[i] = ids[i] + "_" + itoa(i)
	}

	return ids, coords
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var b []byte
	for i > 0 {
		b = append([]byte{byte('0' + i%10)}, b...)
		i /= 10
	}

	return string(b)
}

func graphEdges(t *testing.T, g *knng.Graph) map[string][]knng.Edge {
	t.Helper()
	out := make(map[string][]knng.Edge)
	for _, id := range g.Units() {
		edges, ok := g.Neighbors(id)
		require.True(t, ok)
		out[id] = append([]knng.Edge(nil), edges...)
	}

	return out
}

// TestBuild_OptionValidation covers the structural error sentinels.
func TestBuild_OptionValidation(t *testing.T) {
	ids := []string{"a", "b"}
	coords := [][]float64{{0, 0}, {1, 1}}

	_, err := knng.Build(ids, coords, knng.Options{K: 0})
	assert.ErrorIs(t, err, knng.ErrBadK)

	_, err = knng.Build(ids, coords, knng.Options{K: 1, Prune: true, Radius: -1})
	assert.ErrorIs(t, err, knng.ErrBadRadius)

	_, err = knng.Build(nil, nil, knng.Options{K: 1})
	assert.ErrorIs(t, err, knng.ErrNoCoordinates)

	_, err = knng.Build([]string{"a"}, coords, knng.Options{K: 1})
	assert.ErrorIs(t, err, knng.ErrDimensionMismatch)

	_, err = knng.Build(ids, [][]float64{{0, 0}, {1}}, knng.Options{K: 1})
	assert.ErrorIs(t, err, knng.ErrDimensionMismatch)

	_, err = knng.Build([]string{"a", "a"}, coords, knng.Options{K: 1})
	assert.ErrorIs(t, err, knng.ErrDuplicateID)

	_, err = knng.Build(ids, [][]float64{{0, math.NaN()}, {1, 1}}, knng.Options{K: 1})
	assert.ErrorIs(t, err, knng.ErrNotFinite)
}

// TestBuild_GridMatchesBruteForce verifies the 2D grid path against an
// all-pairs reference on random points.
func TestBuild_GridMatchesBruteForce(t *testing.T) {
	ids, coords := randomPoints(300, 2, 1)
	g, err := knng.Build(ids, coords, knng.Options{K: 7})
	require.NoError(t, err)

	want := bruteforce(ids, coords, 7)
	got := graphEdges(t, g)
	for _, id := range ids {
		require.Len(t, got[id], len(want[id]), "unit %s", id)
		for e := range want[id] {
			assert.Equal(t, want[id][e].ID, got[id][e].ID, "unit %s edge %d", id, e)
			assert.InDelta(t, want[id][e].Dist, got[id][e].Dist, 1e-9)
		}
	}
}

// TestBuild_BoundaryCellQueries verifies 2D queries whose ring scans
// clamp at the grid edge. Dense clusters sit in opposite corner cells
// with k exceeding the cluster size, so every query expands past a
// boundary; rescanning an already-visited boundary row would insert
// duplicate candidates and evict true neighbors.
func TestBuild_BoundaryCellQueries(t *testing.T) {
	ids := []string{
		"c0", "c1", "c2", "c3", "c4", "c5",
		"m1", "m2", "m3",
		"f1", "f2", "f3",
	}
	coords := [][]float64{
		{0, 0}, {1, 0}, {0, 1}, {1, 1}, {2, 1}, {1, 2},
		{50, 50}, {60, 40}, {40, 60},
		{100, 100}, {99, 97}, {97, 99},
	}

	g, err := knng.Build(ids, coords, knng.Options{K: 8})
	require.NoError(t, err)

	want := bruteforce(ids, coords, 8)
	got := graphEdges(t, g)
	for _, id := range ids {
		seen := make(map[string]bool, len(got[id]))
		for _, e := range got[id] {
			assert.False(t, seen[e.ID], "unit %s has duplicate neighbor %s", id, e.ID)
			seen[e.ID] = true
		}
		require.Len(t, got[id], len(want[id]), "unit %s", id)
		for e := range want[id] {
			assert.Equal(t, want[id][e].ID, got[id][e].ID, "unit %s edge %d", id, e)
			assert.InDelta(t, want[id][e].Dist, got[id][e].Dist, 1e-9)
		}
	}
}

// TestBuild_TreeMatchesBruteForce verifies the k-d tree path (used for
// embeddings) against the all-pairs reference in 5 dimensions.
func TestBuild_TreeMatchesBruteForce(t *testing.T) {
	ids, coords := randomPoints(200, 5, 2)
	g, err := knng.Build(ids, coords, knng.Options{K: 5})
	require.NoError(t, err)

	want := bruteforce(ids, coords, 5)
	got := graphEdges(t, g)
	for _, id := range ids {
		require.Len(t, got[id], len(want[id]), "unit %s", id)
		for e := range want[id] {
			assert.Equal(t, want[id][e].ID, got[id][e].ID, "unit %s edge %d", id, e)
			assert.InDelta(t, want[id][e].Dist, got[id][e].Dist, 1e-9)
		}
	}
}

// TestBuild_Deterministic verifies two independent builds over the same
// input produce identical adjacency.
func TestBuild_Deterministic(t *testing.T) {
	ids, coords := randomPoints(500, 2, 3)
	a, err := knng.Build(ids, coords, knng.Options{K: 10})
	require.NoError(t, err)
	b, err := knng.Build(ids, coords, knng.Options{K: 10})
	require.NoError(t, err)

	assert.Equal(t, graphEdges(t, a), graphEdges(t, b))
}

// TestBuild_TiesBreakByIdentifier verifies equidistant neighbors order
// by unit identifier, including duplicate coordinates at distance zero.
func TestBuild_TiesBreakByIdentifier(t *testing.T) {
	ids := []string{"center", "zz", "aa", "mm"}
	coords := [][]float64{{0, 0}, {0, 0}, {0, 0}, {0, 0}}

	g, err := knng.Build(ids, coords, knng.Options{K: 2})
	require.NoError(t, err)

	edges, ok := g.Neighbors("center")
	require.True(t, ok)
	require.Len(t, edges, 2)
	assert.Equal(t, "aa", edges[0].ID)
	assert.Equal(t, "mm", edges[1].ID)
	assert.Equal(t, 0.0, edges[0].Dist)
}

// TestBuild_NoSelfLoops verifies a unit never neighbors itself.
func TestBuild_NoSelfLoops(t *testing.T) {
	ids, coords := randomPoints(50, 2, 4)
	g, err := knng.Build(ids, coords, knng.Options{K: 49})
	require.NoError(t, err)

	for _, id := range ids {
		edges, _ := g.Neighbors(id)
		for _, e := range edges {
			assert.NotEqual(t, id, e.ID)
		}
	}
}

// TestBuild_PruneRemovesOnly verifies pruning only removes edges, all
// surviving edges respect the radius, and zero-neighbor units are kept.
func TestBuild_PruneRemovesOnly(t *testing.T) {
	ids := []string{"a", "b", "c", "far"}
	coords := [][]float64{{0, 0}, {1, 0}, {0, 1}, {100, 100}}

	full, err := knng.Build(ids, coords, knng.Options{K: 3})
	require.NoError(t, err)
	pruned, err := knng.Build(ids, coords, knng.Options{K: 3, Prune: true, Radius: 1.5})
	require.NoError(t, err)

	for _, id := range ids {
		fe, _ := full.Neighbors(id)
		pe, _ := pruned.Neighbors(id)
		assert.LessOrEqual(t, len(pe), len(fe))
		for _, e := range pe {
			assert.LessOrEqual(t, e.Dist, 1.5)
		}
	}
	// "far" loses every neighbor but stays in the graph.
	assert.Equal(t, 0, pruned.Degree("far"))
	_, ok := pruned.Neighbors("far")
	assert.True(t, ok)
}

// TestBuild_PruneMonotonicInRadius verifies a larger radius never drops
// an edge that survived a smaller radius.
func TestBuild_PruneMonotonicInRadius(t *testing.T) {
	ids, coords := randomPoints(120, 2, 5)

	small, err := knng.Build(ids, coords, knng.Options{K: 6, Prune: true, Radius: 5})
	require.NoError(t, err)
	large, err := knng.Build(ids, coords, knng.Options{K: 6, Prune: true, Radius: 20})
	require.NoError(t, err)

	for _, id := range ids {
		se, _ := small.Neighbors(id)
		le, _ := large.Neighbors(id)
		inLarge := make(map[string]bool, len(le))
		for _, e := range le {
			inLarge[e.ID] = true
		}
		for _, e := range se {
			assert.True(t, inLarge[e.ID], "edge %s→%s lost at larger radius", id, e.ID)
		}
	}
}

// TestBuild_FewerPointsThanK verifies graceful behavior when n-1 < k.
func TestBuild_FewerPointsThanK(t *testing.T) {
	g, err := knng.Build([]string{"a", "b"}, [][]float64{{0, 0}, {3, 4}}, knng.Options{K: 10})
	require.NoError(t, err)

	edges, _ := g.Neighbors("a")
	require.Len(t, edges, 1)
	assert.Equal(t, "b", edges[0].ID)
	assert.InDelta(t, 5.0, edges[0].Dist, 1e-12)
}

// TestGraph_UnknownUnit verifies lookups for absent units.
func TestGraph_UnknownUnit(t *testing.T) {
	g, err := knng.Build([]string{"a", "b"}, [][]float64{{0, 0}, {1, 1}}, knng.Options{K: 1})
	require.NoError(t, err)

	_, ok := g.Neighbors("zzz")
	assert.False(t, ok)
	assert.Equal(t, 0, g.Degree("zzz"))
}
