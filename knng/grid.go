package knng

import "math"

// gridIndex is a uniform bucket grid over 2D coordinates. Cell size is
// chosen so the expected occupancy is one point per cell; queries
// expand outward in rings and stop once no unscanned cell can hold a
// closer candidate than the current kth.
type gridIndex struct {
	ids        []string
	xs, ys     []float64
	minX, minY float64
	cellSize   float64
	gridW      int
	gridH      int
	head       []int // cell → first point index, -1 when empty
	next       []int // point → next point in the same cell
}

func newGridIndex(ids []string, coords [][]float64) *gridIndex {
	n := len(coords)
	g := &gridIndex{
		ids: ids,
		xs:  make([]float64, n),
		ys:  make([]float64, n),
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i, c := range coords {
		g.xs[i], g.ys[i] = c[0], c[1]
		minX = math.Min(minX, c[0])
		maxX = math.Max(maxX, c[0])
		minY = math.Min(minY, c[1])
		maxY = math.Max(maxY, c[1])
	}
	g.minX, g.minY = minX, minY

	width := maxX - minX
	height := maxY - minY
	g.cellSize = math.Sqrt(width * height / float64(n))
	if !(g.cellSize > 0) {
		// Degenerate extent (collinear or identical points): a single
		// row/column of cells still works.
		g.cellSize = math.Max(width, height) / float64(n)
		if !(g.cellSize > 0) {
			g.cellSize = 1
		}
	}
	g.gridW = clampInt(int(math.Ceil(width/g.cellSize)), 1, n)
	g.gridH = clampInt(int(math.Ceil(height/g.cellSize)), 1, n)

	g.head = make([]int, g.gridW*g.gridH)
	for i := range g.head {
		g.head[i] = -1
	}
	g.next = make([]int, n)
	for i := 0; i < n; i++ {
		cell := g.cellOf(g.xs[i], g.ys[i])
		g.next[i] = g.head[cell]
		g.head[cell] = i
	}

	return g
}

func (g *gridIndex) cellOf(x, y float64) int {
	gx := clampInt(int((x-g.minX)/g.cellSize), 0, g.gridW-1)
	gy := clampInt(int((y-g.minY)/g.cellSize), 0, g.gridH-1)

	return gy*g.gridW + gx
}

// nearest scans rings of cells around the query point, keeping a
// bounded top-k. The loop ends when every unscanned cell lies strictly
// farther than the kth candidate, so equal-distance boundary ties are
// always scanned before breaking.
func (g *gridIndex) nearest(q, k int) []ranked {
	top := newTopK(g.ids, k)
	px, py := g.xs[q], g.ys[q]
	centerGX := clampInt(int((px-g.minX)/g.cellSize), 0, g.gridW-1)
	centerGY := clampInt(int((py-g.minY)/g.cellSize), 0, g.gridH-1)

	// Bounds of the previous ring's clamped block; cells inside it were
	// already scanned. Clamping makes the block asymmetric near grid
	// edges, so "interior of the current block" is not a usable proxy.
	prevMinGX, prevMaxGX := 0, -1
	prevMinGY, prevMaxGY := 0, -1

	for ring := 0; ; ring++ {
		minGX := maxInt(centerGX-ring, 0)
		maxGX := minInt(centerGX+ring, g.gridW-1)
		minGY := maxInt(centerGY-ring, 0)
		maxGY := minInt(centerGY+ring, g.gridH-1)

		for gy := minGY; gy <= maxGY; gy++ {
			row := gy * g.gridW
			for gx := minGX; gx <= maxGX; gx++ {
				if gx >= prevMinGX && gx <= prevMaxGX && gy >= prevMinGY && gy <= prevMaxGY {
					continue
				}
				for j := g.head[row+gx]; j != -1; j = g.next[j] {
					if j == q {
						continue
					}
					dx := px - g.xs[j]
					dy := py - g.ys[j]
					top.add(dx*dx+dy*dy, j)
				}
			}
		}

		if top.full() {
			outside := g.minDistToOutside(px, py, minGX, maxGX, minGY, maxGY)
			if outside > top.worst() {
				break
			}
		}
		if minGX == 0 && maxGX == g.gridW-1 && minGY == 0 && maxGY == g.gridH-1 {
			break
		}
		prevMinGX, prevMaxGX = minGX, maxGX
		prevMinGY, prevMaxGY = minGY, maxGY
	}

	return top.sorted()
}

// minDistToOutside returns the squared distance from (px,py) to the
// nearest cell outside the scanned [minGX..maxGX]×[minGY..maxGY] block,
// +Inf when the block covers the whole grid.
func (g *gridIndex) minDistToOutside(px, py float64, minGX, maxGX, minGY, maxGY int) float64 {
	minDist := math.Inf(1)
	if minGX > 0 {
		minDist = math.Min(minDist, px-(g.minX+float64(minGX)*g.cellSize))
	}
	if maxGX < g.gridW-1 {
		minDist = math.Min(minDist, g.minX+float64(maxGX+1)*g.cellSize-px)
	}
	if minGY > 0 {
		minDist = math.Min(minDist, py-(g.minY+float64(minGY)*g.cellSize))
	}
	if maxGY < g.gridH-1 {
		minDist = math.Min(minDist, g.minY+float64(maxGY+1)*g.cellSize-py)
	}
	if math.IsInf(minDist, 1) {
		return minDist
	}
	minDist = math.Max(minDist, 0)

	return minDist * minDist
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}

	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}

	return b
}
