package neighborhood

import (
	"math"

	"github.com/koetjen/SPLIT/decomp"
	"github.com/koetjen/SPLIT/knng"
)

// Score is a per-unit neighborhood statistic. NaN is the sentinel for
// "undefined" (no usable neighbors); use Defined before comparing.
type Score float64

// Undefined returns the undefined-score sentinel.
func Undefined() Score { return Score(math.NaN()) }

// Defined reports whether the score carries a value.
func (s Score) Defined() bool { return !math.IsNaN(float64(s)) }

// MetricFunc maps a neighbor's decomposition record to a contribution.
type MetricFunc func(neighbor decomp.Record) float64

// PairMetricFunc maps (unit record, neighbor record) to a contribution,
// for metrics relative to the unit's own assignment.
type PairMetricFunc func(self, neighbor decomp.Record) float64

// SecondWeight scores a neighbor by its secondary-type weight — the
// spatial diffusion signal: contamination in a unit is corroborated by
// secondary signal in its surroundings.
func SecondWeight(neighbor decomp.Record) float64 { return neighbor.WeightSecond }

// TypeMatch returns a metric indicating whether a neighbor's primary
// type equals the given type.
func TypeMatch(typ string) MetricFunc {
	return func(neighbor decomp.Record) float64 {
		if neighbor.FirstType == typ {
			return 1
		}

		return 0
	}
}

// FirstTypeHomogeneity indicates whether a neighbor's primary type
// matches the unit's own primary type.
func FirstTypeHomogeneity(self, neighbor decomp.Record) float64 {
	if self.FirstType != "" && neighbor.FirstType == self.FirstType {
		return 1
	}

	return 0
}

// SecondTypeHomogeneity indicates whether a neighbor's primary type
// matches the unit's secondary type — the label-swap evidence.
func SecondTypeHomogeneity(self, neighbor decomp.Record) float64 {
	if self.SecondType != "" && neighbor.FirstType == self.SecondType {
		return 1
	}

	return 0
}

// Aggregate computes, for every unit of the graph, the unweighted mean
// of metric over its neighbors. Neighbors without a record are
// skipped; zero usable neighbors ⇒ undefined Score.
//
// Complexity: O(Σ degree).
func Aggregate(g *knng.Graph, records map[string]decomp.Record, metric MetricFunc) map[string]Score {
	out := make(map[string]Score)
	for _, id := range g.Units() {
		edges, _ := g.Neighbors(id)
		sum, n := 0.0, 0
		for _, e := range edges {
			rec, ok := records[e.ID]
			if !ok {
				continue
			}
			sum += metric(rec)
			n++
		}
		if n == 0 {
			out[id] = Undefined()
			continue
		}
		out[id] = Score(sum / float64(n))
	}

	return out
}

// AggregatePair is Aggregate with the unit's own record in scope.
// Units without a record of their own receive an undefined Score.
func AggregatePair(g *knng.Graph, records map[string]decomp.Record, metric PairMetricFunc) map[string]Score {
	out := make(map[string]Score)
	for _, id := range g.Units() {
		self, ok := records[id]
		if !ok {
			out[id] = Undefined()
			continue
		}
		edges, _ := g.Neighbors(id)
		sum, n := 0.0, 0
		for _, e := range edges {
			rec, recOK := records[e.ID]
			if !recOK {
				continue
			}
			sum += metric(self, rec)
			n++
		}
		if n == 0 {
			out[id] = Undefined()
			continue
		}
		out[id] = Score(sum / float64(n))
	}

	return out
}
