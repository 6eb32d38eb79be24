package knng_test

import (
	"math/rand"
	"testing"

	"github.com/koetjen/SPLIT/knng"
)

// benchPoints builds n points in dims dimensions with a fixed seed.
func benchPoints(n, dims int) ([]string, [][]float64) {
	rng := rand.New(rand.NewSource(42))
	ids := make([]string, n)
	coords := make([][]float64, n)
	for i := range ids {
		ids[i] = "u" + itoa(i)
		row := make([]float64, dims)
		for d := range row {
			row[d] = rng.Float64() * 1000
		}
		coords[i] = row
	}

	return ids, coords
}

// BenchmarkBuild_Grid2D measures grid-indexed construction over 2D
// spatial coordinates.
func BenchmarkBuild_Grid2D(b *testing.B) {
	ids, coords := benchPoints(20000, 2)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := knng.Build(ids, coords, knng.Options{K: 20}); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkBuild_Tree10D measures k-d tree construction over a
// 10-component embedding.
func BenchmarkBuild_Tree10D(b *testing.B) {
	ids, coords := benchPoints(5000, 10)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := knng.Build(ids, coords, knng.Options{K: 20}); err != nil {
			b.Fatal(err)
		}
	}
}
