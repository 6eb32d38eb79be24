package reference_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koetjen/SPLIT/reference"
)

// TestNewStore_Valid verifies construction, lookup and normalization.
func TestNewStore_Valid(t *testing.T) {
	s, err := reference.NewStore(
		[]string{"g1", "g2"},
		map[string][]float64{
			"A": {200, 300},
			"B": {120, 180},
		},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, s.Types())
	assert.True(t, s.Has("A"))
	assert.False(t, s.Has("C"))

	p, err := s.Profile("B")
	require.NoError(t, err)
	assert.Equal(t, []float64{120, 180}, p)

	n, err := s.Normalized("B")
	require.NoError(t, err)
	assert.InDelta(t, 0.4, n[0], 1e-12)
	assert.InDelta(t, 0.6, n[1], 1e-12)

	_, err = s.Profile("C")
	assert.ErrorIs(t, err, reference.ErrUnknownType)
}

// TestNewStore_Validation covers each construction-time rejection.
func TestNewStore_Validation(t *testing.T) {
	genes := []string{"g1", "g2"}

	_, err := reference.NewStore(genes, map[string][]float64{"A": {1}})
	assert.ErrorIs(t, err, reference.ErrDimensionMismatch)

	_, err = reference.NewStore(genes, map[string][]float64{"A": {1, -1}})
	assert.ErrorIs(t, err, reference.ErrNegativeValue)

	_, err = reference.NewStore(genes, map[string][]float64{"A": {1, math.Inf(1)}})
	assert.ErrorIs(t, err, reference.ErrNotFinite)

	_, err = reference.NewStore(genes, map[string][]float64{"A": {0, 0}})
	assert.ErrorIs(t, err, reference.ErrZeroProfile)

	_, err = reference.NewStore(genes, map[string][]float64{"": {1, 1}})
	assert.ErrorIs(t, err, reference.ErrEmptyType)
}

// TestProfile_IsCopy verifies callers cannot mutate stored profiles.
func TestProfile_IsCopy(t *testing.T) {
	s, err := reference.NewStore([]string{"g1"}, map[string][]float64{"A": {5}})
	require.NoError(t, err)

	p, err := s.Profile("A")
	require.NoError(t, err)
	p[0] = 0

	p2, err := s.Profile("A")
	require.NoError(t, err)
	assert.Equal(t, 5.0, p2[0])
}
