package expr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koetjen/SPLIT/expr"
)

// TestNew_Valid verifies basic construction and accessor round-trips.
func TestNew_Valid(t *testing.T) {
	m, err := expr.New(
		[]string{"g1", "g2"},
		[]string{"u1", "u2", "u3"},
		[]float64{
			1, 2, 3,
			4, 5, 6,
		},
	)
	require.NoError(t, err)

	assert.Equal(t, 2, m.NumGenes())
	assert.Equal(t, 3, m.NumUnits())
	assert.Equal(t, []string{"g1", "g2"}, m.Genes())
	assert.True(t, m.HasUnit("u2"))
	assert.False(t, m.HasUnit("nope"))

	v, err := m.At("g2", "u3")
	require.NoError(t, err)
	assert.Equal(t, 6.0, v)

	col, err := m.Column("u2")
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 5}, col)

	size, err := m.LibrarySize("u1")
	require.NoError(t, err)
	assert.Equal(t, 5.0, size)
}

// TestNew_ShapeMismatch verifies ErrDimensionMismatch on bad data length.
func TestNew_ShapeMismatch(t *testing.T) {
	_, err := expr.New([]string{"g1"}, []string{"u1", "u2"}, []float64{1})
	assert.ErrorIs(t, err, expr.ErrDimensionMismatch)
}

// TestNew_DuplicateAndEmptyIDs verifies identifier validation.
func TestNew_DuplicateAndEmptyIDs(t *testing.T) {
	_, err := expr.New([]string{"g1", "g1"}, []string{"u1"}, []float64{1, 2})
	assert.ErrorIs(t, err, expr.ErrDuplicateID)

	_, err = expr.New([]string{"g1"}, []string{""}, []float64{1})
	assert.ErrorIs(t, err, expr.ErrEmptyID)
}

// TestNew_BadValues verifies negative and non-finite entry rejection.
func TestNew_BadValues(t *testing.T) {
	_, err := expr.New([]string{"g1"}, []string{"u1"}, []float64{-1})
	assert.ErrorIs(t, err, expr.ErrNegativeValue)

	nan := 0.0
	nan /= nan
	_, err = expr.New([]string{"g1"}, []string{"u1"}, []float64{nan})
	assert.ErrorIs(t, err, expr.ErrNotFinite)
}

// TestSetColumn verifies column assembly on a zero matrix and its guards.
func TestSetColumn(t *testing.T) {
	m, err := expr.NewZero([]string{"g1", "g2"}, []string{"u1"})
	require.NoError(t, err)

	require.NoError(t, m.SetColumn("u1", []float64{7, 8}))
	col, err := m.Column("u1")
	require.NoError(t, err)
	assert.Equal(t, []float64{7, 8}, col)

	assert.ErrorIs(t, m.SetColumn("u1", []float64{1}), expr.ErrDimensionMismatch)
	assert.ErrorIs(t, m.SetColumn("u1", []float64{1, -2}), expr.ErrNegativeValue)
	assert.ErrorIs(t, m.SetColumn("zzz", []float64{1, 2}), expr.ErrUnknownUnit)
}

// TestNewZero_EmptyDimensions verifies matrices with no units (or no
// genes) construct cleanly: a pass that drops every unit still needs a
// valid empty result container.
func TestNewZero_EmptyDimensions(t *testing.T) {
	m, err := expr.NewZero([]string{"g1", "g2"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, m.NumUnits())
	assert.Empty(t, m.Units())
	assert.Nil(t, m.Dense())
	_, err = m.Column("u1")
	assert.ErrorIs(t, err, expr.ErrUnknownUnit)

	m, err = expr.New(nil, []string{"u1"}, nil)
	require.NoError(t, err)
	col, err := m.Column("u1")
	require.NoError(t, err)
	assert.Empty(t, col)
	require.NoError(t, m.SetColumn("u1", nil))
}

// TestColumn_IsCopy verifies mutating a returned column does not leak
// into the matrix.
func TestColumn_IsCopy(t *testing.T) {
	m, err := expr.New([]string{"g1"}, []string{"u1"}, []float64{3})
	require.NoError(t, err)

	col, err := m.Column("u1")
	require.NoError(t, err)
	col[0] = 99

	v, err := m.At("g1", "u1")
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)
}
