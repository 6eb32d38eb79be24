package expr

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Matrix is a dense gene-by-unit count matrix with identifier indices.
// Rows correspond to genes, columns to units.
type Matrix struct {
	genes     []string
	units     []string
	geneIndex map[string]int
	unitIndex map[string]int
	data      *mat.Dense
}

// New builds a Matrix from row-major data (len == len(genes)*len(units)).
// Identifiers must be unique and non-empty; entries must be finite and ≥ 0.
//
// Complexity: O(G×U).
func New(genes, units []string, data []float64) (*Matrix, error) {
	if len(data) != len(genes)*len(units) {
		return nil, fmt.Errorf("%w: got %d values for %d×%d",
			ErrDimensionMismatch, len(data), len(genes), len(units))
	}
	geneIndex, err := buildIndex(genes)
	if err != nil {
		return nil, fmt.Errorf("%w (genes)", err)
	}
	unitIndex, err := buildIndex(units)
	if err != nil {
		return nil, fmt.Errorf("%w (units)", err)
	}
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: entry %d", ErrNotFinite, i)
		}
		if v < 0 {
			return nil, fmt.Errorf("%w: entry %d = %g", ErrNegativeValue, i, v)
		}
	}

	return &Matrix{
		genes:     append([]string(nil), genes...),
		units:     append([]string(nil), units...),
		geneIndex: geneIndex,
		unitIndex: unitIndex,
		data:      newDense(len(genes), len(units), append([]float64(nil), data...)),
	}, nil
}

// NewZero builds an all-zero Matrix over the given identifiers,
// intended to be filled via SetColumn during assembly.
func NewZero(genes, units []string) (*Matrix, error) {
	geneIndex, err := buildIndex(genes)
	if err != nil {
		return nil, fmt.Errorf("%w (genes)", err)
	}
	unitIndex, err := buildIndex(units)
	if err != nil {
		return nil, fmt.Errorf("%w (units)", err)
	}

	return &Matrix{
		genes:     append([]string(nil), genes...),
		units:     append([]string(nil), units...),
		geneIndex: geneIndex,
		unitIndex: unitIndex,
		data:      newDense(len(genes), len(units), nil),
	}, nil
}

// newDense allows empty matrices: mat.NewDense panics on a zero
// dimension, but a run that drops every unit still needs a valid
// (empty) result container.
func newDense(rows, cols int, data []float64) *mat.Dense {
	if rows == 0 || cols == 0 {
		return nil
	}

	return mat.NewDense(rows, cols, data)
}

// buildIndex maps identifiers to positions, rejecting empties and duplicates.
func buildIndex(ids []string) (map[string]int, error) {
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		if id == "" {
			return nil, fmt.Errorf("%w: position %d", ErrEmptyID, i)
		}
		if _, seen := index[id]; seen {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, id)
		}
		index[id] = i
	}

	return index, nil
}

// NumGenes returns the number of genes (rows).
func (m *Matrix) NumGenes() int { return len(m.genes) }

// NumUnits returns the number of units (columns).
func (m *Matrix) NumUnits() int { return len(m.units) }

// Genes returns the gene identifiers in row order (copy).
func (m *Matrix) Genes() []string { return append([]string(nil), m.genes...) }

// Units returns the unit identifiers in column order (copy).
func (m *Matrix) Units() []string { return append([]string(nil), m.units...) }

// HasUnit reports whether the unit identifier exists.
func (m *Matrix) HasUnit(unit string) bool {
	_, ok := m.unitIndex[unit]
	return ok
}

// At returns the count for (gene, unit).
func (m *Matrix) At(gene, unit string) (float64, error) {
	gi, ok := m.geneIndex[gene]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownGene, gene)
	}
	ui, ok := m.unitIndex[unit]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
	}

	return m.data.At(gi, ui), nil
}

// Column returns a copy of the unit's count vector over all genes.
func (m *Matrix) Column(unit string) ([]float64, error) {
	ui, ok := m.unitIndex[unit]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
	}
	out := make([]float64, len(m.genes))
	if m.data != nil {
		mat.Col(out, ui, m.data)
	}

	return out, nil
}

// SetColumn overwrites the unit's count vector. The vector length must
// equal NumGenes; entries must be finite and ≥ 0.
func (m *Matrix) SetColumn(unit string, counts []float64) error {
	ui, ok := m.unitIndex[unit]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
	}
	if len(counts) != len(m.genes) {
		return fmt.Errorf("%w: got %d values for %d genes",
			ErrDimensionMismatch, len(counts), len(m.genes))
	}
	for i, v := range counts {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: entry %d", ErrNotFinite, i)
		}
		if v < 0 {
			return fmt.Errorf("%w: entry %d = %g", ErrNegativeValue, i, v)
		}
	}
	if m.data != nil {
		m.data.SetCol(ui, counts)
	}

	return nil
}

// LibrarySize returns the unit's total count across all genes.
func (m *Matrix) LibrarySize(unit string) (float64, error) {
	col, err := m.Column(unit)
	if err != nil {
		return 0, err
	}

	return floats.Sum(col), nil
}

// Dense exposes the underlying matrix for read-only numeric consumers.
// Callers must not mutate the returned value. nil when either
// dimension is empty.
func (m *Matrix) Dense() *mat.Dense { return m.data }
