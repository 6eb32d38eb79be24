package reference

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrDimensionMismatch indicates a profile length differing from the gene set.
	ErrDimensionMismatch = errors.New("reference: profile length does not match gene set")

	// ErrNegativeValue indicates a negative profile entry.
	ErrNegativeValue = errors.New("reference: negative profile value")

	// ErrNotFinite indicates a NaN or ±Inf profile entry.
	ErrNotFinite = errors.New("reference: non-finite profile value")

	// ErrEmptyType indicates an empty cell-type identifier.
	ErrEmptyType = errors.New("reference: empty cell-type identifier")

	// ErrZeroProfile indicates an all-zero profile, which has no
	// expression shape to scale contamination by.
	ErrZeroProfile = errors.New("reference: profile sums to zero")

	// ErrUnknownType indicates a lookup for a type absent from the store.
	ErrUnknownType = errors.New("reference: unknown cell type")
)

// Store is an immutable cell-type → mean expression profile map over a
// fixed gene set. Built once, read-only thereafter; safe for
// concurrent readers.
type Store struct {
	genes      []string
	profiles   map[string][]float64
	normalized map[string][]float64 // unit-sum views, precomputed
}

// NewStore validates and indexes the given profiles. Each profile must
// have one finite, nonnegative entry per gene and a positive total.
//
// Complexity: O(types×genes).
func NewStore(genes []string, profiles map[string][]float64) (*Store, error) {
	s := &Store{
		genes:      append([]string(nil), genes...),
		profiles:   make(map[string][]float64, len(profiles)),
		normalized: make(map[string][]float64, len(profiles)),
	}
	for typ, profile := range profiles {
		if typ == "" {
			return nil, ErrEmptyType
		}
		if len(profile) != len(genes) {
			return nil, fmt.Errorf("%w: type %q has %d entries for %d genes",
				ErrDimensionMismatch, typ, len(profile), len(genes))
		}
		for i, v := range profile {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: type %q gene %q", ErrNotFinite, typ, genes[i])
			}
			if v < 0 {
				return nil, fmt.Errorf("%w: type %q gene %q = %g", ErrNegativeValue, typ, genes[i], v)
			}
		}
		total := floats.Sum(profile)
		if total == 0 {
			return nil, fmt.Errorf("%w: type %q", ErrZeroProfile, typ)
		}

		own := append([]float64(nil), profile...)
		norm := append([]float64(nil), profile...)
		floats.Scale(1/total, norm)
		s.profiles[typ] = own
		s.normalized[typ] = norm
	}

	return s, nil
}

// Genes returns the gene identifiers in profile order (copy).
func (s *Store) Genes() []string { return append([]string(nil), s.genes...) }

// Types returns the stored cell types in sorted order.
func (s *Store) Types() []string {
	out := make([]string, 0, len(s.profiles))
	for typ := range s.profiles {
		out = append(out, typ)
	}
	sort.Strings(out)

	return out
}

// Has reports whether a profile exists for the cell type.
func (s *Store) Has(typ string) bool {
	_, ok := s.profiles[typ]
	return ok
}

// Profile returns a copy of the raw mean expression profile.
func (s *Store) Profile(typ string) ([]float64, error) {
	p, ok := s.profiles[typ]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}

	return append([]float64(nil), p...), nil
}

// Normalized returns the unit-sum expression shape of the cell type.
// The returned slice is shared and must not be mutated; the purifier
// reads it on its hot path.
func (s *Store) Normalized(typ string) ([]float64, error) {
	p, ok := s.normalized[typ]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}

	return p, nil
}
