package decomp

import "fmt"

// weightSumTolerance absorbs floating-point drift when checking that
// weight_first + weight_second does not exceed 1.
const weightSumTolerance = 1e-9

// Normalize validates rows and produces the unit→Record map consumed
// by the purifier and aggregator. knownType reports whether a cell
// type identifier exists in the reference; a nil knownType accepts
// every non-empty type.
//
// Any structural violation returns ErrMalformedDecomposition (wrapped
// with detail) and no partial map.
//
// Complexity: O(rows).
func Normalize(rows []Row, knownType func(string) bool) (map[string]Record, error) {
	if knownType == nil {
		knownType = func(string) bool { return true }
	}

	records := make(map[string]Record, len(rows))
	for i, row := range rows {
		if row.UnitID == "" {
			return nil, fmt.Errorf("%w: row %d has empty unit_id", ErrMalformedDecomposition, i)
		}
		if _, dup := records[row.UnitID]; dup {
			return nil, fmt.Errorf("%w: duplicate unit %q", ErrMalformedDecomposition, row.UnitID)
		}

		class, err := ParseSpotClass(row.SpotClass)
		if err != nil {
			return nil, fmt.Errorf("unit %q: %w", row.UnitID, err)
		}

		if err = checkWeight(row.UnitID, "weight_first", row.WeightFirst); err != nil {
			return nil, err
		}
		if err = checkWeight(row.UnitID, "weight_second", row.WeightSecond); err != nil {
			return nil, err
		}
		if row.WeightFirst+row.WeightSecond > 1+weightSumTolerance {
			return nil, fmt.Errorf("%w: unit %q weights sum to %g > 1",
				ErrMalformedDecomposition, row.UnitID, row.WeightFirst+row.WeightSecond)
		}

		// Rejects carry no trustworthy type assignment; skip type checks.
		if class != Reject {
			if row.FirstType == "" {
				return nil, fmt.Errorf("%w: unit %q has empty first_type",
					ErrMalformedDecomposition, row.UnitID)
			}
			if !knownType(row.FirstType) {
				return nil, fmt.Errorf("%w: unit %q references unknown type %q",
					ErrMalformedDecomposition, row.UnitID, row.FirstType)
			}
			if row.SecondType != "" && !knownType(row.SecondType) {
				return nil, fmt.Errorf("%w: unit %q references unknown type %q",
					ErrMalformedDecomposition, row.UnitID, row.SecondType)
			}
		}

		records[row.UnitID] = Record{
			Class:        class,
			FirstType:    row.FirstType,
			SecondType:   row.SecondType,
			WeightFirst:  row.WeightFirst,
			WeightSecond: row.WeightSecond,
			Confidence:   row.Confidence,
		}
	}

	return records, nil
}

// checkWeight validates a single mixture weight against [0,1].
func checkWeight(unit, name string, w float64) error {
	if w < 0 || w > 1 {
		return fmt.Errorf("%w: unit %q %s = %g outside [0,1]",
			ErrMalformedDecomposition, unit, name, w)
	}

	return nil
}
