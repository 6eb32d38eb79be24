package purify

import (
	"errors"

	"gonum.org/v1/gonum/floats"

	"github.com/koetjen/SPLIT/decomp"
	"github.com/koetjen/SPLIT/reference"
)

// One purifies a single unit according to its decomposition record.
// raw is never mutated; the returned Profile owns its counts.
//
// Per-unit recovery: a missing reference profile for the secondary
// type yields StatusMissingReference with raw counts passed through —
// it is not an error. Structural problems (nil store, length mismatch)
// are errors.
//
// Complexity: O(G).
func One(raw []float64, rec decomp.Record, store *reference.Store, opts Options) (Profile, error) {
	switch {
	case rec.Class == decomp.Reject:
		return Profile{Status: StatusExcludedReject}, nil
	case !rec.HasSecond():
		return passThrough(raw, StatusUnchanged), nil
	case rec.Class == decomp.Singlet && !opts.PurifySinglets:
		return passThrough(raw, StatusUnchanged), nil
	}

	counts, status, err := Subtract(raw, rec, store)
	if err != nil {
		return Profile{}, err
	}

	return Profile{Counts: counts, Status: status}, nil
}

// Subtract computes the purified count vector for a unit with a usable
// secondary signal, ignoring spot-class policy. The balancer uses this
// directly when a neighborhood override demands purification of a unit
// the default policy passed through.
//
// Returns StatusMissingReference with raw copied through when the
// secondary type has no profile.
func Subtract(raw []float64, rec decomp.Record, store *reference.Store) ([]float64, Status, error) {
	if store == nil {
		return nil, 0, ErrNilStore
	}
	shape, err := store.Normalized(rec.SecondType)
	if err != nil {
		if errors.Is(err, reference.ErrUnknownType) {
			out := passThrough(raw, StatusMissingReference)
			return out.Counts, out.Status, nil
		}

		return nil, 0, err
	}
	if len(raw) != len(shape) {
		return nil, 0, ErrLengthMismatch
	}

	// contamination[i] = weight_second * libSize * shape[i];
	// clamp at zero — counts cannot go negative.
	scale := rec.WeightSecond * floats.Sum(raw)
	out := make([]float64, len(raw))
	for i, v := range raw {
		v -= scale * shape[i]
		if v < 0 {
			v = 0
		}
		out[i] = v
	}

	return out, StatusPurified, nil
}

// passThrough copies raw into a Profile with the given status.
func passThrough(raw []float64, status Status) Profile {
	return Profile{
		Counts: append([]float64(nil), raw...),
		Status: status,
	}
}
