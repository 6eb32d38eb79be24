package purify

import (
	"sort"
	"sync"

	"github.com/koetjen/SPLIT/decomp"
	"github.com/koetjen/SPLIT/expr"
	"github.com/koetjen/SPLIT/reference"
)

// All purifies every unit of counts that has a decomposition record.
// Units without a record are excluded (unknown units, not zero-filled);
// rejects are excluded from the returned map.
//
// Work is split into contiguous chunks over the sorted unit-id list
// and distributed across opts.Workers goroutines. Each unit's result
// is written to its own preassigned slot, so the output is identical
// for every worker count and chunk size.
//
// The first per-unit structural error (in sorted unit order) aborts
// with no partial map. Missing reference profiles are not errors;
// they surface as StatusMissingReference entries.
//
// Complexity: O(U×G / workers) time, O(U×G) memory.
func All(counts *expr.Matrix, records map[string]decomp.Record, store *reference.Store, opts Options) (map[string]Profile, error) {
	opts = opts.normalized()

	// Sorted ids give a stable chunking and a deterministic
	// first-error selection.
	ids := make([]string, 0, len(records))
	for _, id := range counts.Units() {
		if _, ok := records[id]; ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	profiles := make([]Profile, len(ids))
	errs := make([]error, len(ids))

	type chunk struct{ lo, hi int }
	chunks := make(chan chunk)
	var wg sync.WaitGroup
	for w := 0; w < opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range chunks {
				for i := c.lo; i < c.hi; i++ {
					raw, err := counts.Column(ids[i])
					if err != nil {
						errs[i] = err
						continue
					}
					profiles[i], errs[i] = One(raw, records[ids[i]], store, opts)
				}
			}
		}()
	}
	for lo := 0; lo < len(ids); lo += opts.ChunkSize {
		hi := lo + opts.ChunkSize
		if hi > len(ids) {
			hi = len(ids)
		}
		chunks <- chunk{lo: lo, hi: hi}
	}
	close(chunks)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	out := make(map[string]Profile, len(ids))
	for i, id := range ids {
		if profiles[i].Status == StatusExcludedReject {
			continue
		}
		out[id] = profiles[i]
	}

	return out, nil
}
