// Package purify implements decomposition-based signal separation: it
// subtracts the estimated contribution of a unit's secondary cell type
// from its raw counts.
//
// What:
//
//   - One purifies a single unit given its raw counts, decomposition
//     record and the reference profile store.
//   - All runs One over every unit of a count matrix in parallel,
//     chunked, with output guaranteed identical for any worker count
//     or chunk size.
//
// Algorithm (per unit):
//
//	contamination = weight_second × library_size(raw) × shape(second_type)
//	purified      = clamp_at_zero(raw − contamination)
//
// where shape(t) is the unit-sum normalized reference profile of t.
// The purified library size is allowed to shrink — removed signal is
// gone, not redistributed.
//
// Policy by spot class:
//
//   - reject            — excluded entirely (StatusExcludedReject).
//   - doublet (both)    — purified whenever a secondary signal exists.
//   - singlet w/ signal — purified only when Options.PurifySinglets.
//   - no secondary      — passed through unchanged.
//
// A missing reference profile for the needed secondary type is
// recovered per unit: the unit passes through raw with
// StatusMissingReference and never aborts the batch.
//
// Errors:
//
//   - ErrNilStore: purification required but no store supplied.
//   - ErrLengthMismatch: raw counts disagree with the reference gene set.
//
// Complexity: One O(G); All O(U×G / workers).
package purify
