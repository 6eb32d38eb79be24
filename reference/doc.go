// Package reference holds one mean expression profile per cell type,
// used to estimate each type's expected contribution to a contaminated
// unit.
//
// What:
//
//   - Store maps cell-type identifiers to nonnegative mean expression
//     vectors over the shared gene set.
//   - Normalized returns the unit-sum view of a profile — the shape of
//     the type's expression, scaled by the purifier to the unit's
//     library size.
//
// Why:
//
//   - Purification subtracts weight_second × library_size × shape(type)
//     from the raw counts; the Store pre-computes shape(type) once so
//     the hot per-unit path is a single fused subtract.
//
// Invariants:
//
//   - Every profile has exactly one entry per gene, finite and ≥ 0.
//   - A missing type is not an error at construction: Has lets callers
//     recover per unit (MissingReference status) instead of aborting.
//
// Errors:
//
//   - ErrDimensionMismatch, ErrNegativeValue, ErrNotFinite, ErrEmptyType
//     at construction; ErrZeroProfile for an all-zero profile (no shape
//     to normalize).
//
// Complexity: construction O(types×genes); lookups O(1).
package reference
