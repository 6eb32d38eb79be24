// Package expr provides the gene-by-unit expression matrix used as the
// interchange format between all SPLIT stages.
//
// What:
//
//   - Matrix wraps a dense gene×unit matrix (gonum mat.Dense) together
//     with stable gene and unit identifier indices.
//   - Rows are genes, columns are units; entries are nonnegative counts
//     (or near-integer count estimates).
//   - Column accessors return copies; a Matrix is never mutated after
//     construction except through SetColumn during assembly.
//
// Why:
//
//   - Upstream loaders hand SPLIT raw counts keyed by gene and unit
//     identifiers; downstream consumers expect the same keying back.
//   - Identifier→index maps give O(1) lookup without imposing any
//     ordering convention on callers.
//
// Invariants:
//
//   - Gene and unit identifiers are unique and non-empty.
//   - All entries are finite and ≥ 0 (validated on construction).
//
// Errors:
//
//   - ErrDimensionMismatch: data shape disagrees with identifier lists.
//   - ErrDuplicateID: repeated gene or unit identifier.
//   - ErrEmptyID: empty gene or unit identifier.
//   - ErrNegativeValue: a count entry is < 0.
//   - ErrNotFinite: a count entry is NaN or ±Inf.
//   - ErrUnknownUnit / ErrUnknownGene: lookup by absent identifier.
//
// Complexity: construction O(G×U) validation; lookups O(1);
// column copy O(G).
package expr
