// Package decomp normalizes external reference-based decomposition
// results into the per-unit records consumed by the SPLIT core.
//
// What:
//
//   - Row mirrors one line of the external decomposition table
//     (unit_id, spot_class, first_type, second_type, weights, confidence).
//   - Record is the validated, immutable per-unit form used downstream.
//   - Normalize converts a slice of Rows into a unit→Record map with
//     strict structural validation.
//
// Why:
//
//   - The decomposition algorithm is a black box; its table is the only
//     contract. Downstream correctness depends on that table being
//     structurally sound, so malformed input aborts the whole run
//     before any output exists.
//
// Validation rules (each violation ⇒ ErrMalformedDecomposition):
//
//   - every row has a known spot class,
//   - weights lie in [0,1] and weight_first+weight_second ≤ 1+ε,
//   - referenced cell types are accepted by the caller's type check,
//   - no unit appears twice.
//
// Units absent from the table are simply absent from the map: they are
// excluded from purification, never zero-filled.
//
// Complexity: O(rows).
package decomp
