// Package knng builds k-nearest-neighbor graphs over per-unit
// positions in a chosen feature space: 2D spatial coordinates or a
// transcriptomic embedding.
//
// What:
//
//   - Build computes, for every unit, its k nearest neighbors by
//     Euclidean distance, with optional distance-based pruning.
//   - 2-dimensional inputs use a uniform grid index with ring
//     expansion and early termination; higher dimensions use a k-d
//     tree. Both are internal details behind the same contract.
//
// Determinism:
//
//   - Ties at equal distance break by unit identifier order.
//   - Identical coordinates and parameters always yield an identical
//     graph, independent of index internals or execution order.
//   - Degenerate inputs (duplicate coordinates) are tolerated: zero
//     distances simply tie and resolve by identifier.
//
// Pruning:
//
//   - Applied after the k set is fixed: edges with distance > Radius
//     are discarded; pruning never adds edges. A unit may end with
//     fewer than k neighbors, or zero (not an error).
//
// Scale:
//
//   - No all-pairs distance matrix is ever formed; the module targets
//     ≥ 1e5 units. Index build O(n) (grid) / O(n log n) (tree);
//     queries O(k + local density) / O(log n) expected.
//
// Errors:
//
//   - ErrNoCoordinates, ErrDimensionMismatch, ErrBadK, ErrBadRadius,
//     ErrNotFinite, ErrDuplicateID.
package knng
