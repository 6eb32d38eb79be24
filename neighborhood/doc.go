// Package neighborhood computes per-unit statistics over a k-NN graph
// from the decomposition records of each unit's neighbors.
//
// What:
//
//   - Aggregate: unweighted mean of metric(neighbor record) over a
//     unit's neighbors — e.g. SecondWeight for spatial diffusion
//     scoring.
//   - AggregatePair: same, with the unit's own record in scope — e.g.
//     FirstTypeHomogeneity for transcriptomic label coherence.
//   - EmbeddingPurity: k-means diagnostic of how well first-type
//     labels cohere with embedding-space clusters.
//
// Undefined scores:
//
//   - A unit with zero usable neighbors (no neighbors at all, or none
//     with a record) receives an undefined Score, represented as NaN
//     and detected via Score.Defined(). Undefined propagates — it is
//     never coerced to zero, so it can never silently pass or fail a
//     threshold comparison downstream.
//
// Complexity: Aggregate O(Σ degree); EmbeddingPurity O(iters×n×k).
package neighborhood
