// Package pipeline runs the full SPLIT pass: decomposition adaptation,
// candidate purification, neighbor graph construction, neighborhood
// scoring and the final balance decision.
//
// Staging (each stage consumes only immutable outputs of earlier ones):
//
//  1. Validate structure — nil inputs, coordinate lengths. Any
//     structural failure (including decomp.ErrMalformedDecomposition)
//     aborts before anything is produced; partial output never exists.
//  2. decomp.Normalize — per-unit records.
//  3. purify.All — the purifier's own per-unit decisions, plus a
//     purified candidate vector for every non-reject unit with a
//     usable secondary signal, so a neighborhood override never lacks
//     a profile to switch to.
//  4. Spatial graph + diffusion scores (when spatial coordinates are
//     supplied). Reject and unknown units are excluded from the graph:
//     unreliable units neither receive nor contribute signal.
//  5. Transcriptomic graph + first/second-type homogeneity scores
//     (when an embedding is supplied).
//  6. balance.All — final profiles, statuses and label swaps.
//
// The Result carries the merged count matrix, a per-unit metadata
// table and run counters (purified, unchanged, rejects dropped,
// unknown dropped, missing references, undefined scores).
package pipeline
