// Package balance merges raw and purified profiles per unit according
// to a threshold on the unit's neighborhood score, and optionally
// swaps primary/secondary type labels on homogeneity evidence.
//
// Decision order, per unit:
//
//  1. Rejects are excluded — no outcome is emitted.
//  2. Undefined neighborhood score — keep the purifier's own result
//     (no spatial override either way).
//  3. score ≥ Threshold — use the purified candidate profile, even for
//     singlets the default policy passed through: the neighborhood
//     corroborates contamination.
//  4. Otherwise — use the raw profile: without corroborating signal,
//     purification risks over-correcting phenotypes absent from the
//     reference.
//  5. With SwapEnabled, a unit whose transcriptomic neighbors are
//     predominantly its second type (second-type homogeneity strictly
//     above first-type homogeneity, both defined) gets its type labels
//     swapped. Counts are untouched; only the record changes.
//
// Threshold is one shared scalar per invocation. Lowering it can only
// move units from raw to purified, never the reverse.
//
// Errors: ErrBadThreshold (NaN), ErrMissingRaw (unit without a raw
// profile — structural, aborts).
package balance
