// Package split purifies per-unit gene-expression measurements in
// spatial transcriptomics data contaminated by neighboring cells
// ("spillover"), guided by a prior reference-based cell-type
// decomposition.
//
// 🚀 What is SPLIT?
//
//	A deterministic, data-parallel purification engine built from
//	small, composable packages:
//		• expr/         — gene-by-unit count matrices (gonum-backed)
//		• decomp/       — adapter for external decomposition results
//		• reference/    — per-cell-type mean expression profiles
//		• purify/       — decomposition-based signal separation
//		• knng/         — spatial & transcriptomic k-NN graphs
//		• neighborhood/ — per-unit neighborhood metric aggregation
//		• balance/      — raw-vs-purified decision + label swap
//		• pipeline/     — end-to-end orchestration
//
// ✨ Why SPLIT?
//
//   - Reproducible — worker counts and chunk sizes never change results
//   - Scales — spatial indexing instead of all-pairs distances,
//     hundreds of thousands of units per pass
//   - Honest failure model — a run either completes with a full
//     per-unit status table, or aborts before any output exists
//
// Data flow:
//
//	decomposition table ──► decomp ──► purify ──► purified profiles
//	coordinates/embedding ─► knng ──► neighborhood ─► per-unit scores
//	raw + purified + records + scores ──► balance ──► final dataset
//
// The decomposition algorithm itself, expression containers, file
// formats and plotting are external collaborators; SPLIT consumes and
// produces plain matrices and per-unit records.
package split
