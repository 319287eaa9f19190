// Package tiles chooses forward-pass tile sizes for fused-attention kernels.
//
// # Reading Guide
//
// Start with these files:
//   - config.go: KernelShapeConfig (input), TileDims/TileConfig (output), validation
//   - smem.go: the buffering-aware shared-memory estimate and the 101376-byte ceiling
//   - policy.go: the sm90 selector (bucket baseline, masking/feature adjustments, budget walk)
//   - ladder.go: the candidate ladder walked when a baseline overflows the budget
//
// # Guarantees
//
// Every TileDims returned without error satisfies
//
//	SmemEstimateBytes(dims, cfg) <= policy.SmemLimitBytes
//
// The selectors are pure: results depend only on the input value, so they are
// safe for concurrent use and may be memoized by KernelShapeConfig (see Memo).
//
// Sub-packages:
//   - tiles/sweep: concurrent grid sweep that re-checks the budget for a set of shapes
package tiles
