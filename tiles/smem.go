package tiles

import (
	"math"
	"math/bits"
)

// SmemLimitBytes is the per-SM shared-memory ceiling of the consumer
// Blackwell class (sm120) that the default policy targets.
const SmemLimitBytes = 101376

// BufferingDepth is the number of live tile copies assumed by the estimate.
// Wide value heads, or a wide combined head, drop to a single buffer.
func BufferingDepth(headDim, headDimV int) int {
	if headDimV >= 256 || addSat(headDim, headDimV) >= 512 {
		return 1
	}
	return 2
}

// SmemEstimateBytes is the buffering-aware shared-memory footprint of a tile:
//
//	buffering × (block_m + block_n) × (head_dim + head_dim_v) × element_size
//
// Kernel launch code sizes its static tiling against this exact estimate.
// Footprints beyond math.MaxInt saturate to math.MaxInt, so they never fit.
func SmemEstimateBytes(dims TileDims, cfg KernelShapeConfig) int {
	return estimate(dims.BlockM, dims.BlockN, cfg.HeadDim, cfg.HeadDimV, cfg.ElementSize)
}

func estimate(blockM, blockN, headDim, headDimV, elementSize int) int {
	e := mulSat(BufferingDepth(headDim, headDimV), addSat(blockM, blockN))
	e = mulSat(e, addSat(headDim, headDimV))
	return mulSat(e, elementSize)
}

// addSat and mulSat clamp positive overflow to math.MaxInt. Non-positive
// operands only occur for configs that fail Validate and use plain arithmetic.
func addSat(a, b int) int {
	if a > 0 && b > math.MaxInt-a {
		return math.MaxInt
	}
	return a + b
}

func mulSat(a, b int) int {
	if a <= 0 || b <= 0 {
		return a * b
	}
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 || lo > math.MaxInt {
		return math.MaxInt
	}
	return int(lo)
}

// FitsBudget reports whether dims stay within limit for cfg.
func FitsBudget(dims TileDims, cfg KernelShapeConfig, limit int) bool {
	return SmemEstimateBytes(dims, cfg) <= limit
}
