package tiles

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfiguration is returned for inputs the kernels cannot be built for:
// causal and local masking together, or non-positive dimensions.
var ErrInvalidConfiguration = errors.New("invalid kernel configuration")

// ErrBudgetUnsatisfiable is returned when no rung of the candidate ladder fits
// the shared-memory limit. It means the hardware class cannot host the shape at all.
var ErrBudgetUnsatisfiable = errors.New("shared-memory budget unsatisfiable")

// KernelShapeConfig describes one attention-kernel instantiation.
// It is comparable and may be used as a map key.
type KernelShapeConfig struct {
	HeadDim       int  `json:"head_dim"`         // query/key width per head
	HeadDimV      int  `json:"head_dim_v"`       // value width per head
	IsCausal      bool `json:"is_causal"`        // causal masking
	IsLocal       bool `json:"is_local"`         // sliding-window masking
	ElementSize   int  `json:"element_size"`     // bytes per element (2 for fp16/bf16, 1 for fp8)
	VColMajor     bool `json:"v_colmajor"`       // V stored column-major in smem
	PagedKVNonTMA bool `json:"paged_kv_non_tma"` // paged KV fetched without TMA
	Softcap       bool `json:"softcap"`          // softcapping fused into the score computation
}

// NewKernelShapeConfig returns a config for a half-precision kernel with all
// feature flags off.
func NewKernelShapeConfig(headDim, headDimV int) KernelShapeConfig {
	return KernelShapeConfig{
		HeadDim:     headDim,
		HeadDimV:    headDimV,
		ElementSize: 2,
	}
}

// Validate checks the config against the kernel call contract. It returns an
// error wrapping ErrInvalidConfiguration that lists every problem, or nil.
func (c KernelShapeConfig) Validate() error {
	var problems []string

	if c.HeadDim <= 0 {
		problems = append(problems, fmt.Sprintf("HeadDim must be > 0, got %d", c.HeadDim))
	}
	if c.HeadDimV <= 0 {
		problems = append(problems, fmt.Sprintf("HeadDimV must be > 0, got %d", c.HeadDimV))
	}
	if c.ElementSize <= 0 {
		problems = append(problems, fmt.Sprintf("ElementSize must be > 0, got %d", c.ElementSize))
	}
	if c.IsCausal && c.IsLocal {
		problems = append(problems, "IsCausal and IsLocal are mutually exclusive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfiguration, strings.Join(problems, "; "))
	}
	return nil
}

// String renders the config in the compact form used by logs and CLI tables.
func (c KernelShapeConfig) String() string {
	var flags []string
	if c.IsCausal {
		flags = append(flags, "causal")
	}
	if c.IsLocal {
		flags = append(flags, "local")
	}
	if c.VColMajor {
		flags = append(flags, "v-colmajor")
	}
	if c.PagedKVNonTMA {
		flags = append(flags, "paged-non-tma")
	}
	if c.Softcap {
		flags = append(flags, "softcap")
	}
	s := fmt.Sprintf("d=%d dv=%d elem=%d", c.HeadDim, c.HeadDimV, c.ElementSize)
	if len(flags) > 0 {
		s += " [" + strings.Join(flags, ",") + "]"
	}
	return s
}

// TileDims is the query-side (BlockM) and key/value-side (BlockN) tile extent.
type TileDims struct {
	BlockM int `json:"block_m"`
	BlockN int `json:"block_n"`
}

// TileConfig is the full sm90 selection: the tile plus the two mainloop
// switches chosen alongside it.
type TileConfig struct {
	TileDims
	MmaPVIsRS      bool `json:"mma_pv_is_rs"`     // P operand of the P·V MMA sourced from registers
	IntraWGOverlap bool `json:"intra_wg_overlap"` // overlap softmax with the next QK^T inside a warpgroup
}
