package main

import (
	"errors"

	"github.com/inference-sim/attn-tiles/tiles"
)

// Status codes returned across the C boundary.
const (
	statusOK                   = 0
	statusInvalidConfiguration = 1
	statusBudgetUnsatisfiable  = 2
)

// bridgeArgs mirrors the C argument list.
type bridgeArgs = tiles.KernelShapeConfig

// maxMemoEntries bounds the process-wide cache; real dispatch sites use far
// fewer distinct shapes, and callers sweeping shapes fall through to the policy.
const maxMemoEntries = 4096

// memo is shared by every caller of the library; dispatch sites ask for the
// same handful of shapes over and over.
var memo = tiles.NewBoundedMemo(tiles.DefaultPolicy, maxMemoEntries)

// selectBridge returns (block_m, block_n, status). On error both dims are 0.
func selectBridge(args bridgeArgs) (int, int, int) {
	tc, err := memo.Select(args)
	switch {
	case err == nil:
		return tc.BlockM, tc.BlockN, statusOK
	case errors.Is(err, tiles.ErrInvalidConfiguration):
		return 0, 0, statusInvalidConfiguration
	default:
		return 0, 0, statusBudgetUnsatisfiable
	}
}
