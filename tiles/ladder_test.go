package tiles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateLadder_OrderedByFootprint(t *testing.T) {
	require.Len(t, candidateLadder, len(ladderBlockM)*(maxLadderBlockN/tileAlign))
	assert.Equal(t, TileDims{BlockM: 192, BlockN: 256}, candidateLadder[0])

	seen := make(map[TileDims]bool)
	for i, c := range candidateLadder {
		if c.BlockM%tileAlign != 0 || c.BlockN%tileAlign != 0 {
			t.Errorf("rung %d (%dx%d) not aligned to %d", i, c.BlockM, c.BlockN, tileAlign)
		}
		if seen[c] {
			t.Errorf("rung %dx%d appears twice", c.BlockM, c.BlockN)
		}
		seen[c] = true
		if i == 0 {
			continue
		}
		prev := candidateLadder[i-1]
		if prev.BlockM+prev.BlockN < c.BlockM+c.BlockN {
			t.Errorf("rung %d (%dx%d) larger than rung %d (%dx%d)", i, c.BlockM, c.BlockN, i-1, prev.BlockM, prev.BlockN)
		}
	}
}

func TestSmallestCandidate(t *testing.T) {
	assert.Equal(t, TileDims{BlockM: 16, BlockN: 16}, SmallestCandidate())
}

func TestEnforceBudget_PrefersSquarerTileOnTie(t *testing.T) {
	// d=96, dv=256 allows BlockM+BlockN <= 144; 64x80 beats 128x16.
	got, err := enforceBudget(TileDims{128, 96}, NewKernelShapeConfig(96, 256), SmemLimitBytes)
	require.NoError(t, err)
	assert.Equal(t, TileDims{BlockM: 64, BlockN: 80}, got)
}

func TestEnforceBudget_NeverGrowsBaseline(t *testing.T) {
	base := TileDims{BlockM: 64, BlockN: 48}
	got, err := enforceBudget(base, NewKernelShapeConfig(64, 64), SmemLimitBytes)
	require.NoError(t, err)
	assert.Equal(t, base, got)
}

func TestEnforceBudget_Unsatisfiable(t *testing.T) {
	_, err := enforceBudget(TileDims{64, 48}, NewKernelShapeConfig(1024, 1024), SmemLimitBytes)
	assert.ErrorIs(t, err, ErrBudgetUnsatisfiable)
}
