package tiles

import "sort"

// Tile extents stay multiples of 16 to satisfy GMMA tile constraints.
const tileAlign = 16

// ladderBlockM lists the query-side rungs. 64 is one warpgroup; 32 and 16 exist
// only as a last resort for shapes outside the tuned grid.
var ladderBlockM = []int{192, 128, 64, 32, 16}

// maxLadderBlockN is the widest key/value rung.
const maxLadderBlockN = 256

// candidateLadder is ordered by decreasing footprint (BlockM+BlockN), so the
// first candidate that fits is the largest tile the budget allows. Ties prefer
// the squarer tile, then the taller one.
var candidateLadder = buildLadder()

func buildLadder() []TileDims {
	var ladder []TileDims
	for _, bm := range ladderBlockM {
		for bn := tileAlign; bn <= maxLadderBlockN; bn += tileAlign {
			ladder = append(ladder, TileDims{BlockM: bm, BlockN: bn})
		}
	}
	sort.Slice(ladder, func(i, j int) bool {
		a, b := ladder[i], ladder[j]
		if sa, sb := a.BlockM+a.BlockN, b.BlockM+b.BlockN; sa != sb {
			return sa > sb
		}
		if ma, mb := min(a.BlockM, a.BlockN), min(b.BlockM, b.BlockN); ma != mb {
			return ma > mb
		}
		return a.BlockM > b.BlockM
	})
	return ladder
}

// SmallestCandidate is the last rung of the ladder.
func SmallestCandidate() TileDims {
	return candidateLadder[len(candidateLadder)-1]
}

// enforceBudget returns base when it fits, otherwise the first ladder rung
// inside base's box (BlockM <= base.BlockM, BlockN <= base.BlockN) that fits.
// Baselines smaller than the smallest rung are checked as-is and never grown.
func enforceBudget(base TileDims, cfg KernelShapeConfig, limit int) (TileDims, error) {
	if FitsBudget(base, cfg, limit) {
		return base, nil
	}
	for _, c := range candidateLadder {
		if c.BlockM > base.BlockM || c.BlockN > base.BlockN {
			continue
		}
		if FitsBudget(c, cfg, limit) {
			return c, nil
		}
	}
	return TileDims{}, ErrBudgetUnsatisfiable
}
