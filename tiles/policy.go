package tiles

import "fmt"

// Policy selects sm90-family forward tiles against a shared-memory ceiling.
// The zero value is not usable; use DefaultPolicy or NewPolicy.
type Policy struct {
	SmemLimitBytes int
}

// DefaultPolicy targets the 101376-byte consumer Blackwell ceiling.
var DefaultPolicy = Policy{SmemLimitBytes: SmemLimitBytes}

// NewPolicy returns a policy for the given ceiling.
func NewPolicy(smemLimitBytes int) Policy {
	return Policy{SmemLimitBytes: smemLimitBytes}
}

// SelectTileSizes returns the forward tile for cfg under DefaultPolicy.
func SelectTileSizes(cfg KernelShapeConfig) (TileDims, error) {
	tc, err := DefaultPolicy.Select(cfg)
	if err != nil {
		return TileDims{}, err
	}
	return tc.TileDims, nil
}

// SelectTileConfig is SelectTileSizes plus the mainloop switches.
func SelectTileConfig(cfg KernelShapeConfig) (TileConfig, error) {
	return DefaultPolicy.Select(cfg)
}

// Select validates cfg, picks the bucket baseline and walks the candidate
// ladder until the tile fits p.SmemLimitBytes.
func (p Policy) Select(cfg KernelShapeConfig) (TileConfig, error) {
	if err := cfg.Validate(); err != nil {
		return TileConfig{}, err
	}
	if p.SmemLimitBytes <= 0 {
		return TileConfig{}, fmt.Errorf("%w: SmemLimitBytes must be > 0, got %d", ErrInvalidConfiguration, p.SmemLimitBytes)
	}

	tc := baselineSm90(cfg)
	dims, err := enforceBudget(tc.TileDims, cfg, p.SmemLimitBytes)
	if err != nil {
		smallest := SmallestCandidate()
		return TileConfig{}, fmt.Errorf("%w: %s needs %d bytes at %dx%d, limit %d",
			err, cfg, SmemEstimateBytes(smallest, cfg), smallest.BlockM, smallest.BlockN, p.SmemLimitBytes)
	}
	tc.TileDims = dims
	return tc, nil
}

// baselineSm90 is the per-bucket starting tile before budget enforcement.
func baselineSm90(cfg KernelShapeConfig) TileConfig {
	if cfg.ElementSize == 2 {
		return baselineSm90Half(cfg)
	}
	return baselineSm90Other(cfg)
}

func baselineSm90Half(cfg KernelShapeConfig) TileConfig {
	d, dv := cfg.HeadDim, cfg.HeadDimV
	paged, local := cfg.PagedKVNonTMA, cfg.IsLocal

	switch {
	case d <= 64:
		switch dv {
		case 512:
			// Very wide values: keep the tile narrow.
			return tile(64, 64, false, false)
		case 256:
			return tile(64, 80, true, true)
		default:
			// 192x128 for masked or paged, 192x192 otherwise.
			narrow := cfg.IsCausal || local || paged
			bn := 192
			if narrow {
				bn = 128
			}
			return tile(192, bn, narrow, true)
		}
	case d <= 96:
		bn := 144
		switch {
		case dv >= 256:
			bn = 96
		case local || paged:
			bn = 128
		}
		bm := 192
		if bn == 96 {
			bm = 128
		}
		return tile(bm, bn, false, true)
	case d <= 128:
		bn := 80
		if !paged && !local && dv <= 128 {
			bn = 96
		}
		return tile(64, bn, true, true)
	case d <= 192:
		bn := 64
		if !paged && !local && d <= 160 {
			bn = 80
		}
		return tile(64, bn, true, true)
	default:
		// Above 192 the footprint grows quickly with BlockM: stay at 64xN.
		bn := 48
		if !paged && !local && d <= 256 {
			bn = 64
		}
		return tile(64, bn, true, true)
	}
}

func baselineSm90Other(cfg KernelShapeConfig) TileConfig {
	d := cfg.HeadDim
	paged, local, softcap := cfg.PagedKVNonTMA, cfg.IsLocal, cfg.Softcap

	switch {
	case d <= 64:
		return tile(192, 160, true, true)
	case d <= 96:
		return tile(192, 128, true, true)
	case d <= 128:
		bn := 224
		switch {
		case paged:
			bn = 160
		case cfg.VColMajor || (softcap && local):
			bn = 192
		}
		return tile(128, bn, true, true)
	case d <= 192:
		bn := 160
		if (paged || softcap) && local {
			bn = 128
		}
		return tile(128, bn, true, true)
	default:
		bn := 128
		if local {
			bn = 64
		}
		// Paged KV uses more registers, so intra-warpgroup overlap is off.
		return tile(128, bn, true, !paged)
	}
}

func tile(blockM, blockN int, mmaPVIsRS, intraWGOverlap bool) TileConfig {
	return TileConfig{
		TileDims:       TileDims{BlockM: blockM, BlockN: blockN},
		MmaPVIsRS:      mmaPVIsRS,
		IntraWGOverlap: intraWGOverlap,
	}
}
