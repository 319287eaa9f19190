package tiles

// Sm8xOptions carries the Ampere/Ada-only dispatch switches.
type Sm8xOptions struct {
	SM86or89       bool // consumer Ampere/Ada (smaller smem carve-out than sm80)
	PagedKV        bool
	VarlenAndSplit bool
	AppendKV       bool
}

// Sm8xTileConfig is the Ampere/Ada forward selection.
type Sm8xTileConfig struct {
	TileDims
	NWarps  int  `json:"n_warps"`
	Stages  int  `json:"stages"`
	QInRegs bool `json:"q_in_regs"`
}

// SelectTileSizesSm8x returns the sm8x forward tile. Unlike the sm90 policy it
// is a fixed table: the sm8x kernels size their pipeline through Stages
// rather than against the buffering estimate.
func SelectTileSizesSm8x(cfg KernelShapeConfig, opts Sm8xOptions) (Sm8xTileConfig, error) {
	if err := cfg.Validate(); err != nil {
		return Sm8xTileConfig{}, err
	}
	if cfg.ElementSize != 2 {
		// Placeholder until a non-16-bit sm8x kernel exists.
		return sm8xTile(128, 64, 8, 2, false), nil
	}

	d, local, split := cfg.HeadDim, cfg.IsLocal, opts.VarlenAndSplit
	switch {
	case d <= 64:
		bn := 112
		switch {
		case split:
			bn = 80
		case local:
			bn = 96
		}
		return sm8xTile(128, bn, 4, 1, false), nil
	case d <= 96:
		bn := 64
		if split || local {
			bn = 48
		}
		return sm8xTile(128, bn, 4, 1, false), nil
	case d <= 128:
		use8Warps := opts.SM86or89 || split
		if !use8Warps {
			bn := 64
			if local {
				bn = 48
			}
			return sm8xTile(128, bn, 4, 1, false), nil
		}
		bn := 128
		switch {
		case local:
			bn = 96
		case split:
			bn = 112
		}
		return sm8xTile(128, bn, 8, 1, true), nil
	case d <= 192:
		narrow := opts.AppendKV || local || split || opts.PagedKV
		bn := 96
		if narrow {
			bn = 64
		}
		stages := 2
		if opts.SM86or89 {
			stages = 1
		}
		return sm8xTile(128, bn, 8, stages, !narrow), nil
	default:
		var bn int
		if opts.SM86or89 {
			switch {
			case opts.AppendKV:
				bn = 32
			case split || local:
				bn = 48
			default:
				bn = 64
			}
		} else {
			switch {
			case opts.AppendKV:
				bn = 48
			case split || local:
				bn = 64
			default:
				bn = 96
			}
		}
		return sm8xTile(128, bn, 8, 1, opts.SM86or89 && !opts.AppendKV), nil
	}
}

func sm8xTile(blockM, blockN, nWarps, stages int, qInRegs bool) Sm8xTileConfig {
	return Sm8xTileConfig{
		TileDims: TileDims{BlockM: blockM, BlockN: blockN},
		NWarps:   nWarps,
		Stages:   stages,
		QInRegs:  qInRegs,
	}
}
