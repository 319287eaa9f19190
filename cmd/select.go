package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/attn-tiles/tiles"
)

var (
	// Kernel shape flags
	headDim       int  // Query/key head dimension
	headDimV      int  // Value head dimension (0 = same as head dim)
	isCausal      bool // Causal masking
	isLocal       bool // Sliding-window masking
	elementSize   int  // Bytes per element
	vColMajor     bool // V column-major in smem
	pagedKVNonTMA bool // Paged KV without TMA
	softcap       bool // Fused softcap

	// sm8x-only flags
	pagedKV        bool // Paged KV (sm8x)
	varlenAndSplit bool // Varlen with split-KV (sm8x)
	appendKV       bool // Append-KV (sm8x)
)

// selection is what select prints, for either kernel family.
type selection struct {
	GPU        string                  `json:"gpu"`
	Arch       string                  `json:"arch"`
	Config     tiles.KernelShapeConfig `json:"config"`
	Tile       tiles.TileDims          `json:"tile"`
	SmemBytes  int                     `json:"smem_bytes,omitempty"` // sm90 only
	LimitBytes int                     `json:"limit_bytes"`
	Sm90       *tiles.TileConfig       `json:"sm90,omitempty"`
	Sm8x       *tiles.Sm8xTileConfig   `json:"sm8x,omitempty"`
}

// selectTile runs the selector that matches the profile's kernel family.
func selectTile(profile tiles.HardwareProfile, cfg tiles.KernelShapeConfig, opts tiles.Sm8xOptions) (selection, error) {
	sel := selection{GPU: profile.Name, Arch: profile.Arch, Config: cfg, LimitBytes: profile.SmemLimitBytes}
	switch profile.Arch {
	case tiles.ArchSm8x:
		tc, err := tiles.SelectTileSizesSm8x(cfg, profile.Sm8xOptions(opts))
		if err != nil {
			return selection{}, err
		}
		sel.Tile, sel.Sm8x = tc.TileDims, &tc
	default:
		tc, err := profile.Policy().Select(cfg)
		if err != nil {
			return selection{}, err
		}
		sel.Tile, sel.Sm90 = tc.TileDims, &tc
		sel.SmemBytes = tiles.SmemEstimateBytes(tc.TileDims, cfg)
	}
	return sel, nil
}

func shapeFromFlags() tiles.KernelShapeConfig {
	dv := headDimV
	if dv == 0 {
		dv = headDim
	}
	return tiles.KernelShapeConfig{
		HeadDim:       headDim,
		HeadDimV:      dv,
		IsCausal:      isCausal,
		IsLocal:       isLocal,
		ElementSize:   elementSize,
		VColMajor:     vColMajor,
		PagedKVNonTMA: pagedKVNonTMA,
		Softcap:       softcap,
	}
}

func runSelect(w io.Writer, profile tiles.HardwareProfile, cfg tiles.KernelShapeConfig, opts tiles.Sm8xOptions, format string) error {
	sel, err := selectTile(profile, cfg, opts)
	if err != nil {
		return fmt.Errorf("select tile for %s on %s: %w", cfg, profile.Name, err)
	}
	logrus.Infof("%s on %s -> %dx%d", cfg, profile.Name, sel.Tile.BlockM, sel.Tile.BlockN)
	if format == "json" {
		return writeJSON(w, sel)
	}
	renderSelection(w, sel)
	return nil
}

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Select the forward tile for one kernel shape",
	Run: func(cmd *cobra.Command, args []string) {
		profile, err := loadProfile(hardwareConfigPath, gpu)
		if err != nil {
			logrus.Fatalf("Failed to load hardware profile: %v", err)
		}
		opts := tiles.Sm8xOptions{PagedKV: pagedKV, VarlenAndSplit: varlenAndSplit, AppendKV: appendKV}
		if err := runSelect(os.Stdout, profile, shapeFromFlags(), opts, outputFormat); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

func init() {
	selectCmd.Flags().IntVar(&headDim, "head-dim", 128, "Query/key head dimension")
	selectCmd.Flags().IntVar(&headDimV, "head-dim-v", 0, "Value head dimension (default: same as --head-dim)")
	selectCmd.Flags().BoolVar(&isCausal, "causal", false, "Causal masking")
	selectCmd.Flags().BoolVar(&isLocal, "local", false, "Local (sliding-window) masking")
	selectCmd.Flags().IntVar(&elementSize, "element-size", 2, "Bytes per element (2 = fp16/bf16, 1 = fp8)")
	selectCmd.Flags().BoolVar(&vColMajor, "v-colmajor", false, "V tensor is column-major in shared memory")
	selectCmd.Flags().BoolVar(&pagedKVNonTMA, "paged-kv-non-tma", false, "Paged KV fetched without TMA")
	selectCmd.Flags().BoolVar(&softcap, "softcap", false, "Softcap fused into the score computation")

	selectCmd.Flags().BoolVar(&pagedKV, "paged-kv", false, "Paged KV (sm8x profiles)")
	selectCmd.Flags().BoolVar(&varlenAndSplit, "varlen-split", false, "Varlen with split KV (sm8x profiles)")
	selectCmd.Flags().BoolVar(&appendKV, "append-kv", false, "Append new KV in-kernel (sm8x profiles)")
}
