// Package sweep re-checks the tile policy over a grid of kernel shapes.
// It is the Go counterpart of the exhaustive shared-memory compatibility test:
// every configuration is selected concurrently and its estimate compared with
// the policy's ceiling.
package sweep

import (
	"context"
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/inference-sim/attn-tiles/tiles"
)

// Grid is the set of shapes to sweep. Masking and paged-KV combinations are
// always enumerated in full (minus causal+local); the remaining flags are
// fixed for the whole sweep.
type Grid struct {
	HeadDims    []int `json:"head_dims"`
	HeadDimsV   []int `json:"head_dims_v"`
	ElementSize int   `json:"element_size"`
	VColMajor   bool  `json:"v_colmajor"`
	Softcap     bool  `json:"softcap"`
}

// DefaultGrid is the head-dimension grid the attention kernels are built for.
func DefaultGrid() Grid {
	return Grid{
		HeadDims:    []int{64, 96, 128, 160, 192, 256, 320},
		HeadDimsV:   []int{64, 96, 128, 160, 192, 256, 512},
		ElementSize: 2,
	}
}

// Configs expands the grid in a stable order: head dim, value dim, causal,
// local, paged.
func (g Grid) Configs() []tiles.KernelShapeConfig {
	bools := []bool{false, true}
	var out []tiles.KernelShapeConfig
	for _, d := range g.HeadDims {
		for _, dv := range g.HeadDimsV {
			for _, causal := range bools {
				for _, local := range bools {
					if causal && local {
						continue
					}
					for _, paged := range bools {
						out = append(out, tiles.KernelShapeConfig{
							HeadDim:       d,
							HeadDimV:      dv,
							IsCausal:      causal,
							IsLocal:       local,
							ElementSize:   g.ElementSize,
							VColMajor:     g.VColMajor,
							PagedKVNonTMA: paged,
							Softcap:       g.Softcap,
						})
					}
				}
			}
		}
	}
	return out
}

// Result is the outcome for one configuration.
type Result struct {
	Config        tiles.KernelShapeConfig
	Tile          tiles.TileConfig
	EstimateBytes int
	Err           error
}

// Report aggregates a sweep.
type Report struct {
	LimitBytes int
	Results    []Result // same order as Grid.Configs
	Violations int      // estimate above LimitBytes
	Errors     int      // selector returned an error
}

// OK reports whether every configuration produced a tile within budget.
func (r *Report) OK() bool {
	return r.Violations == 0 && r.Errors == 0
}

// Run selects a tile for every grid configuration using at most workers
// goroutines (GOMAXPROCS when workers <= 0). Selector errors are recorded per
// result; the returned error is non-nil only if ctx is cancelled.
func Run(ctx context.Context, g Grid, p tiles.Policy, workers int) (*Report, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	configs := g.Configs()
	results := make([]Result, len(configs))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, cfg := range configs {
		i, cfg := i, cfg
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			tc, err := p.Select(cfg)
			r := Result{Config: cfg, Tile: tc, Err: err}
			if err == nil {
				r.EstimateBytes = tiles.SmemEstimateBytes(tc.TileDims, cfg)
			}
			results[i] = r
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("sweep cancelled: %w", err)
	}

	report := &Report{LimitBytes: p.SmemLimitBytes, Results: results}
	for _, r := range results {
		switch {
		case r.Err != nil:
			report.Errors++
			logrus.Warnf("sweep: %s: %v", r.Config, r.Err)
		case r.EstimateBytes > p.SmemLimitBytes:
			report.Violations++
			logrus.Warnf("sweep: smem overrun for %s: %dx%d needs %dB, limit %dB",
				r.Config, r.Tile.BlockM, r.Tile.BlockN, r.EstimateBytes, p.SmemLimitBytes)
		default:
			logrus.Debugf("sweep: %s -> %dx%d (%dB)", r.Config, r.Tile.BlockM, r.Tile.BlockN, r.EstimateBytes)
		}
	}
	logrus.Infof("sweep: %d configurations, %d violations, %d errors (limit %dB)",
		len(results), report.Violations, report.Errors, p.SmemLimitBytes)
	return report, nil
}
