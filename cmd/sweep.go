package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/attn-tiles/tiles"
	"github.com/inference-sim/attn-tiles/tiles/sweep"
)

var (
	sweepWorkers     int  // Concurrent selector calls
	sweepElementSize int  // Bytes per element for the whole sweep
	sweepVColMajor   bool // V column-major for the whole sweep
	sweepSoftcap     bool // Softcap for the whole sweep
)

// runSweep checks the default head-dimension grid against the profile's ceiling.
// It returns the report so callers can decide the exit status.
func runSweep(ctx context.Context, w io.Writer, profile tiles.HardwareProfile, g sweep.Grid, workers int, format string) (*sweep.Report, error) {
	if profile.Arch != tiles.ArchSm90 {
		return nil, fmt.Errorf("sweep needs an %s profile, %s is %s", tiles.ArchSm90, profile.Name, profile.Arch)
	}
	report, err := sweep.Run(ctx, g, profile.Policy(), workers)
	if err != nil {
		return nil, err
	}
	if format == "json" {
		return report, writeJSON(w, sweepRows(report))
	}
	renderSweep(w, report)
	return report, nil
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Check every grid shape against the shared-memory ceiling",
	Run: func(cmd *cobra.Command, args []string) {
		profile, err := loadProfile(hardwareConfigPath, gpu)
		if err != nil {
			logrus.Fatalf("Failed to load hardware profile: %v", err)
		}
		g := sweep.DefaultGrid()
		g.ElementSize = sweepElementSize
		g.VColMajor = sweepVColMajor
		g.Softcap = sweepSoftcap

		report, err := runSweep(cmd.Context(), os.Stdout, profile, g, sweepWorkers, outputFormat)
		if err != nil {
			logrus.Fatalf("Sweep failed: %v", err)
		}
		if !report.OK() {
			logrus.Errorf("%d configurations exceed %dB, %d failed", report.Violations, report.LimitBytes, report.Errors)
			os.Exit(1)
		}
	},
}

func init() {
	sweepCmd.Flags().IntVar(&sweepWorkers, "workers", 0, "Concurrent selector calls (default: GOMAXPROCS)")
	sweepCmd.Flags().IntVar(&sweepElementSize, "element-size", 2, "Bytes per element (2 = fp16/bf16, 1 = fp8)")
	sweepCmd.Flags().BoolVar(&sweepVColMajor, "v-colmajor", false, "Sweep with V column-major")
	sweepCmd.Flags().BoolVar(&sweepSoftcap, "softcap", false, "Sweep with softcap enabled")
}
