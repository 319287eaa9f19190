package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/attn-tiles/tiles"
)

var (
	logLevel           string // Log verbosity level
	hardwareConfigPath string // YAML hardware profiles (empty = built-in)
	gpu                string // Hardware profile name (empty = catalog default)
	outputFormat       string // "table" or "json"
)

// validOutputs is the set of recognized --output values.
var validOutputs = map[string]bool{"table": true, "json": true}

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "attn-tiles",
	Short: "Shared-memory-aware tile selection for fused-attention kernels",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if !validOutputs[outputFormat] {
			logrus.Fatalf("Invalid output format %q (want table or json)", outputFormat)
		}
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadProfile resolves the hardware profile named by --gpu from --hardware-config,
// or from the built-in catalog when no file is given.
func loadProfile(path, name string) (tiles.HardwareProfile, error) {
	catalog := tiles.DefaultHardwareCatalog()
	if path != "" {
		c, err := tiles.LoadHardwareProfiles(path)
		if err != nil {
			return tiles.HardwareProfile{}, err
		}
		catalog = c
		logrus.Debugf("loaded %d hardware profiles from %s", len(c.Profiles), path)
	}
	return catalog.Get(name)
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&hardwareConfigPath, "hardware-config", "", "Path to a hardware profiles YAML (default: built-in profiles)")
	rootCmd.PersistentFlags().StringVar(&gpu, "gpu", "", "Hardware profile name (default: the catalog default, sm120 for built-ins)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table, json)")

	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(profilesCmd)
}
