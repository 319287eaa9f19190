package cmd

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/attn-tiles/tiles"
)

func runProfiles(w io.Writer, path, format string) error {
	catalog := tiles.DefaultHardwareCatalog()
	if path != "" {
		c, err := tiles.LoadHardwareProfiles(path)
		if err != nil {
			return err
		}
		catalog = c
	}
	if format == "json" {
		return writeJSON(w, catalog)
	}
	renderProfiles(w, catalog)
	return nil
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List hardware profiles",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runProfiles(os.Stdout, hardwareConfigPath, outputFormat); err != nil {
			logrus.Fatalf("Failed to load hardware profiles: %v", err)
		}
	},
}
