package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for fieldstat
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fieldstat",
		Short: "Behavioral statistics for open-field and rotarod mouse experiments",
		Long: `Fieldstat turns per-animal event logs into binned behavioral metrics.

It counts crossings, accumulates them over time, measures freezing and
grooming durations, computes periphery/center ratios and thigmotaxis,
and summarizes animals by sex or color group as mean ± SEM.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "Path to config file (default: <fieldstat home>/config.yaml)")
	cmd.PersistentFlags().String("log-level", "", "Log verbosity: trace, debug, info, warn, error")
	cmd.PersistentFlags().String("data-dir", "", "Directory holding <UNIT>_openfield.yaml files")
	cmd.PersistentFlags().StringSlice("units", nil, "Units to analyze: IDs or patterns such as M* or ?B (default: units from config)")
	cmd.PersistentFlags().String("output-dir", "", "Directory for exported reports")
	cmd.PersistentFlags().Bool("no-store", false, "Do not record runs in the results database")

	// Add subcommands
	cmd.AddCommand(NewBinCommand())
	cmd.AddCommand(NewRatioCommand())
	cmd.AddCommand(NewRotarodCommand())
	cmd.AddCommand(NewMetricsCommand())
	cmd.AddCommand(NewRunsCommand())

	return cmd
}
