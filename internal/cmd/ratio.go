package cmd

import (
	"fmt"
	"time"

	"github.com/harrison/fieldstat/internal/export"
	"github.com/harrison/fieldstat/internal/pipeline"
	"github.com/spf13/cobra"
)

// NewRatioCommand creates the 'fieldstat ratio' command
func NewRatioCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ratio",
		Short: "Compute periphery/center ratios over the whole window",
		Long: `Count each animal's periphery and total crossings inside the analysis
window and report the periphery/center ratio p / max(t - p, 1) and the
thigmotaxis index p / t, with a mean ± SEM of the ratio per sex.`,
		Args: cobra.NoArgs,
		RunE: runRatio,
	}

	addWindowFlags(cmd)
	addOutputFlags(cmd)

	return cmd
}

func runRatio(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	records, err := e.loadRecords(cmd)
	if err != nil {
		return err
	}

	window := e.cfg.Window.Binning()
	started := time.Now()
	e.log.LogAnalysisStart("periphery-center-ratio", len(records))
	ratios, err := pipeline.PeripheryCenterRatios(records, window)
	if err != nil {
		return fmt.Errorf("compute ratios: %w", err)
	}
	report := export.FromRatios(ratios, window)
	e.log.LogAnalysisComplete("periphery-center-ratio", time.Since(started))

	if err := e.emit(cmd, report); err != nil {
		return err
	}
	return e.record(cmd.Context(), report, len(ratios))
}
