package cmd

import (
	"github.com/harrison/fieldstat/internal/display"
	"github.com/harrison/fieldstat/internal/pipeline"
	"github.com/spf13/cobra"
)

// NewMetricsCommand creates the 'fieldstat metrics' command
func NewMetricsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "List the metrics 'bin' can compute",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			display.RenderMetrics(out, pipeline.Metrics(), display.IsColorTerminal(out))
			return nil
		},
	}
}
