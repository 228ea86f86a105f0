package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/harrison/fieldstat/internal/export"
	"github.com/harrison/fieldstat/internal/pipeline"
	"github.com/spf13/cobra"
)

// NewBinCommand creates the 'fieldstat bin' command
func NewBinCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bin <metric>",
		Short: "Compute a per-bin metric for every animal",
		Long: `Load each configured animal, aggregate the chosen metric into fixed-width
time bins over the analysis window, and summarize animals as mean ± SEM.

Metrics:
  ` + strings.Join(pipeline.Names(), "\n  ") + `

Examples:
  fieldstat bin crossings
  fieldstat bin freezing --bin-width 60s --group-by group
  fieldstat bin accumulated-crossings --format csv --output crossings.csv`,
		Args: cobra.ExactArgs(1),
		RunE: runBin,
	}

	addWindowFlags(cmd)
	addOutputFlags(cmd)
	cmd.Flags().String("group-by", export.GroupBySex, "Summarize animals by: sex, group, none")

	return cmd
}

func runBin(cmd *cobra.Command, args []string) error {
	metric, err := pipeline.Lookup(args[0])
	if err != nil {
		return err
	}
	groupBy, _ := cmd.Flags().GetString("group-by")

	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	records, err := e.loadRecords(cmd)
	if err != nil {
		return err
	}

	started := time.Now()
	e.log.LogAnalysisStart(metric.Name, len(records))
	res, err := pipeline.Run(records, e.cfg.Window.Binning(), metric)
	if err != nil {
		return fmt.Errorf("compute %s: %w", metric.Name, err)
	}
	report, err := export.FromResult(res, strings.ToLower(groupBy))
	if err != nil {
		return err
	}
	e.log.LogAnalysisComplete(metric.Name, time.Since(started))

	if err := e.emit(cmd, report); err != nil {
		return err
	}
	return e.record(cmd.Context(), report, len(res.Animals))
}
