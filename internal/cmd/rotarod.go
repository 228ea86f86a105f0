package cmd

import (
	"fmt"
	"time"

	"github.com/harrison/fieldstat/internal/dataset"
	"github.com/harrison/fieldstat/internal/export"
	"github.com/harrison/fieldstat/internal/rotarod"
	"github.com/spf13/cobra"
)

// NewRotarodCommand creates the 'fieldstat rotarod' command
func NewRotarodCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rotarod [file]",
		Short: "Build rotarod learning curves",
		Long: `Read a rotarod trial CSV with "Subject ID" and "Duration(sec)" columns
(plus optional "Date" and "Time"), number each subject's trials as sessions
in time order, and report per-subject learning curves and per-sex session
means ± SEM.

The file defaults to rotarod_file from the config, resolved against data_dir.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRotarod,
	}

	addOutputFlags(cmd)

	return cmd
}

func runRotarod(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	path := e.cfg.RotarodPath()
	if len(args) == 1 {
		path = args[0]
	}

	trials, err := dataset.LoadRotarod(path)
	if err != nil {
		return fmt.Errorf("load rotarod trials: %w", err)
	}

	started := time.Now()
	curves := rotarod.Curves(trials)
	e.log.LogAnalysisStart("rotarod", len(curves))
	report := export.FromRotarod(curves, rotarod.SexComparison(trials))
	e.log.LogAnalysisComplete("rotarod", time.Since(started))

	if err := e.emit(cmd, report); err != nil {
		return err
	}
	return e.record(cmd.Context(), report, len(curves))
}
