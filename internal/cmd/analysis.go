package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/harrison/fieldstat/internal/dataset"
	"github.com/harrison/fieldstat/internal/display"
	"github.com/harrison/fieldstat/internal/export"
	"github.com/harrison/fieldstat/internal/logger"
	"github.com/harrison/fieldstat/internal/models"
	"github.com/harrison/fieldstat/internal/output"
	"github.com/harrison/fieldstat/internal/store"
	"github.com/spf13/cobra"
)

// missingUnits collects units without a data file so they can be reported
// together once loading finishes. Progress still goes to the console.
type missingUnits struct {
	*logger.ConsoleLogger
	units []string
}

func (m *missingUnits) LogMissingUnit(unit, path string) {
	m.units = append(m.units, unit)
	m.LogDebug(fmt.Sprintf("no data file for unit %q at %s", unit, path))
}

// loadRecords loads the configured units and warns about any that were skipped
func (e *env) loadRecords(cmd *cobra.Command) ([]*models.AnimalRecord, error) {
	tracker := &missingUnits{ConsoleLogger: e.log}
	records, err := dataset.LoadAnimals(e.cfg.DataDir, e.cfg.Units, tracker)
	if err != nil {
		return nil, fmt.Errorf("load animals: %w", err)
	}

	if len(tracker.units) > 0 {
		errOut := cmd.ErrOrStderr()
		display.WarnMissingUnits(e.cfg.DataDir, tracker.units).Display(errOut, display.IsColorTerminal(errOut))
	}
	return records, nil
}

// addOutputFlags registers the report format and destination flags on cmd
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "", "Export format: json, csv, markdown, html (default: console table)")
	cmd.Flags().String("output", "", "Export destination file, or - for stdout (default: <output-dir>/<metric>_<time>.<ext>)")
}

// emit prints the report as console tables, or exports it when --format is set
func (e *env) emit(cmd *cobra.Command, r *export.Report) error {
	out := cmd.OutOrStdout()
	format, _ := cmd.Flags().GetString("format")
	dest, _ := cmd.Flags().GetString("output")

	if format == "" {
		if dest != "" {
			return fmt.Errorf("--output requires --format")
		}
		display.RenderReport(out, r, display.IsColorTerminal(out))
		return nil
	}

	exporter, err := export.ForFormat(format)
	if err != nil {
		return err
	}
	content, err := exporter.Export(r)
	if err != nil {
		return fmt.Errorf("export %s: %w", format, err)
	}

	path, err := e.writeExport(out, dest, r.Metric, export.Extension(format), content)
	if err != nil {
		return err
	}
	if path != "" {
		e.log.LogArtifact(path)
		fmt.Fprintf(out, "Report written to %s\n", path)
	}
	return nil
}

// writeExport stores content at dest, stdout ("-") or a generated name in the
// output directory. Returns the written path, empty for stdout.
func (e *env) writeExport(out io.Writer, dest, metric, ext, content string) (string, error) {
	switch dest {
	case "-":
		_, err := io.WriteString(out, content)
		return "", err
	case "":
		w := output.NewWriter(e.cfg.OutputDir)
		path, err := w.WriteArtifact(output.ArtifactName(metric, ext, time.Now()), []byte(content))
		if err != nil {
			return "", fmt.Errorf("write report: %w", err)
		}
		return path, nil
	default:
		if err := output.AtomicWrite(dest, []byte(content)); err != nil {
			return "", fmt.Errorf("write report: %w", err)
		}
		return dest, nil
	}
}

// record saves the report in the results database when recording is enabled
func (e *env) record(ctx context.Context, r *export.Report, animals int) error {
	s, err := e.openStore()
	if err != nil || s == nil {
		return err
	}
	defer s.Close()

	payload, err := (&export.JSONExporter{}).Export(r)
	if err != nil {
		return fmt.Errorf("encode run: %w", err)
	}

	run := &store.Run{
		Metric:  r.Metric,
		Animals: animals,
		Source:  e.cfg.DataDir,
		Payload: []byte(payload),
	}
	if r.Window != nil {
		run.Window = *r.Window
	}
	if err := s.RecordRun(ctx, run); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	e.log.LogDebug(fmt.Sprintf("recorded run %s in %s", run.ID, s.Path()))
	return nil
}
