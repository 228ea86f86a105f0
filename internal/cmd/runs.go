package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/harrison/fieldstat/internal/display"
	"github.com/harrison/fieldstat/internal/export"
	"github.com/spf13/cobra"
)

// NewRunsCommand creates the 'fieldstat runs' parent command
func NewRunsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect recorded analysis runs",
		Long: `Commands for browsing and pruning the results database.

Every bin, ratio and rotarod analysis is recorded with its window and full
report unless recording is disabled with --no-store or store.enabled: false.`,
	}

	cmd.AddCommand(newRunsListCommand())
	cmd.AddCommand(newRunsShowCommand())
	cmd.AddCommand(newRunsPruneCommand())

	return cmd
}

func newRunsListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			metric, _ := cmd.Flags().GetString("metric")
			limit, _ := cmd.Flags().GetInt("limit")

			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			s, err := e.requireStore()
			if err != nil {
				return err
			}
			defer s.Close()

			runs, err := s.ListRuns(cmd.Context(), metric, limit)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}

			out := cmd.OutOrStdout()
			display.RenderRuns(out, runs, display.IsColorTerminal(out))
			return nil
		},
	}

	cmd.Flags().String("metric", "", "Only list runs of this metric")
	cmd.Flags().Int("limit", 20, "Maximum number of runs to list (0 = all)")

	return cmd
}

func newRunsShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show a recorded run's report",
		Long: `Show the report saved with a run. The ID may be shortened to any unique
prefix of at least four characters, as printed by 'fieldstat runs list'.`,
		Args: cobra.ExactArgs(1),
		RunE: runRunsShow,
	}

	cmd.Flags().String("format", "", "Export format: json, csv, markdown, html (default: console table)")

	return cmd
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	s, err := e.requireStore()
	if err != nil {
		return err
	}
	defer s.Close()

	run, err := s.GetRun(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	var report export.Report
	if err := json.Unmarshal(run.Payload, &report); err != nil {
		return fmt.Errorf("decode run %s: %w", run.ID, err)
	}

	out := cmd.OutOrStdout()
	if format == "" {
		fmt.Fprintf(out, "Run %s (%s, %d animals, %s)\n", run.ID, run.Metric, run.Animals,
			run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		if run.Source != "" {
			fmt.Fprintf(out, "Source: %s\n", run.Source)
		}
		fmt.Fprintln(out)
		display.RenderReport(out, &report, display.IsColorTerminal(out))
		return nil
	}

	exporter, err := export.ForFormat(format)
	if err != nil {
		return err
	}
	content, err := exporter.Export(&report)
	if err != nil {
		return fmt.Errorf("export %s: %w", format, err)
	}
	_, err = io.WriteString(out, content)
	return err
}

func newRunsPruneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete runs older than a given age",
		Long: `Delete recorded runs created more than --older-than ago.

Examples:
  # Delete runs older than 30 days (asks for confirmation)
  fieldstat runs prune --older-than 720h

  # Skip the confirmation prompt
  fieldstat runs prune --older-than 720h --yes`,
		Args: cobra.NoArgs,
		RunE: runRunsPrune,
	}

	cmd.Flags().String("older-than", "", "Minimum age of runs to delete (e.g., 720h)")
	cmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	_ = cmd.MarkFlagRequired("older-than")

	return cmd
}

func runRunsPrune(cmd *cobra.Command, args []string) error {
	ageStr, _ := cmd.Flags().GetString("older-than")
	yes, _ := cmd.Flags().GetBool("yes")

	age, err := time.ParseDuration(ageStr)
	if err != nil {
		return fmt.Errorf("invalid --older-than format %q: %w", ageStr, err)
	}
	if age < 0 {
		return fmt.Errorf("--older-than cannot be negative")
	}

	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	cutoff := time.Now().Add(-age)
	if !yes {
		fmt.Fprintf(out, "This will delete all runs recorded before %s.\n", cutoff.Local().Format("2006-01-02 15:04"))
		if !confirmAction(cmd.InOrStdin(), out) {
			fmt.Fprintln(out, "Operation cancelled.")
			return nil
		}
	}

	s, err := e.requireStore()
	if err != nil {
		return err
	}
	defer s.Close()

	deleted, err := s.DeleteRuns(cmd.Context(), cutoff)
	if err != nil {
		return fmt.Errorf("prune runs: %w", err)
	}
	fmt.Fprintf(out, "Deleted %d run(s)\n", deleted)
	return nil
}

// confirmAction prompts on out and reads a yes/no answer from in
func confirmAction(in io.Reader, out io.Writer) bool {
	fmt.Fprint(out, "Continue? [y/N]: ")

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return false
	}

	response := strings.TrimSpace(strings.ToLower(scanner.Text()))
	return response == "y" || response == "yes"
}
