package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/harrison/fieldstat/internal/config"
	"github.com/harrison/fieldstat/internal/dataset"
	"github.com/harrison/fieldstat/internal/logger"
	"github.com/harrison/fieldstat/internal/store"
	"github.com/spf13/cobra"
)

// env is the merged configuration and logger a command runs with
type env struct {
	cfg *config.Config
	log *logger.ConsoleLogger
}

// addWindowFlags registers the analysis window overrides on cmd
func addWindowFlags(cmd *cobra.Command) {
	cmd.Flags().String("start", "", "Window start (e.g., 3s, 1m)")
	cmd.Flags().String("end", "", "Window end, exclusive (e.g., 603s, 10m3s)")
	cmd.Flags().String("bin-width", "", "Bin width (e.g., 150s, 2m30s)")
}

// loadEnv loads the config file, applies flag overrides and validates the result
func loadEnv(cmd *cobra.Command) (*env, error) {
	configPath, _ := cmd.Flags().GetString("config")
	var cfg *config.Config
	var err error

	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		defaultPath, err := config.GetConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to locate config: %w", err)
		}
		cfg, err = config.LoadConfig(defaultPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	// Build flag pointers for merge (only flags the user set)
	stringFlag := func(name string) *string {
		if !cmd.Flags().Changed(name) {
			return nil
		}
		v, _ := cmd.Flags().GetString(name)
		return &v
	}

	var window [3]*time.Duration
	for i, name := range []string{"start", "end", "bin-width"} {
		s := stringFlag(name)
		if s == nil {
			continue
		}
		d, err := time.ParseDuration(*s)
		if err != nil {
			return nil, fmt.Errorf("invalid --%s format %q: %w", name, *s, err)
		}
		window[i] = &d
	}

	var storePtr *bool
	if cmd.Flags().Changed("no-store") {
		noStore, _ := cmd.Flags().GetBool("no-store")
		enabled := !noStore
		storePtr = &enabled
	}

	cfg.MergeWithFlags(stringFlag("log-level"), stringFlag("data-dir"), stringFlag("output-dir"),
		window[0], window[1], window[2], storePtr)

	if cmd.Flags().Changed("units") {
		patterns, _ := cmd.Flags().GetStringSlice("units")
		units, err := dataset.SelectUnits(cfg.DataDir, patterns)
		if err != nil {
			return nil, fmt.Errorf("resolve --units: %w", err)
		}
		cfg.Units = units
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	log.LogTrace(fmt.Sprintf("config: data_dir=%s units=%s window=%s store=%t",
		cfg.DataDir, strings.Join(cfg.Units, ","), cfg.Window.Binning(), cfg.Store.Enabled))

	return &env{cfg: cfg, log: log}, nil
}

// openStore opens the results database, or returns nil when recording is disabled
func (e *env) openStore() (*store.Store, error) {
	if !e.cfg.Store.Enabled {
		return nil, nil
	}
	return e.requireStore()
}

// requireStore opens the results database regardless of the enabled setting
func (e *env) requireStore() (*store.Store, error) {
	dbPath, err := e.cfg.ResultsDBPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get results database path: %w", err)
	}
	s, err := store.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open results store: %w", err)
	}
	if version, err := s.GetLatestVersion(); err == nil {
		e.log.LogTrace(fmt.Sprintf("results store %s at schema v%d", dbPath, version))
	}
	return s, nil
}
