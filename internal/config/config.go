package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/harrison/fieldstat/internal/binning"
	"github.com/harrison/fieldstat/internal/logger"
	"gopkg.in/yaml.v3"
)

// DefaultUnits are the eight open-field animals: sex (F/M) followed by color group (B/G/R/W)
var DefaultUnits = []string{"FB", "FG", "FR", "FW", "MB", "MG", "MR", "MW"}

// WindowConfig is the analysis window and bin width
type WindowConfig struct {
	// Start is the recording time at which the analysis window opens
	Start time.Duration `yaml:"start"`

	// End is the recording time at which the analysis window closes (exclusive)
	End time.Duration `yaml:"end"`

	// BinWidth is the width of each time bin
	BinWidth time.Duration `yaml:"bin_width"`
}

// StoreConfig controls the results database
type StoreConfig struct {
	// Enabled records every analysis run in the results database
	Enabled bool `yaml:"enabled"`

	// DBPath is the path to the results database (empty = <home>/results.db)
	DBPath string `yaml:"db_path"`
}

// Config represents fieldstat configuration options
type Config struct {
	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// DataDir is the directory holding <UNIT>_openfield.yaml files
	DataDir string `yaml:"data_dir"`

	// Units lists the animal unit IDs to load
	Units []string `yaml:"units"`

	// Window is the analysis window
	Window WindowConfig `yaml:"window"`

	// RotarodFile is the rotarod trial CSV, relative to DataDir unless absolute
	RotarodFile string `yaml:"rotarod_file"`

	// OutputDir is where exported reports are written
	OutputDir string `yaml:"output_dir"`

	// Store contains results database configuration
	Store StoreConfig `yaml:"store"`
}

// DefaultConfig returns a Config with the lab's standard analysis settings
func DefaultConfig() *Config {
	units := make([]string, len(DefaultUnits))
	copy(units, DefaultUnits)

	return &Config{
		LogLevel: "info",
		DataDir:  "data",
		Units:    units,
		Window: WindowConfig{
			Start:    3 * time.Second,
			End:      603 * time.Second,
			BinWidth: 150 * time.Second,
		},
		RotarodFile: "rotarod.csv",
		OutputDir:   filepath.Join(".fieldstat", "output"),
		Store: StoreConfig{
			Enabled: true,
		},
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Durations are parsed from strings such as "150s" or "2m30s"
	type yamlWindow struct {
		Start    string `yaml:"start"`
		End      string `yaml:"end"`
		BinWidth string `yaml:"bin_width"`
	}
	type yamlConfig struct {
		LogLevel    string      `yaml:"log_level"`
		DataDir     string      `yaml:"data_dir"`
		Units       []string    `yaml:"units"`
		Window      yamlWindow  `yaml:"window"`
		RotarodFile string      `yaml:"rotarod_file"`
		OutputDir   string      `yaml:"output_dir"`
		Store       StoreConfig `yaml:"store"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if yamlCfg.DataDir != "" {
		cfg.DataDir = yamlCfg.DataDir
	}
	if len(yamlCfg.Units) > 0 {
		cfg.Units = yamlCfg.Units
	}
	if yamlCfg.RotarodFile != "" {
		cfg.RotarodFile = yamlCfg.RotarodFile
	}
	if yamlCfg.OutputDir != "" {
		cfg.OutputDir = yamlCfg.OutputDir
	}

	windowFields := []struct {
		name  string
		value string
		dest  *time.Duration
	}{
		{"window.start", yamlCfg.Window.Start, &cfg.Window.Start},
		{"window.end", yamlCfg.Window.End, &cfg.Window.End},
		{"window.bin_width", yamlCfg.Window.BinWidth, &cfg.Window.BinWidth},
	}
	for _, f := range windowFields {
		if f.value == "" {
			continue
		}
		d, err := time.ParseDuration(f.value)
		if err != nil {
			return nil, fmt.Errorf("invalid %s format %q: %w", f.name, f.value, err)
		}
		*f.dest = d
	}

	// store.enabled defaults to true, so only an explicit key may turn it off
	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err == nil {
		if storeSection, exists := rawMap["store"]; exists && storeSection != nil {
			storeMap, _ := storeSection.(map[string]interface{})
			if _, exists := storeMap["enabled"]; exists {
				cfg.Store.Enabled = yamlCfg.Store.Enabled
			}
			if _, exists := storeMap["db_path"]; exists {
				cfg.Store.DBPath = yamlCfg.Store.DBPath
			}
		}
	}

	return cfg, nil
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
func (c *Config) MergeWithFlags(logLevel, dataDir, outputDir *string, start, end, binWidth *time.Duration, storeEnabled *bool) {
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if dataDir != nil {
		c.DataDir = *dataDir
	}
	if outputDir != nil {
		c.OutputDir = *outputDir
	}
	if start != nil {
		c.Window.Start = *start
	}
	if end != nil {
		c.Window.End = *end
	}
	if binWidth != nil {
		c.Window.BinWidth = *binWidth
	}
	if storeEnabled != nil {
		c.Store.Enabled = *storeEnabled
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	if !logger.ValidLogLevel(c.LogLevel) {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if len(c.Units) == 0 {
		return fmt.Errorf("units cannot be empty")
	}
	seen := make(map[string]bool, len(c.Units))
	for _, u := range c.Units {
		if u == "" {
			return fmt.Errorf("units cannot contain an empty ID")
		}
		if seen[u] {
			return fmt.Errorf("duplicate unit %q", u)
		}
		seen[u] = true
	}

	if err := c.Window.Binning().Validate(); err != nil {
		return fmt.Errorf("invalid window: %w", err)
	}

	return nil
}

// Binning converts the window to seconds for the aggregator
func (w WindowConfig) Binning() binning.Window {
	return binning.Window{
		Start:    w.Start.Seconds(),
		End:      w.End.Seconds(),
		BinWidth: w.BinWidth.Seconds(),
	}
}

// RotarodPath resolves RotarodFile against DataDir
func (c *Config) RotarodPath() string {
	if filepath.IsAbs(c.RotarodFile) {
		return c.RotarodFile
	}
	return filepath.Join(c.DataDir, c.RotarodFile)
}

// ResultsDBPath returns the configured results database path, defaulting to <home>/results.db
func (c *Config) ResultsDBPath() (string, error) {
	if c.Store.DBPath != "" {
		return c.Store.DBPath, nil
	}
	return GetResultsDBPath()
}
