package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetFieldstatHome returns the fieldstat home directory
// Priority order:
//  1. FIELDSTAT_HOME environment variable (if set)
//  2. Nearest ancestor of the working directory containing a .fieldstat-root marker
//  3. .fieldstat under the current working directory (fallback)
//
// The directory is created if it doesn't exist
func GetFieldstatHome() (string, error) {
	if home := os.Getenv("FIELDSTAT_HOME"); home != "" {
		if err := os.MkdirAll(home, 0755); err != nil {
			return "", fmt.Errorf("create fieldstat home directory: %w", err)
		}
		return home, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	base := cwd
	if root, ok := findProjectRoot(cwd); ok {
		base = root
	}

	home := filepath.Join(base, ".fieldstat")
	if err := os.MkdirAll(home, 0755); err != nil {
		return "", fmt.Errorf("create fieldstat home directory: %w", err)
	}
	return home, nil
}

// findProjectRoot walks up from dir looking for a .fieldstat-root marker file
func findProjectRoot(dir string) (string, bool) {
	current := dir
	for {
		if _, err := os.Stat(filepath.Join(current, ".fieldstat-root")); err == nil {
			return current, true
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}

// GetResultsDBPath returns the path to the results database
// Always returns: $FIELDSTAT_HOME/results.db
func GetResultsDBPath() (string, error) {
	home, err := GetFieldstatHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "results.db"), nil
}

// GetConfigPath returns the path to the config file in the fieldstat home
func GetConfigPath() (string, error) {
	home, err := GetFieldstatHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "config.yaml"), nil
}
