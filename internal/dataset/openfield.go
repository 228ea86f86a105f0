// Package dataset loads per-animal open-field recordings and rotarod trial
// tables from disk and validates them before analysis.
package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harrison/fieldstat/internal/logger"
	"github.com/harrison/fieldstat/internal/models"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNoData is returned when none of the requested units has a data file
	ErrNoData = errors.New("no animal data found")

	// ErrInvalidRecord is returned when a data file contains malformed values
	ErrInvalidRecord = errors.New("invalid record")
)

// openFieldExtensions are tried in order for each unit. JSON is valid YAML,
// so every extension goes through the same decoder.
var openFieldExtensions = []string{".yaml", ".yml", ".json"}

// openFieldFile is the on-disk layout of <UNIT>_openfield.yaml
type openFieldFile struct {
	ID        string      `yaml:"id"`
	Sex       string      `yaml:"sex"`
	Group     string      `yaml:"group"`
	Crossings []float64   `yaml:"crossing_times"`
	Periphery []float64   `yaml:"periphery_times"`
	Freezing  [][]float64 `yaml:"freezing_start_stop"`
	Grooming  [][]float64 `yaml:"grooming_start_stop"`
}

// progressLogger is implemented by loggers that can render load progress
type progressLogger interface {
	LogLoadProgress(loaded, total int)
}

// missingUnitLogger is implemented by loggers with a dedicated missing-file warning
type missingUnitLogger interface {
	LogMissingUnit(unit, path string)
}

// OpenFieldPath returns the path LoadAnimals tries first for unit
func OpenFieldPath(dir, unit string) string {
	return filepath.Join(dir, unit+"_openfield"+openFieldExtensions[0])
}

// LoadAnimals reads one open-field file per unit from dir. Units without a
// file are logged and skipped; a malformed file fails the whole load.
// Returns ErrNoData when no unit could be loaded.
func LoadAnimals(dir string, units []string, log logger.Logger) ([]*models.AnimalRecord, error) {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	records := make([]*models.AnimalRecord, 0, len(units))
	for _, unit := range units {
		path, ok := findOpenFieldFile(dir, unit)
		if !ok {
			if ml, ok := log.(missingUnitLogger); ok {
				ml.LogMissingUnit(unit, OpenFieldPath(dir, unit))
			} else {
				log.LogWarn(fmt.Sprintf("data file not found for unit %q", unit))
			}
			continue
		}

		rec, err := LoadAnimalFile(path, unit)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)

		if pl, ok := log.(progressLogger); ok {
			pl.LogLoadProgress(len(records), len(units))
		}
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w in %s for units %s", ErrNoData, dir, strings.Join(units, ", "))
	}
	return records, nil
}

func findOpenFieldFile(dir, unit string) (string, bool) {
	for _, ext := range openFieldExtensions {
		path := filepath.Join(dir, unit+"_openfield"+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// LoadAnimalFile parses a single open-field file. unit is used as the animal
// ID unless the file sets its own id; sex and group are derived from the ID
// unless the file overrides them.
func LoadAnimalFile(path, unit string) (*models.AnimalRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var raw openFieldFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidRecord, path, err)
	}

	id := unit
	if raw.ID != "" {
		id = raw.ID
	}
	rec := models.NewAnimalRecord(id)

	if raw.Sex != "" {
		sex, err := parseSex(raw.Sex)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRecord, path, err)
		}
		rec.Sex = sex
	}
	if raw.Group != "" {
		group, err := parseGroup(raw.Group)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRecord, path, err)
		}
		rec.Group = group
	}

	rec.Crossings = raw.Crossings
	rec.PeripheryCrossings = raw.Periphery
	if rec.Freezing, err = toIntervals("freezing_start_stop", raw.Freezing); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRecord, path, err)
	}
	if rec.Grooming, err = toIntervals("grooming_start_stop", raw.Grooming); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRecord, path, err)
	}

	if err := rec.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRecord, path, err)
	}
	return rec, nil
}

func toIntervals(field string, pairs [][]float64) ([]models.Interval, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	intervals := make([]models.Interval, 0, len(pairs))
	for i, p := range pairs {
		if len(p) != 2 {
			return nil, fmt.Errorf("%s[%d]: expected [start, stop], got %d values", field, i, len(p))
		}
		intervals = append(intervals, models.Interval{Start: p[0], Stop: p[1]})
	}
	return intervals, nil
}

func parseSex(s string) (models.Sex, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m", "male":
		return models.SexMale, nil
	case "f", "female":
		return models.SexFemale, nil
	}
	return models.SexUnknown, fmt.Errorf("unknown sex %q", s)
}

func parseGroup(s string) (models.Group, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, g := range models.Groups {
		if s == string(g) || s == string(g)[:1] {
			return g, nil
		}
	}
	return "", fmt.Errorf("unknown group %q", s)
}
