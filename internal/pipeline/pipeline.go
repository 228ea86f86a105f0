// Package pipeline runs a single parameterized aggregation over every animal:
// a Binner turns one record into a per-bin series and Run applies it across
// the cohort. Each plotted quantity is a Metric pairing a name with its Binner.
package pipeline

import (
	"fmt"
	"sort"

	"github.com/harrison/fieldstat/internal/binning"
	"github.com/harrison/fieldstat/internal/groupstats"
	"github.com/harrison/fieldstat/internal/models"
	"github.com/harrison/fieldstat/internal/ratio"
)

// Binner produces one per-bin series for an animal over a window
type Binner func(rec *models.AnimalRecord, w binning.Window) (models.Series, error)

// EventSelector picks an event series from a record
type EventSelector func(rec *models.AnimalRecord) []float64

// IntervalSelector picks an interval series from a record
type IntervalSelector func(rec *models.AnimalRecord) []models.Interval

// Crossings selects all line crossings
func Crossings(rec *models.AnimalRecord) []float64 { return rec.Crossings }

// PeripheryCrossings selects periphery line crossings
func PeripheryCrossings(rec *models.AnimalRecord) []float64 { return rec.PeripheryCrossings }

// Freezing selects freezing bouts
func Freezing(rec *models.AnimalRecord) []models.Interval { return rec.Freezing }

// Grooming selects grooming bouts
func Grooming(rec *models.AnimalRecord) []models.Interval { return rec.Grooming }

// EventBinner counts selected events per bin
func EventBinner(sel EventSelector) Binner {
	return func(rec *models.AnimalRecord, w binning.Window) (models.Series, error) {
		return w.CountEvents(sel(rec))
	}
}

// AccumulatedEventBinner counts selected events per bin and accumulates the counts
func AccumulatedEventBinner(sel EventSelector) Binner {
	return func(rec *models.AnimalRecord, w binning.Window) (models.Series, error) {
		return w.AccumulateEvents(sel(rec))
	}
}

// IntervalBinner sums the time covered by selected intervals per bin
func IntervalBinner(sel IntervalSelector) Binner {
	return func(rec *models.AnimalRecord, w binning.Window) (models.Series, error) {
		return w.IntervalDurations(sel(rec))
	}
}

// ThigmotaxisBinner computes periphery/total crossings per bin
func ThigmotaxisBinner() Binner {
	return crossingRatioBinner(ratio.ThigmotaxisSeries)
}

// PeripheryCenterBinner computes periphery/max(center, 1) crossings per bin
func PeripheryCenterBinner() Binner {
	return crossingRatioBinner(ratio.PeripheryCenterSeries)
}

func crossingRatioBinner(fn func(periphery, total models.Series) (models.Series, error)) Binner {
	return func(rec *models.AnimalRecord, w binning.Window) (models.Series, error) {
		periphery, err := w.CountEvents(rec.PeripheryCrossings)
		if err != nil {
			return nil, err
		}
		total, err := w.CountEvents(rec.Crossings)
		if err != nil {
			return nil, err
		}
		return fn(periphery, total)
	}
}

// AnimalSeries is one animal's series for a metric
type AnimalSeries struct {
	ID     string        `json:"id"`
	Sex    models.Sex    `json:"sex"`
	Group  models.Group  `json:"group"`
	Color  string        `json:"color"`
	Values models.Series `json:"values"`
}

// Result is the output of running a metric over a cohort
type Result struct {
	Metric  Metric         `json:"metric"`
	Window  binning.Window `json:"window"`
	BinEnds []float64      `json:"bin_ends_minutes"`
	Animals []AnimalSeries `json:"animals"`
}

// Run applies metric to every record over window. Animals are returned sorted by ID.
// Invalid windows and invalid records are rejected before any binning happens.
func Run(records []*models.AnimalRecord, window binning.Window, metric Metric) (*Result, error) {
	if metric.Binner == nil {
		return nil, fmt.Errorf("metric %q has no binner", metric.Name)
	}
	binEnds, err := window.BinEndsMinutes()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(records))
	animals := make([]AnimalSeries, 0, len(records))
	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("animal %q: %w", rec.ID, err)
		}
		if seen[rec.ID] {
			return nil, fmt.Errorf("duplicate animal %q", rec.ID)
		}
		seen[rec.ID] = true

		values, err := metric.Binner(rec, window)
		if err != nil {
			return nil, fmt.Errorf("animal %q: %s: %w", rec.ID, metric.Name, err)
		}
		animals = append(animals, AnimalSeries{
			ID:     rec.ID,
			Sex:    rec.Sex,
			Group:  rec.Group,
			Color:  rec.Color(),
			Values: values,
		})
	}

	sort.Slice(animals, func(i, j int) bool { return animals[i].ID < animals[j].ID })

	return &Result{
		Metric:  metric,
		Window:  window,
		BinEnds: binEnds,
		Animals: animals,
	}, nil
}

// Series returns the animals' values keyed by ID
func (r *Result) Series() map[string]models.Series {
	out := make(map[string]models.Series, len(r.Animals))
	for _, a := range r.Animals {
		out[a.ID] = a.Values
	}
	return out
}

// BySex returns per-bin mean and SEM for each sex present
func (r *Result) BySex() ([]groupstats.Summary, error) {
	return groupstats.ByKey(r.Series(), r.keyBy(func(a AnimalSeries) string { return string(a.Sex) }))
}

// ByGroup returns per-bin mean and SEM for each color group present
func (r *Result) ByGroup() ([]groupstats.Summary, error) {
	return groupstats.ByKey(r.Series(), r.keyBy(func(a AnimalSeries) string { return string(a.Group) }))
}

// keyBy builds a KeyFunc from an attribute of the result's animals. Animals
// with an empty attribute are excluded.
func (r *Result) keyBy(attr func(AnimalSeries) string) groupstats.KeyFunc {
	keys := make(map[string]string, len(r.Animals))
	for _, a := range r.Animals {
		keys[a.ID] = attr(a)
	}
	return func(id string) (string, bool) {
		k := keys[id]
		return k, k != ""
	}
}

// AnimalRatio is one animal's whole-window crossing summary
type AnimalRatio struct {
	ID              string       `json:"id"`
	Sex             models.Sex   `json:"sex"`
	Group           models.Group `json:"group"`
	Color           string       `json:"color"`
	Periphery       int          `json:"periphery_crossings"`
	Total           int          `json:"total_crossings"`
	PeripheryCenter float64      `json:"periphery_center_ratio"`
	Thigmotaxis     float64      `json:"thigmotaxis"`
}

// PeripheryCenterRatios computes each animal's periphery/center ratio and
// thigmotaxis index from crossings inside window, sorted by ID.
func PeripheryCenterRatios(records []*models.AnimalRecord, window binning.Window) ([]AnimalRatio, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}

	out := make([]AnimalRatio, 0, len(records))
	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("animal %q: %w", rec.ID, err)
		}
		p := window.Count(rec.PeripheryCrossings)
		t := window.Count(rec.Crossings)
		out = append(out, AnimalRatio{
			ID:              rec.ID,
			Sex:             rec.Sex,
			Group:           rec.Group,
			Color:           rec.Color(),
			Periphery:       p,
			Total:           t,
			PeripheryCenter: ratio.PeripheryCenter(float64(p), float64(t)),
			Thigmotaxis:     ratio.Thigmotaxis(float64(p), float64(t)),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// RatiosBySex returns the mean and SEM periphery/center ratio per sex
func RatiosBySex(ratios []AnimalRatio) []groupstats.ScalarSummary {
	values := make(map[string]float64, len(ratios))
	sexes := make(map[string]string, len(ratios))
	for _, r := range ratios {
		values[r.ID] = r.PeripheryCenter
		sexes[r.ID] = string(r.Sex)
	}
	return groupstats.ScalarsByKey(values, func(id string) (string, bool) {
		s := sexes[id]
		return s, s != ""
	})
}
