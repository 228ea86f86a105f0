// Package export renders analysis results as JSON, CSV, Markdown or HTML reports.
package export

import (
	"fmt"
	"time"

	"github.com/harrison/fieldstat/internal/binning"
	"github.com/harrison/fieldstat/internal/groupstats"
	"github.com/harrison/fieldstat/internal/pipeline"
	"github.com/harrison/fieldstat/internal/rotarod"
)

// Grouping values accepted by FromResult
const (
	GroupByNone  = "none"
	GroupBySex   = "sex"
	GroupByGroup = "group"
)

// Report is the format-independent content of an exported analysis. A report
// carries per-bin series, whole-window ratios, rotarod curves, or a mix.
type Report struct {
	Title       string                     `json:"title"`
	Metric      string                     `json:"metric,omitempty"`
	Unit        string                     `json:"unit,omitempty"`
	Window      *binning.Window            `json:"window,omitempty"`
	BinEnds     []float64                  `json:"bin_ends_minutes,omitempty"`
	Animals     []pipeline.AnimalSeries    `json:"animals,omitempty"`
	GroupBy     string                     `json:"group_by,omitempty"`
	Groups      []groupstats.Summary       `json:"groups,omitempty"`
	Ratios      []pipeline.AnimalRatio     `json:"ratios,omitempty"`
	RatioGroups []groupstats.ScalarSummary `json:"ratio_groups,omitempty"`
	Curves      []rotarod.Curve            `json:"curves,omitempty"`
	SexCurves   []rotarod.SexCurve         `json:"sex_curves,omitempty"`
	GeneratedAt time.Time                  `json:"generated_at"`
}

// FromResult builds a report from a pipeline result, summarizing animals by
// sex or color group unless groupBy is "none" or empty.
func FromResult(res *pipeline.Result, groupBy string) (*Report, error) {
	if res == nil {
		return nil, fmt.Errorf("result cannot be nil")
	}

	window := res.Window
	r := &Report{
		Title:       fmt.Sprintf("%s per %gs bin", res.Metric.Name, res.Window.BinWidth),
		Metric:      res.Metric.Name,
		Unit:        res.Metric.Unit,
		Window:      &window,
		BinEnds:     res.BinEnds,
		Animals:     res.Animals,
		GeneratedAt: time.Now(),
	}

	var err error
	switch groupBy {
	case "", GroupByNone:
	case GroupBySex:
		r.GroupBy = GroupBySex
		r.Groups, err = res.BySex()
	case GroupByGroup:
		r.GroupBy = GroupByGroup
		r.Groups, err = res.ByGroup()
	default:
		return nil, fmt.Errorf("invalid group-by %q, must be one of: none, sex, group", groupBy)
	}
	if err != nil {
		return nil, fmt.Errorf("group %s: %w", groupBy, err)
	}
	return r, nil
}

// FromRatios builds a periphery/center ratio report with a by-sex summary
func FromRatios(ratios []pipeline.AnimalRatio, window binning.Window) *Report {
	return &Report{
		Title:       "Periphery/center ratio",
		Metric:      "periphery-center-ratio",
		Unit:        "ratio",
		Window:      &window,
		Ratios:      ratios,
		GroupBy:     GroupBySex,
		RatioGroups: pipeline.RatiosBySex(ratios),
		GeneratedAt: time.Now(),
	}
}

// FromRotarod builds a learning curve report with per-sex session means
func FromRotarod(curves []rotarod.Curve, bySex []rotarod.SexCurve) *Report {
	return &Report{
		Title:       "Rotarod latency to fall",
		Metric:      "rotarod",
		Unit:        "seconds",
		Curves:      curves,
		GroupBy:     GroupBySex,
		SexCurves:   bySex,
		GeneratedAt: time.Now(),
	}
}

// Validate checks that every series matches the bin axis
func (r *Report) Validate() error {
	if r.Title == "" {
		return fmt.Errorf("report title is required")
	}
	for _, a := range r.Animals {
		if len(a.Values) != len(r.BinEnds) {
			return fmt.Errorf("animal %q has %d values for %d bins", a.ID, len(a.Values), len(r.BinEnds))
		}
	}
	for _, g := range r.Groups {
		if len(g.Mean) != len(r.BinEnds) || len(g.SEM) != len(r.BinEnds) {
			return fmt.Errorf("group %q does not match %d bins", g.Key, len(r.BinEnds))
		}
	}
	return nil
}
