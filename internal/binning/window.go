package binning

import (
	"fmt"
	"math"

	"github.com/harrison/fieldstat/internal/models"
)

// Window is an analysis window [Start, End) in recording time, split into
// bins of BinWidth seconds. Timestamps are shifted by Start before binning so
// bin 0 always begins at the window start.
type Window struct {
	Start    float64 `json:"start_seconds"`
	End      float64 `json:"end_seconds"`
	BinWidth float64 `json:"bin_width_seconds"`
}

// DefaultWindow is the 10-minute open-field window used by the lab: recording
// seconds 3 to 603 in four 150-second bins.
func DefaultWindow() Window {
	return Window{Start: 3, End: 603, BinWidth: 150}
}

// Duration returns End - Start
func (w Window) Duration() float64 {
	return w.End - w.Start
}

// Validate checks the window bounds and bin width
func (w Window) Validate() error {
	if math.IsNaN(w.Start) || math.IsInf(w.Start, 0) {
		return fmt.Errorf("%w: window start must be finite, got %v", ErrInvalidParameter, w.Start)
	}
	if !(w.End > w.Start) {
		return fmt.Errorf("%w: window end %v must be after start %v", ErrInvalidParameter, w.End, w.Start)
	}
	return validateParams(w.BinWidth, w.Duration())
}

// Bins returns the number of bins in the window
func (w Window) Bins() (int, error) {
	if err := w.Validate(); err != nil {
		return 0, err
	}
	return numBins(w.BinWidth, w.Duration()), nil
}

// BinEnds returns the end of each bin in seconds relative to the window start.
// The last bin end is clipped to the window duration.
func (w Window) BinEnds() ([]float64, error) {
	n, err := w.Bins()
	if err != nil {
		return nil, err
	}
	ends := make([]float64, n)
	for k := range ends {
		ends[k] = math.Min(float64(k+1)*w.BinWidth, w.Duration())
	}
	return ends, nil
}

// BinEndsMinutes returns BinEnds converted to minutes, the x-axis used by the charts
func (w Window) BinEndsMinutes() ([]float64, error) {
	ends, err := w.BinEnds()
	if err != nil {
		return nil, err
	}
	for i := range ends {
		ends[i] /= 60
	}
	return ends, nil
}

func (w Window) shiftEvents(events []float64) []float64 {
	shifted := make([]float64, len(events))
	for i, t := range events {
		shifted[i] = t - w.Start
	}
	return shifted
}

func (w Window) shiftIntervals(intervals []models.Interval) []models.Interval {
	shifted := make([]models.Interval, len(intervals))
	for i, iv := range intervals {
		shifted[i] = models.Interval{Start: iv.Start - w.Start, Stop: iv.Stop - w.Start}
	}
	return shifted
}

// CountEvents bins events falling inside the window
func (w Window) CountEvents(events []float64) (models.Series, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return CountInBins(w.shiftEvents(events), w.BinWidth, w.Duration())
}

// AccumulateEvents returns cumulative per-bin counts of events inside the window
func (w Window) AccumulateEvents(events []float64) (models.Series, error) {
	counts, err := w.CountEvents(events)
	if err != nil {
		return nil, err
	}
	return Accumulate(counts), nil
}

// IntervalDurations returns per-bin seconds of overlap with the given intervals.
// Portions of an interval outside the window are dropped.
func (w Window) IntervalDurations(intervals []models.Interval) (models.Series, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return DurationInBins(w.shiftIntervals(intervals), w.BinWidth, w.Duration())
}

// Count returns the number of events inside [Start, End)
func (w Window) Count(events []float64) int {
	return CountInRange(events, w.Start, w.End)
}

// String formats the window for logs, e.g. "[3s, 603s) / 150s"
func (w Window) String() string {
	return fmt.Sprintf("[%gs, %gs) / %gs", w.Start, w.End, w.BinWidth)
}
