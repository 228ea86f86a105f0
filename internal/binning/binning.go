// Package binning discretizes event timestamps and behavior intervals into
// fixed-width time bins.
//
// A bin k covers the half-open window [k*W, (k+1)*W) for bin width W, and an
// observation of total duration T is split into ceil(T/W) bins. Timestamps
// outside [0, T) are ignored rather than treated as errors. All functions are
// pure: they allocate a fresh Series on every call and never retain their inputs.
//
// Example usage:
//
//	counts, err := binning.CountInBins([]float64{0.1, 5.6, 5.9, 9.9}, 2.5, 10)
//	// counts == Series{1, 0, 2, 1}
//	acc := binning.Accumulate(counts)
//	// acc == Series{1, 1, 3, 4}
package binning

import (
	"errors"
	"fmt"
	"math"

	"github.com/harrison/fieldstat/internal/models"
)

// ErrInvalidParameter is returned when a bin width or duration is not a positive finite number
var ErrInvalidParameter = errors.New("invalid parameter")

// binCountTolerance absorbs float division noise when T is an exact multiple of W
// (e.g. 0.6/0.2 == 2.9999999999999996)
const binCountTolerance = 1e-9

// NumBins returns ceil(total/width), the number of bins covering [0, total)
func NumBins(width, total float64) (int, error) {
	if err := validateParams(width, total); err != nil {
		return 0, err
	}
	return numBins(width, total), nil
}

func numBins(width, total float64) int {
	q := total / width
	rounded := math.Round(q)
	if math.Abs(q-rounded) <= binCountTolerance*math.Max(1, q) {
		return int(rounded)
	}
	return int(math.Ceil(q))
}

func validateParams(width, total float64) error {
	if math.IsNaN(width) || math.IsInf(width, 0) || width <= 0 {
		return fmt.Errorf("%w: bin width must be positive, got %v", ErrInvalidParameter, width)
	}
	if math.IsNaN(total) || math.IsInf(total, 0) || total <= 0 {
		return fmt.Errorf("%w: total duration must be positive, got %v", ErrInvalidParameter, total)
	}
	return nil
}

// binIndex returns the bin containing t, or -1 if t lies outside [0, total).
func binIndex(t, width, total float64, n int) int {
	if t < 0 || t >= total || math.IsNaN(t) {
		return -1
	}
	k := int(math.Floor(t / width))
	// t < total guarantees k < n mathematically; rounding can push it to n
	if k >= n {
		k = n - 1
	}
	return k
}

// CountInBins counts events per bin. Element k is the number of events t
// with k*width <= t < (k+1)*width. Events outside [0, total) are ignored and
// an empty event slice yields an all-zero series.
func CountInBins(events []float64, width, total float64) (models.Series, error) {
	if err := validateParams(width, total); err != nil {
		return nil, err
	}

	n := numBins(width, total)
	counts := make(models.Series, n)
	for _, t := range events {
		if k := binIndex(t, width, total, n); k >= 0 {
			counts[k]++
		}
	}
	return counts, nil
}

// Accumulate returns the running sum of a per-bin series:
// element k is the sum of elements 0..k of the input.
func Accumulate(series models.Series) models.Series {
	acc := make(models.Series, len(series))
	var running float64
	for i, v := range series {
		running += v
		acc[i] = running
	}
	return acc
}

// AccumulatedCounts returns the cumulative event count per bin
func AccumulatedCounts(events []float64, width, total float64) (models.Series, error) {
	counts, err := CountInBins(events, width, total)
	if err != nil {
		return nil, err
	}
	return Accumulate(counts), nil
}

// DurationInBins sums, per bin, the seconds of overlap between each interval
// and that bin's window. Intervals spanning several bins contribute a split
// share to each. Overlapping intervals are summed independently. The last bin
// ends at total when total is not a multiple of width.
func DurationInBins(intervals []models.Interval, width, total float64) (models.Series, error) {
	if err := validateParams(width, total); err != nil {
		return nil, err
	}

	n := numBins(width, total)
	durations := make(models.Series, n)
	for _, iv := range intervals {
		lo := math.Max(iv.Start, 0)
		hi := math.Min(iv.Stop, total)
		if hi <= lo {
			continue
		}

		first := int(math.Floor(lo / width))
		last := int(math.Floor(hi / width))
		if last >= n {
			last = n - 1
		}
		for k := first; k <= last; k++ {
			binStart := float64(k) * width
			binEnd := math.Min(float64(k+1)*width, total)
			overlap := math.Min(hi, binEnd) - math.Max(lo, binStart)
			if overlap > 0 {
				durations[k] += overlap
			}
		}
	}
	return durations, nil
}

// CountInRange returns the number of events with lo <= t < hi
func CountInRange(events []float64, lo, hi float64) int {
	count := 0
	for _, t := range events {
		if t >= lo && t < hi {
			count++
		}
	}
	return count
}
