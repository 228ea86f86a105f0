// Package ratio derives per-animal and per-bin indices from crossing counts.
//
// Division-by-zero conventions, applied by every caller in this module:
//   - PeripheryCenter floors the center count at 1, so it never divides by zero.
//   - Thigmotaxis returns 0 when the total count is 0 (no crossings means no
//     evidence of wall-hugging) and caps the index at 1, since a periphery count
//     above the total can only come from inconsistent input.
package ratio

import (
	"errors"
	"fmt"
	"math"

	"github.com/harrison/fieldstat/internal/models"
)

// ErrLengthMismatch is returned when paired series do not have the same number of bins
var ErrLengthMismatch = errors.New("series length mismatch")

// PeripheryCenter returns periphery / max(total - periphery, 1)
func PeripheryCenter(periphery, total float64) float64 {
	center := math.Max(total-periphery, 1)
	return periphery / center
}

// Thigmotaxis returns periphery / total, 0 when total is not positive, capped at 1
func Thigmotaxis(periphery, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Min(periphery/total, 1)
}

// ThigmotaxisSeries applies Thigmotaxis bin by bin
func ThigmotaxisSeries(periphery, total models.Series) (models.Series, error) {
	return pairwise(periphery, total, Thigmotaxis)
}

// PeripheryCenterSeries applies PeripheryCenter bin by bin
func PeripheryCenterSeries(periphery, total models.Series) (models.Series, error) {
	return pairwise(periphery, total, PeripheryCenter)
}

func pairwise(a, b models.Series, fn func(x, y float64) float64) (models.Series, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("%w: %d vs %d bins", ErrLengthMismatch, len(a), len(b))
	}
	out := make(models.Series, len(a))
	for i := range a {
		out[i] = fn(a[i], b[i])
	}
	return out, nil
}
