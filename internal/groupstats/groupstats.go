// Package groupstats summarizes per-animal series by a categorical attribute
// such as sex or color group.
//
// For every partition it reports the arithmetic mean and the standard error of
// the mean (sample standard deviation / sqrt(n)) bin by bin. Partitions with no
// members are omitted from the result instead of being reported as NaN.
package groupstats

import (
	"errors"
	"fmt"
	"sort"

	"github.com/harrison/fieldstat/internal/models"
	"gonum.org/v1/gonum/stat"
)

// ErrLengthMismatch is returned when animals in the same partition have series of different lengths
var ErrLengthMismatch = errors.New("series length mismatch within partition")

// KeyFunc maps an animal ID to its partition key. Returning false excludes the animal.
type KeyFunc func(id string) (string, bool)

// Summary is the per-bin mean and SEM of one partition
type Summary struct {
	Key  string        `json:"key"`
	N    int           `json:"n"`
	Mean models.Series `json:"mean"`
	SEM  models.Series `json:"sem"`
}

// ScalarSummary is the mean and SEM of one partition of per-animal scalars
type ScalarSummary struct {
	Key  string  `json:"key"`
	N    int     `json:"n"`
	Mean float64 `json:"mean"`
	SEM  float64 `json:"sem"`
}

// Describe returns the mean and SEM of values. ok is false for an empty input.
// A single value has SEM 0.
func Describe(values []float64) (mean, sem float64, ok bool) {
	n := len(values)
	if n == 0 {
		return 0, 0, false
	}
	mean = stat.Mean(values, nil)
	if n == 1 {
		return mean, 0, true
	}
	sem = stat.StdErr(stat.StdDev(values, nil), float64(n))
	return mean, sem, true
}

// ByKey partitions animals with key and computes per-bin mean and SEM for
// each non-empty partition. Results are sorted by key.
func ByKey(values map[string]models.Series, key KeyFunc) ([]Summary, error) {
	partitions := partition(keysOf(values), key)

	summaries := make([]Summary, 0, len(partitions))
	for _, k := range sortedKeys(partitions) {
		ids := partitions[k]
		bins := len(values[ids[0]])
		for _, id := range ids[1:] {
			if len(values[id]) != bins {
				return nil, fmt.Errorf("%w: partition %q, animal %s has %d bins, expected %d",
					ErrLengthMismatch, k, id, len(values[id]), bins)
			}
		}

		summary := Summary{
			Key:  k,
			N:    len(ids),
			Mean: make(models.Series, bins),
			SEM:  make(models.Series, bins),
		}
		column := make([]float64, len(ids))
		for b := 0; b < bins; b++ {
			for i, id := range ids {
				column[i] = values[id][b]
			}
			summary.Mean[b], summary.SEM[b], _ = Describe(column)
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// ScalarsByKey partitions per-animal scalar values with key and summarizes each non-empty partition
func ScalarsByKey(values map[string]float64, key KeyFunc) []ScalarSummary {
	ids := make([]string, 0, len(values))
	for id := range values {
		ids = append(ids, id)
	}
	partitions := partition(ids, key)

	summaries := make([]ScalarSummary, 0, len(partitions))
	for _, k := range sortedKeys(partitions) {
		column := make([]float64, 0, len(partitions[k]))
		for _, id := range partitions[k] {
			column = append(column, values[id])
		}
		mean, sem, _ := Describe(column)
		summaries = append(summaries, ScalarSummary{Key: k, N: len(column), Mean: mean, SEM: sem})
	}
	return summaries
}

func keysOf(values map[string]models.Series) []string {
	ids := make([]string, 0, len(values))
	for id := range values {
		ids = append(ids, id)
	}
	return ids
}

// partition groups ids by key; ids within a partition are sorted for deterministic output
func partition(ids []string, key KeyFunc) map[string][]string {
	sort.Strings(ids)
	partitions := make(map[string][]string)
	for _, id := range ids {
		k, ok := key(id)
		if !ok {
			continue
		}
		partitions[k] = append(partitions[k], id)
	}
	return partitions
}

func sortedKeys(partitions map[string][]string) []string {
	keys := make([]string, 0, len(partitions))
	for k := range partitions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
