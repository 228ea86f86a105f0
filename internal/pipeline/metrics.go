package pipeline

import (
	"fmt"
	"sort"
	"strings"
)

// Metric names a plotted quantity and the Binner that computes it
type Metric struct {
	Name        string `json:"name"`
	Unit        string `json:"unit"`
	Description string `json:"description"`
	Binner      Binner `json:"-"`
}

var registry = []Metric{
	{
		Name:        "crossings",
		Unit:        "count",
		Description: "line crossings per bin",
		Binner:      EventBinner(Crossings),
	},
	{
		Name:        "accumulated-crossings",
		Unit:        "count",
		Description: "cumulative line crossings at each bin end",
		Binner:      AccumulatedEventBinner(Crossings),
	},
	{
		Name:        "periphery-crossings",
		Unit:        "count",
		Description: "periphery line crossings per bin",
		Binner:      EventBinner(PeripheryCrossings),
	},
	{
		Name:        "accumulated-periphery-crossings",
		Unit:        "count",
		Description: "cumulative periphery line crossings at each bin end",
		Binner:      AccumulatedEventBinner(PeripheryCrossings),
	},
	{
		Name:        "thigmotaxis",
		Unit:        "index",
		Description: "periphery crossings / total crossings per bin",
		Binner:      ThigmotaxisBinner(),
	},
	{
		Name:        "periphery-center",
		Unit:        "ratio",
		Description: "periphery crossings / max(center crossings, 1) per bin",
		Binner:      PeripheryCenterBinner(),
	},
	{
		Name:        "freezing",
		Unit:        "seconds",
		Description: "time spent freezing per bin",
		Binner:      IntervalBinner(Freezing),
	},
	{
		Name:        "grooming",
		Unit:        "seconds",
		Description: "time spent grooming per bin",
		Binner:      IntervalBinner(Grooming),
	},
}

// Metrics returns every registered metric in display order
func Metrics() []Metric {
	out := make([]Metric, len(registry))
	copy(out, registry)
	return out
}

// Names returns the registered metric names sorted alphabetically
func Names() []string {
	names := make([]string, 0, len(registry))
	for _, m := range registry {
		names = append(names, m.Name)
	}
	sort.Strings(names)
	return names
}

// Lookup finds a metric by name (case-insensitive)
func Lookup(name string) (Metric, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, m := range registry {
		if m.Name == name {
			return m, nil
		}
	}
	return Metric{}, fmt.Errorf("unknown metric %q (available: %s)", name, strings.Join(Names(), ", "))
}
