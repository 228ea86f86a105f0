package dataset

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const openFieldSuffix = "_openfield"

// DiscoverUnits returns the sorted unit IDs that have an open-field file in dir
func DiscoverUnits(dir string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(dir), "*"+openFieldSuffix+".{yaml,yml,json}", doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	seen := make(map[string]bool, len(matches))
	units := make([]string, 0, len(matches))
	for _, name := range matches {
		unit := strings.TrimSuffix(name[:strings.LastIndex(name, ".")], openFieldSuffix)
		if unit == "" || seen[unit] {
			continue
		}
		seen[unit] = true
		units = append(units, unit)
	}
	sort.Strings(units)
	return units, nil
}

// SelectUnits expands unit patterns such as "M*" or "F{B,W}" against the units
// found in dir. Plain IDs are kept as given, even without a file, so the loader
// can report them missing. The result keeps first-seen order without duplicates.
func SelectUnits(dir string, patterns []string) ([]string, error) {
	var available []string
	var scanned bool

	seen := make(map[string]bool)
	var units []string
	add := func(u string) {
		if !seen[u] {
			seen[u] = true
			units = append(units, u)
		}
	}

	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.ContainsAny(p, "*?[{") {
			add(p)
			continue
		}
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid unit pattern %q", p)
		}

		if !scanned {
			var err error
			if available, err = DiscoverUnits(dir); err != nil {
				return nil, err
			}
			scanned = true
		}

		matched := false
		for _, u := range available {
			if ok, _ := doublestar.Match(p, u); ok {
				add(u)
				matched = true
			}
		}
		if !matched {
			return nil, fmt.Errorf("%w: no unit in %s matches %q", ErrNoData, dir, p)
		}
	}
	return units, nil
}
