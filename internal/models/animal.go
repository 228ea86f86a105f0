package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Sex is the categorical sex attribute of an animal
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = ""
)

// Group is the color group an animal belongs to
type Group string

const (
	GroupBlue  Group = "blue"
	GroupRed   Group = "red"
	GroupGreen Group = "green"
	GroupWhite Group = "white"
)

// Groups lists the color groups in display order
var Groups = []Group{GroupBlue, GroupRed, GroupGreen, GroupWhite}

// Title returns the capitalized group name used in chart titles ("Blue")
func (g Group) Title() string {
	if g == "" {
		return ""
	}
	return strings.ToUpper(string(g[:1])) + string(g[1:])
}

var groupCodes = map[byte]Group{
	'B': GroupBlue,
	'R': GroupRed,
	'G': GroupGreen,
	'W': GroupWhite,
}

// Interval is a (start, stop) pair in seconds marking the duration of a behavior
type Interval struct {
	Start float64 `json:"start" yaml:"start"`
	Stop  float64 `json:"stop" yaml:"stop"`
}

// Duration returns Stop - Start
func (iv Interval) Duration() float64 {
	return iv.Stop - iv.Start
}

// Validate checks that both bounds are finite and Start <= Stop
func (iv Interval) Validate() error {
	if !isFinite(iv.Start) || !isFinite(iv.Stop) {
		return fmt.Errorf("interval bounds must be finite: [%v, %v]", iv.Start, iv.Stop)
	}
	if iv.Start > iv.Stop {
		return fmt.Errorf("interval start %v is after stop %v", iv.Start, iv.Stop)
	}
	return nil
}

// Series is an ordered sequence of one scalar per bin
type Series []float64

// AnimalRecord holds one animal's identity and its recorded event and interval series.
// Records are built once by the data loader and treated as read-only afterwards.
type AnimalRecord struct {
	ID                 string     // Unit ID, e.g. "FB" or "MW"
	Sex                Sex        // Derived from the unit ID unless set explicitly
	Group              Group      // Color group
	Crossings          []float64  // Line crossing timestamps (seconds)
	PeripheryCrossings []float64  // Periphery line crossing timestamps (seconds)
	Freezing           []Interval // Freezing bouts
	Grooming           []Interval // Grooming bouts
}

// Validate rejects records the aggregator must never see: missing IDs,
// non-finite timestamps and inverted intervals.
func (r *AnimalRecord) Validate() error {
	if r.ID == "" {
		return errors.New("animal ID is required")
	}
	if err := validateEvents("crossings", r.Crossings); err != nil {
		return err
	}
	if err := validateEvents("periphery crossings", r.PeripheryCrossings); err != nil {
		return err
	}
	if err := validateIntervals("freezing", r.Freezing); err != nil {
		return err
	}
	if err := validateIntervals("grooming", r.Grooming); err != nil {
		return err
	}
	return nil
}

// Color returns the plot color for this animal
func (r *AnimalRecord) Color() string {
	return PlotColor(r.Sex, r.Group)
}

func validateEvents(name string, events []float64) error {
	for i, t := range events {
		if !isFinite(t) {
			return fmt.Errorf("%s[%d]: timestamp must be finite, got %v", name, i, t)
		}
	}
	return nil
}

func validateIntervals(name string, intervals []Interval) error {
	for i, iv := range intervals {
		if err := iv.Validate(); err != nil {
			return fmt.Errorf("%s[%d]: %w", name, i, err)
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ParseUnitID derives sex and color group from a unit ID such as "FB" (female, blue)
// or "MW" (male, white). Unrecognized characters yield the zero value for that field.
func ParseUnitID(id string) (Sex, Group) {
	id = strings.ToUpper(strings.TrimSpace(id))
	if id == "" {
		return SexUnknown, ""
	}

	sex := SexFromCode(id[0])
	var group Group
	if len(id) > 1 {
		group = groupCodes[id[1]]
	}
	return sex, group
}

// SexFromCode maps 'M'/'F' (any case) to a Sex
func SexFromCode(c byte) Sex {
	switch c {
	case 'M', 'm':
		return SexMale
	case 'F', 'f':
		return SexFemale
	default:
		return SexUnknown
	}
}

// NewAnimalRecord creates a record with sex and group derived from the unit ID
func NewAnimalRecord(id string) *AnimalRecord {
	sex, group := ParseUnitID(id)
	return &AnimalRecord{
		ID:    id,
		Sex:   sex,
		Group: group,
	}
}

var plotColors = map[Group]map[Sex]string{
	GroupBlue:  {SexMale: "darkblue", SexFemale: "cornflowerblue"},
	GroupRed:   {SexMale: "darkred", SexFemale: "lightcoral"},
	GroupGreen: {SexMale: "darkgreen", SexFemale: "limegreen"},
	GroupWhite: {SexMale: "dimgray", SexFemale: "silver"},
}

// PlotColor returns the color name a plotting tool should use for an animal.
// Males get the dark shade of their group, females the light one; anything
// unrecognized is drawn in black.
func PlotColor(sex Sex, group Group) string {
	if c, ok := plotColors[group][sex]; ok {
		return c
	}
	return "black"
}
