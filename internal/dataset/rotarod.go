package dataset

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/harrison/fieldstat/internal/models"
	"github.com/harrison/fieldstat/internal/rotarod"
)

// Rotarod column headers, matched after trimming whitespace
const (
	columnSubject  = "Subject ID"
	columnDate     = "Date"
	columnTime     = "Time"
	columnDuration = "Duration(sec)"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-06",
	"1/2/06",
}

var timeLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04:05 PM",
	"3:04 PM",
}

// LoadRotarod reads a rotarod trial CSV and numbers each subject's sessions
// chronologically. Rows with a blank subject are skipped; rows with an
// unparseable date or time keep a zero timestamp.
func LoadRotarod(path string) ([]models.RotarodTrial, error) {
	rows, err := readCSVRows(path)
	if err != nil {
		return nil, err
	}

	trials, err := parseRotarodRows(rows, path)
	if err != nil {
		return nil, err
	}
	return rotarod.AssignSessions(trials), nil
}

func readCSVRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rotarod file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrInvalidRecord, path, err)
	}
	return rows, nil
}

func parseRotarodRows(rows [][]string, source string) ([]models.RotarodTrial, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrInvalidRecord, source)
	}

	index := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		index[strings.TrimSpace(h)] = i
	}
	for _, required := range []string{columnSubject, columnDuration} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("%w: %s: missing column %q", ErrInvalidRecord, source, required)
		}
	}

	cell := func(row []string, column string) string {
		i, ok := index[column]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var trials []models.RotarodTrial
	for n, row := range rows[1:] {
		line := n + 2
		subject := cell(row, columnSubject)
		if subject == "" {
			continue
		}

		raw := cell(row, columnDuration)
		latency, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(latency) || math.IsInf(latency, 0) || latency < 0 {
			return nil, fmt.Errorf("%w: %s line %d: invalid %s %q", ErrInvalidRecord, source, line, columnDuration, raw)
		}

		sex, _ := models.ParseUnitID(subject)
		trials = append(trials, models.RotarodTrial{
			SubjectID:     subject,
			Sex:           sex,
			Timestamp:     parseTimestamp(cell(row, columnDate), cell(row, columnTime)),
			LatencyToFall: latency,
		})
	}
	return trials, nil
}

// parseTimestamp combines a date and an optional time of day. A blank time
// means midnight. An unparseable date or a non-blank unparseable time yields
// the zero time, so the trial sorts after dated ones.
func parseTimestamp(date, clock string) time.Time {
	var day time.Time
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			day = t
			break
		}
	}
	if day.IsZero() {
		return time.Time{}
	}

	if clock == "" {
		return day
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, clock); err == nil {
			return day.Add(time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second)
		}
	}
	return time.Time{}
}
