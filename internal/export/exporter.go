package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Exporter renders a report in one output format
type Exporter interface {
	Export(r *Report) (string, error)
}

// Formats lists the accepted --format values
var Formats = []string{"json", "csv", "markdown", "html"}

// ForFormat returns the exporter for a format name
func ForFormat(format string) (Exporter, error) {
	switch strings.ToLower(format) {
	case "json":
		return &JSONExporter{Pretty: true}, nil
	case "csv":
		return &CSVExporter{}, nil
	case "markdown", "md":
		return &MarkdownExporter{IncludeTimestamp: true}, nil
	case "html":
		return &HTMLExporter{}, nil
	}
	return nil, fmt.Errorf("unsupported format %q, must be one of: %s", format, strings.Join(Formats, ", "))
}

// Extension returns the file extension (without dot) for a format name
func Extension(format string) string {
	switch strings.ToLower(format) {
	case "markdown", "md":
		return "md"
	default:
		return strings.ToLower(format)
	}
}

func checkReport(r *Report) error {
	if r == nil {
		return fmt.Errorf("report cannot be nil")
	}
	if err := r.Validate(); err != nil {
		return fmt.Errorf("invalid report: %w", err)
	}
	return nil
}

// JSONExporter exports reports in JSON format
type JSONExporter struct {
	Pretty bool // Enable pretty printing with indentation
}

// Export converts a report to a JSON string
func (je *JSONExporter) Export(r *Report) (string, error) {
	if err := checkReport(r); err != nil {
		return "", err
	}

	var data []byte
	var err error
	if je.Pretty {
		data, err = json.MarshalIndent(r, "", "  ")
	} else {
		data, err = json.Marshal(r)
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

// CSVExporter exports reports as long-format CSV tables. Each populated
// section of the report becomes its own table, separated by a blank line.
type CSVExporter struct{}

// Export converts a report to CSV
func (ce *CSVExporter) Export(r *Report) (string, error) {
	if err := checkReport(r); err != nil {
		return "", err
	}

	var tables [][][]string
	if len(r.Animals) > 0 || len(r.Groups) > 0 {
		tables = append(tables, seriesRows(r))
	}
	if len(r.Ratios) > 0 {
		tables = append(tables, ratioRows(r))
	}
	if len(r.Curves) > 0 || len(r.SexCurves) > 0 {
		tables = append(tables, rotarodRows(r))
	}

	var buf bytes.Buffer
	for i, rows := range tables {
		if i > 0 {
			buf.WriteString("\n")
		}
		w := csv.NewWriter(&buf)
		if err := w.WriteAll(rows); err != nil {
			return "", fmt.Errorf("failed to write CSV: %w", err)
		}
	}
	return buf.String(), nil
}

// seriesRows has one row per animal per bin, followed by group means
// labelled "<group_by>:<key>" with their SEM.
func seriesRows(r *Report) [][]string {
	rows := [][]string{{"animal", "sex", "group", "color", "bin_end_min", "value", "sem"}}
	for _, a := range r.Animals {
		for k, v := range a.Values {
			rows = append(rows, []string{a.ID, string(a.Sex), string(a.Group), a.Color, formatFloat(r.BinEnds[k]), formatFloat(v), ""})
		}
	}
	for _, g := range r.Groups {
		label := r.GroupBy + ":" + g.Key
		for k := range g.Mean {
			rows = append(rows, []string{label, "", "", "", formatFloat(r.BinEnds[k]), formatFloat(g.Mean[k]), formatFloat(g.SEM[k])})
		}
	}
	return rows
}

func ratioRows(r *Report) [][]string {
	rows := [][]string{{"animal", "sex", "group", "color", "periphery_crossings", "total_crossings", "periphery_center_ratio", "thigmotaxis"}}
	for _, a := range r.Ratios {
		rows = append(rows, []string{
			a.ID, string(a.Sex), string(a.Group), a.Color,
			strconv.Itoa(a.Periphery), strconv.Itoa(a.Total),
			formatFloat(a.PeripheryCenter), formatFloat(a.Thigmotaxis),
		})
	}
	return rows
}

func rotarodRows(r *Report) [][]string {
	rows := [][]string{{"subject", "sex", "color", "session", "latency_to_fall", "sem"}}
	for _, c := range r.Curves {
		for _, p := range c.Points {
			rows = append(rows, []string{c.SubjectID, string(c.Sex), c.Color, strconv.Itoa(p.Session), formatFloat(p.Latency), ""})
		}
	}
	for _, sc := range r.SexCurves {
		label := GroupBySex + ":" + string(sc.Sex)
		for _, s := range sc.Sessions {
			rows = append(rows, []string{label, string(sc.Sex), "", strconv.Itoa(s.Session), formatFloat(s.Mean), formatFloat(s.SEM)})
		}
	}
	return rows
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
