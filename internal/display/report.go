package display

import (
	"fmt"
	"io"
	"strconv"

	"github.com/harrison/fieldstat/internal/export"
	"github.com/harrison/fieldstat/internal/pipeline"
	"github.com/harrison/fieldstat/internal/store"
)

// RenderReport prints every populated section of a report as a console table
func RenderReport(w io.Writer, r *export.Report, colorOutput bool) {
	if r.Window != nil {
		fmt.Fprintf(w, "%s  %s\n\n", r.Title, r.Window)
	} else {
		fmt.Fprintf(w, "%s\n\n", r.Title)
	}

	for _, t := range reportTables(r) {
		t.Render(w, colorOutput)
		fmt.Fprintln(w)
	}
}

func reportTables(r *export.Report) []*Table {
	var tables []*Table

	binHeaders := func(first ...string) []string {
		headers := append([]string{}, first...)
		for _, end := range r.BinEnds {
			headers = append(headers, formatNumber(end)+"m")
		}
		return headers
	}

	if len(r.Animals) > 0 {
		t := &Table{Title: fmt.Sprintf("Animals (%s)", r.Unit), Headers: binHeaders("ID", "Sex", "Group")}
		for _, a := range r.Animals {
			row := []string{a.ID, string(a.Sex), string(a.Group)}
			for _, v := range a.Values {
				row = append(row, formatNumber(v))
			}
			t.AddRow(row...)
		}
		tables = append(tables, t)
	}

	if len(r.Groups) > 0 {
		t := &Table{Title: fmt.Sprintf("Mean ± SEM by %s", r.GroupBy), Headers: binHeaders(r.GroupBy, "N")}
		for _, g := range r.Groups {
			row := []string{g.Key, strconv.Itoa(g.N)}
			for k := range g.Mean {
				row = append(row, formatNumber(g.Mean[k])+"±"+formatNumber(g.SEM[k]))
			}
			t.AddRow(row...)
		}
		tables = append(tables, t)
	}

	if len(r.Ratios) > 0 {
		t := &Table{Title: "Periphery/center ratio", Headers: []string{"ID", "Sex", "Group", "Periphery", "Total", "Ratio", "Thigmotaxis"}}
		for _, a := range r.Ratios {
			t.AddRow(a.ID, string(a.Sex), string(a.Group), strconv.Itoa(a.Periphery), strconv.Itoa(a.Total),
				formatNumber(a.PeripheryCenter), formatNumber(a.Thigmotaxis))
		}
		tables = append(tables, t)
	}

	if len(r.RatioGroups) > 0 {
		t := &Table{Title: "Ratio by sex", Headers: []string{"Sex", "N", "Mean", "SEM"}}
		for _, g := range r.RatioGroups {
			t.AddRow(g.Key, strconv.Itoa(g.N), formatNumber(g.Mean), formatNumber(g.SEM))
		}
		tables = append(tables, t)
	}

	if len(r.Curves) > 0 {
		t := &Table{Title: "Learning curves (latency to fall, s)", Headers: []string{"Subject", "Sex", "Session", "Latency"}}
		for _, c := range r.Curves {
			for _, p := range c.Points {
				t.AddRow(c.SubjectID, string(c.Sex), strconv.Itoa(p.Session), formatNumber(p.Latency))
			}
		}
		tables = append(tables, t)
	}

	if len(r.SexCurves) > 0 {
		t := &Table{Title: "Latency by sex", Headers: []string{"Sex", "Session", "N", "Mean", "SEM"}}
		for _, sc := range r.SexCurves {
			for _, s := range sc.Sessions {
				t.AddRow(string(sc.Sex), strconv.Itoa(s.Session), strconv.Itoa(s.N), formatNumber(s.Mean), formatNumber(s.SEM))
			}
		}
		tables = append(tables, t)
	}

	return tables
}

// RenderMetrics lists the available metrics
func RenderMetrics(w io.Writer, metrics []pipeline.Metric, colorOutput bool) {
	t := &Table{Headers: []string{"Metric", "Unit", "Description"}}
	for _, m := range metrics {
		t.AddRow(m.Name, m.Unit, m.Description)
	}
	t.Render(w, colorOutput)
}

// RenderRuns lists recorded analysis runs
func RenderRuns(w io.Writer, runs []*store.Run, colorOutput bool) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded")
		return
	}
	t := &Table{Headers: []string{"ID", "Metric", "Window", "Animals", "Created"}}
	for _, r := range runs {
		t.AddRow(r.ID[:min(8, len(r.ID))], r.Metric, r.Window.String(), strconv.Itoa(r.Animals),
			r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	t.Render(w, colorOutput)
}

// formatNumber prints up to four significant digits
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}
