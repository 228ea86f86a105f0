package export

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// MarkdownExporter exports reports as Markdown tables
type MarkdownExporter struct {
	IncludeTimestamp bool // Include export timestamp in header
}

// Export converts a report to a Markdown string
func (me *MarkdownExporter) Export(r *Report) (string, error) {
	if err := checkReport(r); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", r.Title))
	if me.IncludeTimestamp {
		generated := r.GeneratedAt
		if generated.IsZero() {
			generated = time.Now()
		}
		sb.WriteString(fmt.Sprintf("**Generated**: %s\n\n", generated.Format("2006-01-02 15:04:05")))
	}
	if r.Window != nil {
		sb.WriteString(fmt.Sprintf("- **Window**: %s\n", r.Window))
	}
	if r.Unit != "" {
		sb.WriteString(fmt.Sprintf("- **Unit**: %s\n", r.Unit))
	}
	sb.WriteString("\n")

	if len(r.Animals) > 0 {
		sb.WriteString("## Animals\n\n")
		header := []string{"Animal", "Sex", "Group"}
		for _, end := range r.BinEnds {
			header = append(header, fmt.Sprintf("%s min", formatCell(end)))
		}
		writeTableHeader(&sb, header)
		for _, a := range r.Animals {
			row := []string{a.ID, string(a.Sex), a.Group.Title()}
			for _, v := range a.Values {
				row = append(row, formatCell(v))
			}
			writeTableRow(&sb, row)
		}
		sb.WriteString("\n")
	}

	if len(r.Groups) > 0 {
		sb.WriteString(fmt.Sprintf("## Mean ± SEM by %s\n\n", r.GroupBy))
		header := []string{groupHeader(r.GroupBy), "N"}
		for _, end := range r.BinEnds {
			header = append(header, fmt.Sprintf("%s min", formatCell(end)))
		}
		writeTableHeader(&sb, header)
		for _, g := range r.Groups {
			row := []string{g.Key, fmt.Sprintf("%d", g.N)}
			for k := range g.Mean {
				row = append(row, fmt.Sprintf("%s ± %s", formatCell(g.Mean[k]), formatCell(g.SEM[k])))
			}
			writeTableRow(&sb, row)
		}
		sb.WriteString("\n")
	}

	if len(r.Ratios) > 0 {
		sb.WriteString("## Periphery/center ratio\n\n")
		writeTableHeader(&sb, []string{"Animal", "Sex", "Group", "Periphery", "Total", "Ratio", "Thigmotaxis"})
		for _, a := range r.Ratios {
			writeTableRow(&sb, []string{
				a.ID, string(a.Sex), a.Group.Title(),
				fmt.Sprintf("%d", a.Periphery), fmt.Sprintf("%d", a.Total),
				formatCell(a.PeripheryCenter), formatCell(a.Thigmotaxis),
			})
		}
		sb.WriteString("\n")
	}

	if len(r.RatioGroups) > 0 {
		sb.WriteString("## Ratio by sex\n\n")
		writeTableHeader(&sb, []string{"Sex", "N", "Mean", "SEM"})
		for _, g := range r.RatioGroups {
			writeTableRow(&sb, []string{g.Key, fmt.Sprintf("%d", g.N), formatCell(g.Mean), formatCell(g.SEM)})
		}
		sb.WriteString("\n")
	}

	if len(r.Curves) > 0 {
		sb.WriteString("## Learning curves\n\n")
		writeTableHeader(&sb, []string{"Subject", "Sex", "Session", "Latency (s)"})
		for _, c := range r.Curves {
			for _, p := range c.Points {
				writeTableRow(&sb, []string{c.SubjectID, string(c.Sex), fmt.Sprintf("%d", p.Session), formatCell(p.Latency)})
			}
		}
		sb.WriteString("\n")
	}

	if len(r.SexCurves) > 0 {
		sb.WriteString("## Latency by sex\n\n")
		writeTableHeader(&sb, []string{"Sex", "Subjects", "Session", "N", "Mean ± SEM"})
		for _, sc := range r.SexCurves {
			for _, s := range sc.Sessions {
				writeTableRow(&sb, []string{
					string(sc.Sex), fmt.Sprintf("%d", sc.Subjects), fmt.Sprintf("%d", s.Session),
					fmt.Sprintf("%d", s.N), fmt.Sprintf("%s ± %s", formatCell(s.Mean), formatCell(s.SEM)),
				})
			}
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

func writeTableHeader(sb *strings.Builder, cells []string) {
	writeTableRow(sb, cells)
	sep := make([]string, len(cells))
	for i := range sep {
		sep[i] = "---"
	}
	writeTableRow(sb, sep)
}

func writeTableRow(sb *strings.Builder, cells []string) {
	sb.WriteString("| ")
	sb.WriteString(strings.Join(cells, " | "))
	sb.WriteString(" |\n")
}

func groupHeader(groupBy string) string {
	if groupBy == "" {
		return "Key"
	}
	return strings.ToUpper(groupBy[:1]) + groupBy[1:]
}

// formatCell prints up to four significant digits
func formatCell(v float64) string {
	return fmt.Sprintf("%.4g", v)
}

// HTMLExporter renders the Markdown report to a standalone HTML page
type HTMLExporter struct{}

// Export converts a report to HTML
func (he *HTMLExporter) Export(r *Report) (string, error) {
	md, err := (&MarkdownExporter{IncludeTimestamp: true}).Export(r)
	if err != nil {
		return "", err
	}

	converter := goldmark.New(goldmark.WithExtensions(extension.Table))
	var body bytes.Buffer
	if err := converter.Convert([]byte(md), &body); err != nil {
		return "", fmt.Errorf("failed to render HTML: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	sb.WriteString(fmt.Sprintf("<title>%s</title>\n", html.EscapeString(r.Title)))
	sb.WriteString("</head>\n<body>\n")
	sb.Write(body.Bytes())
	sb.WriteString("</body>\n</html>\n")
	return sb.String(), nil
}
