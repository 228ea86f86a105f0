package display

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	titleColor   = color.New(color.Bold)
	warningColor = color.New(color.FgYellow)
	dimColor     = color.New(color.Faint)
)

// paint applies c regardless of the global NoColor setting; callers decide
// whether color is wanted.
func paint(c *color.Color, s string) string {
	cc := *c
	cc.EnableColor()
	return cc.Sprint(s)
}

// IsColorTerminal reports whether w is a terminal that should receive color
func IsColorTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Table is a titled grid of cells rendered with padded columns
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// AddRow appends a row
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// Render writes the table. Numeric-looking cells are right-aligned.
func (t *Table) Render(w io.Writer, colorOutput bool) {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if n := utf8.RuneCountInString(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}

	if t.Title != "" {
		title := t.Title
		if colorOutput {
			title = paint(titleColor, title)
		}
		fmt.Fprintln(w, title)
	}

	header := formatRow(t.Headers, widths)
	if colorOutput {
		header = paint(headerColor, header)
	}
	fmt.Fprintln(w, header)

	rule := make([]string, len(widths))
	for i, n := range widths {
		rule[i] = strings.Repeat("-", n)
	}
	ruleLine := strings.Join(rule, "  ")
	if colorOutput {
		ruleLine = paint(dimColor, ruleLine)
	}
	fmt.Fprintln(w, ruleLine)

	for _, row := range t.Rows {
		fmt.Fprintln(w, formatRow(row, widths))
	}
}

func formatRow(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, width := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		pad := strings.Repeat(" ", width-utf8.RuneCountInString(cell))
		if isNumeric(cell) {
			parts[i] = pad + cell
		} else {
			parts[i] = cell + pad
		}
	}
	return strings.TrimRight(strings.Join(parts, "  "), " ")
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' && r != '-' && r != 'e' && r != '+' {
			return false
		}
	}
	return true
}
