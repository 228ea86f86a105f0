package display

import (
	"fmt"
	"io"
	"strings"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Items      []string // Related units or files (optional)
	Suggestion string   // Action to take (optional)
}

// Display writes the warning, in yellow when colorOutput is set
func (w Warning) Display(out io.Writer, colorOutput bool) {
	var b strings.Builder

	b.WriteString("Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	if len(w.Items) > 0 {
		for i, item := range w.Items {
			b.WriteString(fmt.Sprintf("      %d. %s\n", i+1, item))
		}
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion: ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	text := b.String()
	if colorOutput {
		text = paint(warningColor, text)
	}
	fmt.Fprint(out, text)
}

// WarnMissingUnits creates a warning listing units that had no data file
func WarnMissingUnits(dir string, units []string) Warning {
	noun := "units"
	if len(units) == 1 {
		noun = "unit"
	}
	return Warning{
		Title:      fmt.Sprintf("%d %s skipped", len(units), noun),
		Message:    fmt.Sprintf("No open-field data file found in %s for:", dir),
		Items:      units,
		Suggestion: "Check data_dir and the units list in your config",
	}
}
