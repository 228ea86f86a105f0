// Package display renders reports, metric lists and stored runs as console
// tables, and prints user-facing warnings.
//
// Tables pad columns to the widest cell and right-align numbers:
//
//	t := &display.Table{Headers: []string{"ID", "Ratio"}}
//	t.AddRow("FB", "0.4286")
//	t.Render(os.Stdout, display.IsColorTerminal(os.Stdout))
//
// Color is opt-in per call. Commands pass IsColorTerminal(out) so redirected
// output stays plain.
package display
