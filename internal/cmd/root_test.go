package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	if cmd == nil {
		t.Fatal("Root command should not be nil")
	}

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("--help returned error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "fieldstat") {
		t.Errorf("Help text should contain 'fieldstat', got: %s", output)
	}
	if !strings.Contains(output, "thigmotaxis") {
		t.Errorf("Help text should mention thigmotaxis, got: %s", output)
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	cmd := NewRootCommand()
	if cmd.Use != "fieldstat" {
		t.Errorf("Expected Use to be 'fieldstat', got '%s'", cmd.Use)
	}

	want := []string{"bin", "ratio", "rotarod", "metrics", "runs"}
	for _, name := range want {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestRootCommandPersistentFlags(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"config", "log-level", "data-dir", "units", "output-dir", "no-store"} {
		if cmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("missing persistent flag --%s", name)
		}
	}
}

func TestVersionFlag(t *testing.T) {
	cmd := NewRootCommand()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("--version returned error: %v", err)
	}
	if !strings.Contains(buf.String(), Version) {
		t.Errorf("version output should contain %q, got: %s", Version, buf.String())
	}
}

func TestMetricsCommand(t *testing.T) {
	cmd := NewRootCommand()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"metrics"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("metrics returned error: %v", err)
	}
	for _, name := range []string{"crossings", "accumulated-crossings", "thigmotaxis", "freezing", "grooming"} {
		if !strings.Contains(buf.String(), name) {
			t.Errorf("metrics output should list %q", name)
		}
	}
}
