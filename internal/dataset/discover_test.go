package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discoveryDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{
		"MW_openfield.yaml",
		"FB_openfield.json",
		"MB_openfield.yml",
		"MB_openfield.yaml",
		"notes.txt",
		"FG_rotarod.csv",
	} {
		writeFile(t, dir, name, "crossing_times: []\n")
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "FR_openfield.yaml"), 0755))
	return dir
}

func TestDiscoverUnits(t *testing.T) {
	units, err := DiscoverUnits(discoveryDir(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"FB", "MB", "MW"}, units)

	units, err = DiscoverUnits(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, units)
}

func TestSelectUnits(t *testing.T) {
	dir := discoveryDir(t)

	tests := []struct {
		name     string
		patterns []string
		want     []string
	}{
		{"plain IDs kept in order", []string{"MW", "FG", "MW"}, []string{"MW", "FG"}},
		{"prefix glob", []string{"M*"}, []string{"MB", "MW"}},
		{"single char", []string{"?B"}, []string{"FB", "MB"}},
		{"alternation", []string{"{F,M}W"}, []string{"MW"}},
		{"mixed", []string{"MW", "*B", " "}, []string{"MW", "FB", "MB"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectUnits(dir, tt.patterns)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectUnits_Errors(t *testing.T) {
	dir := discoveryDir(t)

	_, err := SelectUnits(dir, []string{"X*"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoData))

	_, err = SelectUnits(dir, []string{"[M"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid unit pattern")
}
