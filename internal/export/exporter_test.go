package export

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/harrison/fieldstat/internal/binning"
	"github.com/harrison/fieldstat/internal/models"
	"github.com/harrison/fieldstat/internal/pipeline"
	"github.com/harrison/fieldstat/internal/rotarod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult(t *testing.T) *pipeline.Result {
	t.Helper()
	mb := models.NewAnimalRecord("MB")
	mb.Crossings = []float64{0.1, 5.6, 5.9, 9.9}
	fb := models.NewAnimalRecord("FB")
	fb.Crossings = []float64{1, 3}
	mw := models.NewAnimalRecord("MW")
	mw.Crossings = []float64{8}

	metric, err := pipeline.Lookup("crossings")
	require.NoError(t, err)
	res, err := pipeline.Run([]*models.AnimalRecord{mb, fb, mw}, binning.Window{Start: 0, End: 10, BinWidth: 2.5}, metric)
	require.NoError(t, err)
	return res
}

func sampleReport(t *testing.T) *Report {
	t.Helper()
	r, err := FromResult(sampleResult(t), GroupBySex)
	require.NoError(t, err)
	r.GeneratedAt = time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	return r
}

func TestFromResult(t *testing.T) {
	res := sampleResult(t)

	r, err := FromResult(res, GroupByNone)
	require.NoError(t, err)
	assert.Equal(t, "crossings per 2.5s bin", r.Title)
	assert.Equal(t, "count", r.Unit)
	assert.Empty(t, r.Groups)

	r, err = FromResult(res, GroupByGroup)
	require.NoError(t, err)
	assert.Equal(t, GroupByGroup, r.GroupBy)
	require.Len(t, r.Groups, 2)
	assert.Equal(t, "blue", r.Groups[0].Key)
	assert.Equal(t, 2, r.Groups[0].N)

	_, err = FromResult(res, "cage")
	assert.Error(t, err)

	_, err = FromResult(nil, GroupBySex)
	assert.Error(t, err)
}

func TestJSONExporter_Export(t *testing.T) {
	r := sampleReport(t)

	for _, pretty := range []bool{true, false} {
		out, err := (&JSONExporter{Pretty: pretty}).Export(r)
		require.NoError(t, err)
		assert.Equal(t, pretty, strings.Contains(out, "\n  "))

		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		assert.Equal(t, "crossings", decoded["metric"])
		assert.Equal(t, "sex", decoded["group_by"])
		assert.Len(t, decoded["animals"], 3)
		assert.NotContains(t, decoded, "ratios")
	}

	_, err := (&JSONExporter{}).Export(nil)
	assert.Error(t, err)
}

func TestCSVExporter_Series(t *testing.T) {
	out, err := (&CSVExporter{}).Export(sampleReport(t))
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)

	assert.Equal(t, []string{"animal", "sex", "group", "color", "bin_end_min", "value", "sem"}, rows[0])
	// 3 animals x 4 bins + 2 sexes x 4 bins
	require.Len(t, rows, 1+12+8)

	// FB sorts first
	assert.Equal(t, []string{"FB", "female", "blue", "cornflowerblue", "0.041666666666666664", "1", ""}, rows[1])
	assert.Equal(t, "MB", rows[5][0])
	assert.Equal(t, "2", rows[7][5], "MB third bin")

	last := rows[len(rows)-1]
	assert.Equal(t, "sex:male", last[0])
	assert.Equal(t, "1", last[5], "MB and MW both cross once in the last bin")
	assert.Equal(t, "0", last[6])
}

func TestCSVExporter_RatiosAndRotarod(t *testing.T) {
	fw := models.NewAnimalRecord("FW")
	fw.Crossings = []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
	fw.PeripheryCrossings = []float64{10, 20, 30}
	ratios, err := pipeline.PeripheryCenterRatios([]*models.AnimalRecord{fw}, binning.DefaultWindow())
	require.NoError(t, err)

	out, err := (&CSVExporter{}).Export(FromRatios(ratios, binning.DefaultWindow()))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "FW,female,white,silver,3,10,0.42857142857142855,0.3", lines[1])

	trials := rotarod.AssignSessions([]models.RotarodTrial{
		{SubjectID: "MB", LatencyToFall: 10},
		{SubjectID: "MB", LatencyToFall: 20},
	})
	out, err = (&CSVExporter{}).Export(FromRotarod(rotarod.Curves(trials), rotarod.SexComparison(trials)))
	require.NoError(t, err)
	assert.Contains(t, out, "subject,sex,color,session,latency_to_fall,sem\n")
	assert.Contains(t, out, "MB,male,darkblue,2,20,\n")
	assert.Contains(t, out, "sex:male,male,,1,10,0\n")
}

func TestMarkdownExporter_Export(t *testing.T) {
	r := sampleReport(t)

	out, err := (&MarkdownExporter{IncludeTimestamp: true}).Export(r)
	require.NoError(t, err)
	assert.Contains(t, out, "# crossings per 2.5s bin\n")
	assert.Contains(t, out, "**Generated**: 2025-07-01 12:00:00")
	assert.Contains(t, out, "- **Window**: [0s, 10s) / 2.5s")
	assert.Contains(t, out, "| Animal | Sex | Group | 0.04167 min | 0.08333 min | 0.125 min | 0.1667 min |")
	assert.Contains(t, out, "| MB | male | Blue | 1 | 0 | 2 | 1 |")
	assert.Contains(t, out, "## Mean ± SEM by sex")
	assert.Contains(t, out, "| female | 1 | 1 ± 0 | 1 ± 0 | 0 ± 0 | 0 ± 0 |")

	out, err = (&MarkdownExporter{}).Export(r)
	require.NoError(t, err)
	assert.NotContains(t, out, "Generated")
}

func TestHTMLExporter_Export(t *testing.T) {
	out, err := (&HTMLExporter{}).Export(sampleReport(t))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>crossings per 2.5s bin</title>")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<th>Animal</th>")
	assert.Contains(t, out, "<td>MB</td>")
}

func TestExport_RejectsMismatchedSeries(t *testing.T) {
	r := sampleReport(t)
	r.Animals[0].Values = models.Series{1}

	for _, format := range Formats {
		exp, err := ForFormat(format)
		require.NoError(t, err)
		_, err = exp.Export(r)
		assert.Error(t, err, format)
	}
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		format string
		want   Exporter
		ext    string
	}{
		{"json", &JSONExporter{Pretty: true}, "json"},
		{"CSV", &CSVExporter{}, "csv"},
		{"markdown", &MarkdownExporter{IncludeTimestamp: true}, "md"},
		{"md", &MarkdownExporter{IncludeTimestamp: true}, "md"},
		{"html", &HTMLExporter{}, "html"},
	}
	for _, tt := range tests {
		got, err := ForFormat(tt.format)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.ext, Extension(tt.format))
	}

	_, err := ForFormat("pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json, csv, markdown, html")
}
