package binning

import (
	"errors"
	"testing"

	"github.com/harrison/fieldstat/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWindow(t *testing.T) {
	w := DefaultWindow()
	require.NoError(t, w.Validate())
	assert.Equal(t, 600.0, w.Duration())

	n, err := w.Bins()
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	ends, err := w.BinEndsMinutes()
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2.5, 5, 7.5, 10}, ends, 1e-12)
}

func TestWindow_Validate(t *testing.T) {
	tests := []struct {
		name string
		w    Window
	}{
		{"end before start", Window{Start: 10, End: 5, BinWidth: 1}},
		{"empty window", Window{Start: 3, End: 3, BinWidth: 1}},
		{"zero bin width", Window{Start: 0, End: 10, BinWidth: 0}},
		{"negative bin width", Window{Start: 0, End: 10, BinWidth: -2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.w.Validate()
			assert.True(t, errors.Is(err, ErrInvalidParameter), "got %v", err)

			_, err = tt.w.CountEvents([]float64{1})
			assert.Error(t, err)
			_, err = tt.w.IntervalDurations(nil)
			assert.Error(t, err)
			_, err = tt.w.BinEnds()
			assert.Error(t, err)
		})
	}
}

func TestWindow_CountEventsShiftsByStart(t *testing.T) {
	w := Window{Start: 3, End: 603, BinWidth: 150}
	// 2.9 precedes the window and 603 is the exclusive end
	events := []float64{2.9, 3, 152.9, 153, 400, 602.99, 603}

	counts, err := w.CountEvents(events)
	require.NoError(t, err)
	assert.Equal(t, models.Series{2, 1, 1, 1}, counts)

	acc, err := w.AccumulateEvents(events)
	require.NoError(t, err)
	assert.Equal(t, models.Series{2, 3, 4, 5}, acc)

	assert.Equal(t, 5, w.Count(events))
}

func TestWindow_IntervalDurations(t *testing.T) {
	w := Window{Start: 3, End: 603, BinWidth: 150}
	intervals := []models.Interval{
		{Start: 0, Stop: 13},      // 10s inside bin 0
		{Start: 143, Stop: 163},   // straddles bins 0 and 1
		{Start: 600, Stop: 700},   // 3s at the end of bin 3
		{Start: 1000, Stop: 1001}, // outside
	}

	durations, err := w.IntervalDurations(intervals)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{20, 10, 0, 3}, []float64(durations), 1e-9)
}

func TestWindow_BinEndsClipsLastBin(t *testing.T) {
	w := Window{Start: 0, End: 330, BinWidth: 150}
	ends, err := w.BinEnds()
	require.NoError(t, err)
	assert.Equal(t, []float64{150, 300, 330}, ends)
	assert.Equal(t, "[0s, 330s) / 150s", w.String())
}
