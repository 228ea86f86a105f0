package ratio

import (
	"errors"
	"math"
	"testing"

	"github.com/harrison/fieldstat/internal/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPeripheryCenter(t *testing.T) {
	tests := []struct {
		name      string
		periphery float64
		total     float64
		want      float64
	}{
		{"typical", 3, 10, 3.0 / 7.0},
		{"all periphery floors center at one", 5, 5, 5},
		{"no crossings", 0, 0, 0},
		{"no periphery", 0, 12, 0},
		{"single center crossing", 4, 5, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PeripheryCenter(tt.periphery, tt.total)
			if !almostEqual(got, tt.want) {
				t.Errorf("PeripheryCenter(%v, %v) = %v, want %v", tt.periphery, tt.total, got, tt.want)
			}
		})
	}
}

func TestPeripheryCenter_FiniteAndNonNegative(t *testing.T) {
	for total := 0; total <= 50; total++ {
		for periphery := 0; periphery <= total; periphery++ {
			got := PeripheryCenter(float64(periphery), float64(total))
			if math.IsNaN(got) || math.IsInf(got, 0) || got < 0 {
				t.Fatalf("PeripheryCenter(%d, %d) = %v, want finite non-negative", periphery, total, got)
			}
		}
	}
}

func TestThigmotaxis(t *testing.T) {
	tests := []struct {
		name      string
		periphery float64
		total     float64
		want      float64
	}{
		{"typical", 3, 10, 0.3},
		{"zero total yields zero", 0, 0, 0},
		{"all periphery", 8, 8, 1},
		{"inconsistent counts capped", 9, 4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Thigmotaxis(tt.periphery, tt.total)
			if !almostEqual(got, tt.want) {
				t.Errorf("Thigmotaxis(%v, %v) = %v, want %v", tt.periphery, tt.total, got, tt.want)
			}
		})
	}
}

func TestThigmotaxisSeries(t *testing.T) {
	got, err := ThigmotaxisSeries(models.Series{3, 0, 2, 1}, models.Series{10, 0, 4, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := models.Series{0.3, 0, 0.5, 1}
	for i := range want {
		if !almostEqual(got[i], want[i]) {
			t.Errorf("bin %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPeripheryCenterSeries(t *testing.T) {
	got, err := PeripheryCenterSeries(models.Series{3, 2}, models.Series{10, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(got[0], 3.0/7.0) || !almostEqual(got[1], 2) {
		t.Errorf("got %v", got)
	}
}

func TestSeries_LengthMismatch(t *testing.T) {
	_, err := ThigmotaxisSeries(models.Series{1, 2}, models.Series{1})
	if !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("expected ErrLengthMismatch, got %v", err)
	}
	_, err = PeripheryCenterSeries(models.Series{1}, models.Series{})
	if !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("expected ErrLengthMismatch, got %v", err)
	}
}
