package pipeline

import (
	"testing"

	"github.com/harrison/fieldstat/internal/binning"
	"github.com/harrison/fieldstat/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tenSeconds = binning.Window{Start: 0, End: 10, BinWidth: 2.5}

func record(id string, crossings, periphery []float64) *models.AnimalRecord {
	rec := models.NewAnimalRecord(id)
	rec.Crossings = crossings
	rec.PeripheryCrossings = periphery
	return rec
}

func cohort() []*models.AnimalRecord {
	mb := record("MB", []float64{0.1, 5.6, 5.9, 9.9}, []float64{5.6})
	mb.Freezing = []models.Interval{{Start: 1, Stop: 4}}
	fb := record("FB", []float64{1, 3, 5, 7}, []float64{1, 3, 5})
	fb.Grooming = []models.Interval{{Start: 6, Stop: 8}}
	mr := record("MR", []float64{8}, nil)
	return []*models.AnimalRecord{mb, fb, mr}
}

func mustLookup(t *testing.T, name string) Metric {
	t.Helper()
	m, err := Lookup(name)
	require.NoError(t, err)
	return m
}

func TestRun_Crossings(t *testing.T) {
	res, err := Run(cohort(), tenSeconds, mustLookup(t, "crossings"))
	require.NoError(t, err)

	require.Len(t, res.Animals, 3)
	assert.Equal(t, "FB", res.Animals[0].ID, "animals sorted by ID")
	assert.Equal(t, "MB", res.Animals[1].ID)
	assert.Equal(t, "MR", res.Animals[2].ID)

	mb := res.Animals[1]
	assert.Equal(t, models.Series{1, 0, 2, 1}, mb.Values)
	assert.Equal(t, models.SexMale, mb.Sex)
	assert.Equal(t, models.GroupBlue, mb.Group)
	assert.Equal(t, "darkblue", mb.Color)

	assert.InDeltaSlice(t, []float64{2.5 / 60, 5.0 / 60, 7.5 / 60, 10.0 / 60}, res.BinEnds, 1e-12)
}

func TestRun_AccumulatedCrossings(t *testing.T) {
	res, err := Run(cohort(), tenSeconds, mustLookup(t, "accumulated-crossings"))
	require.NoError(t, err)
	assert.Equal(t, models.Series{1, 1, 3, 4}, res.Series()["MB"])
}

func TestRun_IntervalMetrics(t *testing.T) {
	freezing, err := Run(cohort(), tenSeconds, mustLookup(t, "freezing"))
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1.5, 1.5, 0, 0}, freezing.Series()["MB"], 1e-12)
	assert.Equal(t, models.Series{0, 0, 0, 0}, freezing.Series()["FB"])

	grooming, err := Run(cohort(), tenSeconds, mustLookup(t, "grooming"))
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 0, 1.5, 0.5}, grooming.Series()["FB"], 1e-12)
}

func TestRun_Thigmotaxis(t *testing.T) {
	res, err := Run(cohort(), tenSeconds, mustLookup(t, "thigmotaxis"))
	require.NoError(t, err)

	series := res.Series()
	assert.InDeltaSlice(t, []float64{0, 0, 0.5, 0}, series["MB"], 1e-12)
	// FB: totals [1,1,2,0], periphery [1,1,1,0]
	assert.InDeltaSlice(t, []float64{1, 1, 0.5, 0}, series["FB"], 1e-12)
	// MR never crosses the periphery; bins without crossings report 0
	assert.InDeltaSlice(t, []float64{0, 0, 0, 0}, series["MR"], 1e-12)
}

func TestRun_WindowShift(t *testing.T) {
	w := binning.Window{Start: 3, End: 13, BinWidth: 2.5}
	rec := record("MW", []float64{1, 3.1, 8.6, 8.9, 12.9, 13}, nil)

	res, err := Run([]*models.AnimalRecord{rec}, w, mustLookup(t, "crossings"))
	require.NoError(t, err)
	assert.Equal(t, models.Series{1, 0, 2, 1}, res.Animals[0].Values)
}

func TestRun_Errors(t *testing.T) {
	crossings := mustLookup(t, "crossings")

	t.Run("invalid window", func(t *testing.T) {
		_, err := Run(cohort(), binning.Window{Start: 0, End: 10, BinWidth: 0}, crossings)
		assert.ErrorIs(t, err, binning.ErrInvalidParameter)
	})

	t.Run("invalid record", func(t *testing.T) {
		bad := models.NewAnimalRecord("FG")
		bad.Grooming = []models.Interval{{Start: 4, Stop: 1}}
		_, err := Run([]*models.AnimalRecord{bad}, tenSeconds, crossings)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `animal "FG"`)
	})

	t.Run("duplicate animal", func(t *testing.T) {
		_, err := Run([]*models.AnimalRecord{record("FB", nil, nil), record("FB", nil, nil)}, tenSeconds, crossings)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate")
	})

	t.Run("missing binner", func(t *testing.T) {
		_, err := Run(cohort(), tenSeconds, Metric{Name: "broken"})
		require.Error(t, err)
	})
}

func TestRun_PeripheryCenter(t *testing.T) {
	res, err := Run(cohort(), tenSeconds, mustLookup(t, "periphery-center"))
	require.NoError(t, err)

	series := res.Series()
	// MB: totals [1,0,2,1], periphery [0,0,1,0]
	assert.InDeltaSlice(t, []float64{0, 0, 1, 0}, series["MB"], 1e-12)
	// FB: totals [1,1,2,0], periphery [1,1,1,0]; an all-periphery bin divides by 1
	assert.InDeltaSlice(t, []float64{1, 1, 1, 0}, series["FB"], 1e-12)
	assert.InDeltaSlice(t, []float64{0, 0, 0, 0}, series["MR"], 1e-12)
}

func TestResult_BySexAndGroup(t *testing.T) {
	res, err := Run(cohort(), tenSeconds, mustLookup(t, "crossings"))
	require.NoError(t, err)

	bySex, err := res.BySex()
	require.NoError(t, err)
	require.Len(t, bySex, 2)

	// partitions are sorted by key
	female, male := bySex[0], bySex[1]
	require.Equal(t, string(models.SexFemale), female.Key)
	require.Equal(t, string(models.SexMale), male.Key)
	assert.Equal(t, 1, female.N)
	assert.Equal(t, models.Series{1, 1, 2, 0}, female.Mean)
	assert.Equal(t, models.Series{0, 0, 0, 0}, female.SEM)

	assert.Equal(t, 2, male.N)
	// MB [1,0,2,1], MR [0,0,0,1]
	assert.InDeltaSlice(t, []float64{0.5, 0, 1, 1}, male.Mean, 1e-12)
	assert.InDeltaSlice(t, []float64{0.5, 0, 1, 0}, male.SEM, 1e-12)

	byGroup, err := res.ByGroup()
	require.NoError(t, err)
	keys := make([]string, 0, len(byGroup))
	for _, s := range byGroup {
		keys = append(keys, s.Key)
	}
	assert.Equal(t, []string{"blue", "red"}, keys, "empty groups omitted")
}

func TestPeripheryCenterRatios(t *testing.T) {
	ten := []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
	animals := []*models.AnimalRecord{
		record("FW", ten, []float64{10, 20, 30}),
		record("MW", nil, nil),
		record("MG", []float64{5, 6}, []float64{5, 6}),
	}

	ratios, err := PeripheryCenterRatios(animals, binning.Window{Start: 0, End: 600, BinWidth: 150})
	require.NoError(t, err)
	require.Len(t, ratios, 3)

	fw := ratios[0]
	assert.Equal(t, "FW", fw.ID)
	assert.Equal(t, 3, fw.Periphery)
	assert.Equal(t, 10, fw.Total)
	assert.InDelta(t, 3.0/7.0, fw.PeripheryCenter, 1e-12)
	assert.InDelta(t, 0.3, fw.Thigmotaxis, 1e-12)

	mg := ratios[1]
	assert.Equal(t, "MG", mg.ID)
	assert.InDelta(t, 2.0, mg.PeripheryCenter, 1e-12, "center floored at 1")
	assert.InDelta(t, 1.0, mg.Thigmotaxis, 1e-12)

	mw := ratios[2]
	assert.Equal(t, 0.0, mw.PeripheryCenter)
	assert.Equal(t, 0.0, mw.Thigmotaxis)

	bySex := RatiosBySex(ratios)
	require.Len(t, bySex, 2)
	assert.Equal(t, "female", bySex[0].Key)
	assert.Equal(t, 1, bySex[0].N)
	assert.Equal(t, "male", bySex[1].Key)
	assert.Equal(t, 2, bySex[1].N)
	assert.InDelta(t, 1.0, bySex[1].Mean, 1e-12)
}

func TestPeripheryCenterRatios_InvalidWindow(t *testing.T) {
	_, err := PeripheryCenterRatios(cohort(), binning.Window{Start: 5, End: 5, BinWidth: 1})
	assert.ErrorIs(t, err, binning.ErrInvalidParameter)
}

func TestLookup(t *testing.T) {
	m, err := Lookup("  Thigmotaxis ")
	require.NoError(t, err)
	assert.Equal(t, "thigmotaxis", m.Name)
	assert.Equal(t, "index", m.Unit)

	_, err = Lookup("velocity")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "available: accumulated-crossings")
}

func TestMetrics_AllRunnable(t *testing.T) {
	assert.Len(t, Metrics(), 8)
	for _, m := range Metrics() {
		t.Run(m.Name, func(t *testing.T) {
			res, err := Run(cohort(), tenSeconds, m)
			require.NoError(t, err)
			for _, a := range res.Animals {
				assert.Len(t, a.Values, 4)
			}
		})
	}
}
