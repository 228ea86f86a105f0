package groupstats

import (
	"math"
	"testing"

	"github.com/harrison/fieldstat/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sexOf(id string) (string, bool) {
	sex, _ := models.ParseUnitID(id)
	if sex == models.SexUnknown {
		return "", false
	}
	return string(sex), true
}

func TestDescribe(t *testing.T) {
	_, _, ok := Describe(nil)
	assert.False(t, ok)

	mean, sem, ok := Describe([]float64{4})
	require.True(t, ok)
	assert.Equal(t, 4.0, mean)
	assert.Equal(t, 0.0, sem)

	// sample sd of {2, 4, 6} is 2, so SEM = 2/sqrt(3)
	mean, sem, ok = Describe([]float64{2, 4, 6})
	require.True(t, ok)
	assert.InDelta(t, 4.0, mean, 1e-12)
	assert.InDelta(t, 2/math.Sqrt(3), sem, 1e-12)
}

func TestByKey_MeanAndSEM(t *testing.T) {
	values := map[string]models.Series{
		"MB": {1, 10},
		"MR": {3, 20},
		"FB": {5, 0},
		"XX": {100, 100},
	}

	summaries, err := ByKey(values, sexOf)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	female := summaries[0]
	assert.Equal(t, "female", female.Key)
	assert.Equal(t, 1, female.N)
	assert.Equal(t, models.Series{5, 0}, female.Mean)
	assert.Equal(t, models.Series{0, 0}, female.SEM, "single-member partition has zero SEM")

	male := summaries[1]
	assert.Equal(t, "male", male.Key)
	assert.Equal(t, 2, male.N)
	assert.InDeltaSlice(t, []float64{2, 15}, []float64(male.Mean), 1e-12)
	// sd of {1,3} = sqrt(2), SEM = 1; sd of {10,20} = sqrt(50), SEM = 5
	assert.InDeltaSlice(t, []float64{1, 5}, []float64(male.SEM), 1e-12)
}

func TestByKey_EmptyPartitionsOmitted(t *testing.T) {
	values := map[string]models.Series{
		"MB": {1, 2},
		"MG": {3, 4},
	}

	summaries, err := ByKey(values, sexOf)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "male", summaries[0].Key)

	for _, s := range summaries {
		assert.NotEqual(t, "female", s.Key)
	}

	empty, err := ByKey(map[string]models.Series{}, sexOf)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestByKey_LengthMismatch(t *testing.T) {
	values := map[string]models.Series{
		"MB": {1, 2},
		"MG": {3},
	}
	_, err := ByKey(values, sexOf)
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestScalarsByKey(t *testing.T) {
	values := map[string]float64{
		"MB": 0.5,
		"MW": 1.5,
		"FB": 2,
	}
	summaries := ScalarsByKey(values, sexOf)
	require.Len(t, summaries, 2)

	assert.Equal(t, ScalarSummary{Key: "female", N: 1, Mean: 2, SEM: 0}, summaries[0])
	assert.Equal(t, "male", summaries[1].Key)
	assert.InDelta(t, 1.0, summaries[1].Mean, 1e-12)
	assert.InDelta(t, 0.5, summaries[1].SEM, 1e-12)
}
