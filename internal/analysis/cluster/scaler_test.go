package cluster

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/jengzang/carbon-footprint-backend/internal/stats"
)

func TestStandardScaler_FitTransform(t *testing.T) {
	x := [][]float64{
		{21, 170, 50, 20},
		{2.1, 17, 10, 2},
		{420, 8.5, 10, 1},
		{63, 255, 90, 40},
	}

	var s StandardScaler
	out, err := s.FitTransform(x)
	require.NoError(t, err)
	require.Len(t, out, len(x))

	for j := 0; j < 4; j++ {
		mean, std := stat.PopMeanStdDev(stats.Column(out, j), nil)
		assert.InDelta(t, 0, mean, 1e-9, "column %d mean", j)
		assert.InDelta(t, 1, std, 1e-9, "column %d std", j)
	}

	// input untouched
	assert.Equal(t, 21.0, x[0][0])
}

func TestStandardScaler_UsesPopulationStdDev(t *testing.T) {
	var x [][]float64
	for _, v := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		x = append(x, []float64{v})
	}

	var s StandardScaler
	require.NoError(t, s.Fit(x))
	assert.InDelta(t, 5, s.Mean[0], 1e-12)
	assert.InDelta(t, 2, s.Scale[0], 1e-12, "divides by n, not n-1")
}

func TestStandardScaler_ConstantColumnKeepsUnitScale(t *testing.T) {
	x := [][]float64{{1, 5}, {2, 5}, {3, 5}}

	var s StandardScaler
	out, err := s.FitTransform(x)
	require.NoError(t, err)

	assert.Equal(t, 1.0, s.Scale[1])
	for _, row := range out {
		assert.Equal(t, 0.0, row[1])
	}
}

func TestStandardScaler_Errors(t *testing.T) {
	var s StandardScaler

	_, err := s.Transform([][]float64{{1}})
	assert.ErrorIs(t, err, ErrNotFitted)

	_, err = s.FitTransform(nil)
	assert.ErrorIs(t, err, ErrNoSamples)

	_, err = s.FitTransform([][]float64{{1, 2}, {3}})
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = s.FitTransform([][]float64{{1, math.NaN()}})
	assert.ErrorIs(t, err, ErrNonFinite)
}
