package stats_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housingml/pkg/data"
	"housingml/pkg/stats"
)

const tol = 1e-9

func TestSummaryFunctions_IgnoreNaN(t *testing.T) {
	nan := math.NaN()
	x := []float64{4, nan, 1, 3, 2}

	assert.InDelta(t, 2.5, stats.Mean(x), tol)
	assert.InDelta(t, 2.5, stats.Median(x), tol)
	assert.InDelta(t, 1.75, stats.Percentile(x, 25), tol)
	assert.InDelta(t, math.Sqrt(1.25), stats.PopStd(x), tol)
	assert.InDelta(t, math.Sqrt(5.0/3.0), stats.Std(x), tol)

	lo, hi := stats.MinMax(x)
	assert.Equal(t, 1.0, lo)
	assert.Equal(t, 4.0, hi)

	assert.True(t, math.IsNaN(stats.Mean([]float64{nan})))
	assert.Equal(t, 2.0, stats.Mode([]float64{3, 2, 2, 3, 1}))
}

func TestCorrelation(t *testing.T) {
	x := []float64{1, 2, 3, 4, math.NaN()}
	assert.InDelta(t, 1, stats.Correlation(x, []float64{2, 4, 6, 8, 1}), tol)
	assert.InDelta(t, -1, stats.Correlation(x, []float64{-1, -2, -3, -4, 0}), tol)
	assert.True(t, math.IsNaN(stats.Correlation(x, []float64{1})))
}

func TestDescribeAndCorrelationWith(t *testing.T) {
	tbl := data.NewTable()
	require.NoError(t, tbl.AddNumeric("income", []float64{1, 2, 3, 4}))
	require.NoError(t, tbl.AddNumeric("value", []float64{10, 20, 30, 40}))
	require.NoError(t, tbl.AddNumeric("noise", []float64{4, 3, 2, 1}))
	require.NoError(t, tbl.AddCategorical("cat", []string{"a", "b", "a", "b"}))

	desc := stats.Describe(tbl)
	require.Len(t, desc, 3)
	assert.Equal(t, "income", desc[0].Column)
	assert.Equal(t, 4, desc[0].Count)
	assert.InDelta(t, 2.5, desc[0].Mean, tol)
	assert.InDelta(t, 4, desc[0].Max, tol)

	corr, err := stats.CorrelationWith(tbl, "value")
	require.NoError(t, err)
	require.Len(t, corr, 3)
	assert.Equal(t, "noise", corr[2].Column)
	assert.InDelta(t, -1, corr[2].R, tol)

	_, err = stats.CorrelationWith(tbl, "cat")
	assert.ErrorIs(t, err, data.ErrWrongKind)
}

func TestClip(t *testing.T) {
	x := []float64{1, 2, 3, 4, 100, math.NaN()}
	got := stats.Clip(x, 0, 75)
	assert.Equal(t, []float64{1, 2, 3, 4, 4}, got[:5])
	assert.True(t, math.IsNaN(got[5]))
	assert.Equal(t, 100.0, x[4], "input is left alone")

	low := stats.Clip([]float64{-50, 0, 1, 2, 3}, 25, 75)
	assert.Equal(t, []float64{0, 0, 1, 2, 2}, low)
}
