package dataprep_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housingml/pkg/data"
	"housingml/pkg/dataprep"
)

var nan = math.NaN()

func TestSimpleImputer_Median(t *testing.T) {
	train := [][]float64{{1, 10}, {nan, 20}, {3, nan}, {5, 40}}
	imp := dataprep.NewSimpleImputer(dataprep.Median)
	require.NoError(t, imp.Fit(train, nil))
	assert.Equal(t, []float64{3, 20}, imp.Statistics)

	out, err := imp.Transform([][]float64{{nan, nan}, {7, 8}})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{3, 20}, {7, 8}}, out)
}

func TestSimpleImputer_Strategies(t *testing.T) {
	train := [][]float64{{1}, {2}, {2}, {7}, {nan}}
	cases := []struct {
		strategy string
		want     float64
	}{
		{dataprep.Mean, 3},
		{dataprep.Median, 2},
		{dataprep.MostFrequent, 2},
		{dataprep.Constant, -1},
	}
	for _, tc := range cases {
		t.Run(tc.strategy, func(t *testing.T) {
			imp := &dataprep.SimpleImputer{Strategy: tc.strategy, FillValue: -1}
			require.NoError(t, imp.Fit(train, nil))
			assert.Equal(t, []float64{tc.want}, imp.Statistics)
		})
	}
}

func TestSimpleImputer_Errors(t *testing.T) {
	imp := dataprep.NewSimpleImputer(dataprep.Median)
	_, err := imp.Transform([][]float64{{1}})
	assert.ErrorIs(t, err, dataprep.ErrNotFitted)

	assert.ErrorIs(t, imp.Fit([][]float64{{nan}, {nan}}, nil), dataprep.ErrAllMissing)
	assert.ErrorIs(t, dataprep.NewSimpleImputer("mode").Fit([][]float64{{1}}, nil), dataprep.ErrUnknownStrategy)

	require.NoError(t, imp.Fit([][]float64{{1, 2}}, nil))
	_, err = imp.Transform([][]float64{{1}})
	assert.ErrorIs(t, err, dataprep.ErrShape)
}

func TestSimpleImputer_NoLeakage(t *testing.T) {
	train := [][]float64{{1}, {2}, {nan}, {4}}
	held := [][]float64{{1000}, {2000}}

	a := dataprep.NewSimpleImputer(dataprep.Median)
	require.NoError(t, a.Fit(train, nil))
	_, err := a.Transform(held)
	require.NoError(t, err)

	b := dataprep.NewSimpleImputer(dataprep.Median)
	require.NoError(t, b.Fit(train, nil))
	assert.Equal(t, b.Statistics, a.Statistics)
}

func TestCategoricalImputer(t *testing.T) {
	X := [][]string{{"INLAND"}, {""}, {"NEAR BAY"}, {"INLAND"}}
	imp := dataprep.NewCategoricalImputer(dataprep.MostFrequent)
	require.NoError(t, imp.Fit(X))
	out, err := imp.Transform(X)
	require.NoError(t, err)
	assert.Equal(t, "INLAND", out[1][0])

	c := dataprep.NewCategoricalImputer(dataprep.Constant)
	require.NoError(t, c.Fit(X))
	out, err = c.Transform(X)
	require.NoError(t, err)
	assert.Equal(t, "missing", out[1][0])
}

func TestOrdinalEncoder(t *testing.T) {
	X := [][]string{{"NEAR BAY"}, {"<1H OCEAN"}, {"INLAND"}, {"NEAR BAY"}}
	enc := &dataprep.OrdinalEncoder{}
	require.NoError(t, enc.Fit(X))
	assert.Equal(t, [][]string{{"<1H OCEAN", "INLAND", "NEAR BAY"}}, enc.Categories)

	out, err := enc.Transform(X)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{2}, {0}, {1}, {2}}, out)

	_, err = enc.Transform([][]string{{"ISLAND"}})
	assert.ErrorIs(t, err, dataprep.ErrUnknownCategory)
}

func TestOneHotEncoder(t *testing.T) {
	X := [][]string{{"INLAND"}, {"NEAR BAY"}, {"INLAND"}}
	enc := &dataprep.OneHotEncoder{}
	require.NoError(t, enc.Fit(X))

	out, err := enc.Transform(X)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 0}, {0, 1}, {1, 0}}, out)
	assert.Equal(t, []string{"ocean_proximity_INLAND", "ocean_proximity_NEAR BAY"}, enc.FeatureNames([]string{"ocean_proximity"}))

	_, err = enc.Transform([][]string{{"ISLAND"}})
	assert.ErrorIs(t, err, dataprep.ErrUnknownCategory)

	enc.IgnoreUnknown = true
	out, err = enc.Transform([][]string{{"ISLAND"}})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0, 0}}, out)
}

func TestCut_IncomeCategories(t *testing.T) {
	got, err := dataprep.Cut([]float64{0, 0.5, 1.5, 1.51, 3, 4.6, 6, 15, nan, -1}, dataprep.IncomeEdges, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "1", "1", "2", "2", "4", "4", "5", "", ""}, got)

	_, err = dataprep.Cut([]float64{1}, []float64{1, 0}, nil)
	assert.Error(t, err)
	_, err = dataprep.Cut([]float64{1}, []float64{0, 1, 2}, []string{"a"})
	assert.Error(t, err)
}

func TestAddHousingRatios(t *testing.T) {
	tbl := data.NewTable()
	require.NoError(t, tbl.AddNumeric("total_rooms", []float64{880, 7099, 1467}))
	require.NoError(t, tbl.AddNumeric("total_bedrooms", []float64{129, nan, 190}))
	require.NoError(t, tbl.AddNumeric("population", []float64{322, 2401, 496}))
	require.NoError(t, tbl.AddNumeric("households", []float64{126, 1138, 177}))

	require.NoError(t, dataprep.AddHousingRatios(tbl))
	assert.Equal(t, 3, tbl.Len())

	rooms, err := tbl.Numeric("rooms_per_house")
	require.NoError(t, err)
	for i, want := range []float64{880.0 / 126, 7099.0 / 1138, 1467.0 / 177} {
		assert.Equal(t, want, rooms[i])
	}
	ratio, err := tbl.Numeric("bedrooms_ratio")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(ratio[1]))
}

func TestRatioAndLogTransformers(t *testing.T) {
	r := dataprep.RatioFeature{}
	require.NoError(t, r.Fit([][]float64{{1, 2}}, nil))
	out, err := r.Transform([][]float64{{1, 2}, {9, 3}})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0.5}, {3}}, out)
	assert.Equal(t, []string{"ratio"}, r.FeatureNames([]string{"a", "b"}))

	_, err = r.Transform([][]float64{{1}})
	assert.ErrorIs(t, err, dataprep.ErrShape)

	out, err = dataprep.LogTransformer{}.Transform([][]float64{{math.E, 1}})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 0}, out[0], 1e-12)
}

func TestDropMissingAndDuplicates(t *testing.T) {
	tbl := data.NewTable()
	require.NoError(t, tbl.AddNumeric("a", []float64{1, nan, 3}))
	require.NoError(t, tbl.AddCategorical("b", []string{"x", "y", ""}))

	only, err := dataprep.DropMissing(tbl, "a")
	require.NoError(t, err)
	assert.Equal(t, 2, only.Len())

	all, err := dataprep.DropMissing(tbl)
	require.NoError(t, err)
	assert.Equal(t, 1, all.Len())

	ratios := dataprep.MissingRatio(tbl)
	assert.InDelta(t, 1.0/3, ratios["a"], 1e-12)

	assert.Equal(t, [][]float64{{1, 2}, {3, 4}}, dataprep.DropDuplicates([][]float64{{1, 2}, {3, 4}, {1, 2}}))
}
