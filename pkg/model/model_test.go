package model_test

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"housingml/pkg/data"
	"housingml/pkg/model"
	"housingml/pkg/split"
)

func line(n int) ([][]float64, []float64) {
	X := make([][]float64, n)
	y := make([]float64, n)
	for i := range X {
		x := float64(i) / float64(n)
		X[i] = []float64{x}
		y[i] = 2*x + 1
	}
	return X, y
}

func TestLinearRegression_OLS(t *testing.T) {
	X, y := line(50)
	m := model.NewLinearRegression()
	assert.Nil(t, m.Predict(X))
	require.NoError(t, m.Fit(X, y))

	assert.InDelta(t, 2, m.W[0], 1e-9)
	assert.InDelta(t, 1, m.Bias(), 1e-9)
	assert.InDelta(t, 0, model.RMSE(y, m.Predict(X)), 1e-9)
	assert.InDelta(t, 1, model.R2(y, m.Predict(X)), 1e-9)
}

func TestLinearRegression_RankDeficient(t *testing.T) {
	// Two one-hot columns always sum to the intercept column.
	X := make([][]float64, 40)
	y := make([]float64, 40)
	for i := range X {
		x := float64(i)
		if i%2 == 0 {
			X[i] = []float64{x, 1, 0}
			y[i] = 3*x + 5
		} else {
			X[i] = []float64{x, 0, 1}
			y[i] = 3*x - 1
		}
	}
	m := model.NewLinearRegression()
	require.NoError(t, m.Fit(X, y))
	assert.InDelta(t, 3, m.W[0], 1e-8)
	assert.InDelta(t, 6, m.W[1]-m.W[2], 1e-8)
	assert.InDelta(t, 0, model.RMSE(y, m.Predict(X)), 1e-8)
}

func TestLinearRegression_Errors(t *testing.T) {
	m := model.NewLinearRegression()
	assert.Error(t, m.Fit(nil, nil))
	assert.Error(t, m.Fit([][]float64{{1}, {2}}, []float64{1}))
	assert.Error(t, m.Fit([][]float64{{1, 2}, {3}}, []float64{1, 2}))
}

func TestLinearRegression_Underdetermined(t *testing.T) {
	// two rows, three features plus the intercept
	X := [][]float64{{1, 0, 2}, {0, 1, 1}}
	y := []float64{4, -1}
	m := model.NewLinearRegression()
	require.NoError(t, m.Fit(X, y))
	assert.InDeltaSlice(t, y, m.Predict(X), 1e-9)
}

func lineTable(t *testing.T, n int) *data.Table {
	t.Helper()
	X, y := line(n)
	xs := make([]float64, len(X))
	for i := range X {
		xs[i] = X[i][0]
	}
	tbl := data.NewTable()
	require.NoError(t, tbl.AddNumeric("x", xs))
	require.NoError(t, tbl.AddNumeric("y", y))
	return tbl
}

func TestLinearRegression_FitSGD(t *testing.T) {
	tbl := lineTable(t, 100)
	m := model.NewLinearRegression()
	err := m.FitSGD(context.Background(), func(ctx context.Context) (<-chan data.Batch, error) {
		return data.Batches(ctx, tbl, []string{"x"}, "y", 10)
	}, 500, 0.1)
	require.NoError(t, err)

	assert.InDelta(t, 2, m.W[0], 0.05)
	assert.InDelta(t, 1, m.Bias(), 0.05)
}

func TestLinearRegression_FitSGDMismatchStopsStream(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	tbl := lineTable(t, 100)
	m := &model.LinearRegression{W: []float64{0, 0}}
	err := m.FitSGD(context.Background(), func(ctx context.Context) (<-chan data.Batch, error) {
		return data.Batches(ctx, tbl, []string{"x"}, "y", 10)
	}, 3, 0.1)
	assert.ErrorContains(t, err, "feature count mismatch")
}

func TestLinearRegression_FitSGDCancelled(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := model.NewLinearRegression()
	err := m.FitSGD(ctx, func(ctx context.Context) (<-chan data.Batch, error) {
		return data.Batches(ctx, lineTable(t, 100), []string{"x"}, "y", 10)
	}, 3, 0.1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSGDRegressor(t *testing.T) {
	X, y := line(200)
	m := model.NewSGDRegressor(0.1, 300, 1)
	m.BatchSize = 16
	require.NoError(t, m.Fit(X, y))
	assert.InDelta(t, 2, m.W[0], 0.05)
	assert.InDelta(t, 1, m.Bias(), 0.05)

	// refitting starts over and is reproducible
	w := m.W[0]
	require.NoError(t, m.Fit(X, y))
	assert.Equal(t, w, m.W[0])

	assert.Error(t, m.Fit(nil, nil))
	assert.Error(t, m.Fit(X, y[:3]))
}

func TestCrossValidate(t *testing.T) {
	X, y := line(30)
	folds, err := split.KFold(len(X), 5, 3)
	require.NoError(t, err)

	var fitted int
	scores, err := model.CrossValidate(func() model.Model {
		fitted++
		return model.NewLinearRegression()
	}, X, y, folds, model.RMSE)
	require.NoError(t, err)
	assert.Equal(t, 5, fitted)
	require.Len(t, scores, 5)
	for _, s := range scores {
		assert.InDelta(t, 0, s, 1e-9)
	}

	_, err = model.CrossValidate(func() model.Model { return model.NewLinearRegression() }, X, y[:2], folds, model.RMSE)
	assert.Error(t, err)
}

func TestMetrics(t *testing.T) {
	y := []float64{1, 2, 3, 4}
	pred := []float64{2, 2, 3, 2}
	assert.InDelta(t, 1.25, model.MSE(y, pred), 1e-12)
	assert.InDelta(t, math.Sqrt(1.25), model.RMSE(y, pred), 1e-12)
	assert.InDelta(t, 0.75, model.MAE(y, pred), 1e-12)
	// the residual sum of squares equals the total sum of squares
	assert.InDelta(t, 0, model.R2(y, pred), 1e-12)
	assert.Equal(t, 0.0, model.R2([]float64{3, 3}, []float64{1, 2}))
}

func TestMetrics_BadInput(t *testing.T) {
	y := []float64{1, 2}
	for name, pred := range map[string][]float64{
		"nil":      nil,
		"short":    {1},
		"too long": {1, 2, 3},
	} {
		assert.True(t, math.IsNaN(model.MSE(y, pred)), name)
		assert.True(t, math.IsNaN(model.RMSE(y, pred)), name)
		assert.True(t, math.IsNaN(model.MAE(y, pred)), name)
		assert.True(t, math.IsNaN(model.R2(y, pred)), name)
	}
	assert.True(t, math.IsNaN(model.RMSE(nil, nil)))
}

func TestTransformedTargetRegressor(t *testing.T) {
	X := make([][]float64, 40)
	y := make([]float64, 40)
	for i := range X {
		X[i] = []float64{float64(i)}
		y[i] = 1000*float64(i) + 50000
	}
	r := model.NewTransformedTargetRegressor(model.NewLinearRegression())
	require.NoError(t, r.Fit(X, y))

	pred := r.Predict([][]float64{{10}, {100}})
	assert.InDelta(t, 60000, pred[0], 1e-6)
	assert.InDelta(t, 150000, pred[1], 1e-6)
	assert.InDelta(t, 19.5*1000+50000, r.Scaler.Mean[0], 1e-6)
}

func blobs(seed int64) ([][]float64, []float64) {
	rng := rand.New(rand.NewSource(seed))
	var X [][]float64
	var w []float64
	for _, c := range [][2]float64{{0, 0}, {10, 10}} {
		for range 50 {
			X = append(X, []float64{c[0] + rng.NormFloat64()*0.3, c[1] + rng.NormFloat64()*0.3})
			w = append(w, 1)
		}
	}
	return X, w
}

func TestKMeans_TwoBlobs(t *testing.T) {
	X, _ := blobs(3)
	km := model.NewKMeans(2, 100, 42)
	require.NoError(t, km.FitWeighted(X, nil))
	require.Len(t, km.Centroids, 2)

	assert.Greater(t, math.Hypot(km.Centroids[0][0]-km.Centroids[1][0], km.Centroids[0][1]-km.Centroids[1][1]), 10.0)
	for _, c := range km.Centroids {
		near := math.Hypot(c[0], c[1]) < 1 || math.Hypot(c[0]-10, c[1]-10) < 1
		assert.True(t, near, "centroid %v is not at a blob", c)
	}
}

func TestKMeans_Deterministic(t *testing.T) {
	X, _ := blobs(5)
	a := model.NewKMeans(3, 50, 7)
	b := model.NewKMeans(3, 50, 7)
	require.NoError(t, a.FitWeighted(X, nil))
	require.NoError(t, b.FitWeighted(X, nil))
	assert.Equal(t, a.Centroids, b.Centroids)
	assert.Equal(t, a.Inertia, b.Inertia)
}

func TestKMeans_WeightsPullCentroid(t *testing.T) {
	X := [][]float64{{0}, {1}}
	km := model.NewKMeans(1, 10, 1)
	require.NoError(t, km.FitWeighted(X, []float64{1, 3}))
	assert.InDelta(t, 0.75, km.Centroids[0][0], 1e-12)
}

func TestKMeans_Errors(t *testing.T) {
	km := model.NewKMeans(3, 10, 1)
	assert.Error(t, km.FitWeighted(nil, nil))
	assert.Error(t, km.FitWeighted([][]float64{{1}, {2}}, nil))
	assert.Error(t, km.FitWeighted([][]float64{{1}, {2}, {3}}, []float64{1}))
	assert.Error(t, km.FitWeighted([][]float64{{1}, {2}, {3}}, []float64{1, -1, 1}))
}
