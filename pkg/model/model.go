package model

import (
	"errors"

	"housingml/pkg/stats"
)

// Model is a generic supervised learning interface.
type Model interface {
	Fit(X [][]float64, y []float64) error
	Predict(X [][]float64) []float64
}

// TransformedTargetRegressor standardizes the target before fitting Regressor
// and maps predictions back to the target's units.
type TransformedTargetRegressor struct {
	Regressor Model
	Scaler    *stats.StandardScaler
}

// NewTransformedTargetRegressor wraps r with a fresh StandardScaler.
func NewTransformedTargetRegressor(r Model) *TransformedTargetRegressor {
	return &TransformedTargetRegressor{Regressor: r, Scaler: stats.NewStandardScaler()}
}

func (t *TransformedTargetRegressor) Fit(X [][]float64, y []float64) error {
	if len(y) == 0 {
		return errors.New("target cannot be empty")
	}
	col := make([][]float64, len(y))
	for i, v := range y {
		col[i] = []float64{v}
	}
	if err := t.Scaler.Fit(col, nil); err != nil {
		return err
	}
	scaled, err := t.Scaler.Transform(col)
	if err != nil {
		return err
	}
	ys := make([]float64, len(y))
	for i := range scaled {
		ys[i] = scaled[i][0]
	}
	return t.Regressor.Fit(X, ys)
}

// Predict returns predictions in the target's original units.
// It returns nil before Fit.
func (t *TransformedTargetRegressor) Predict(X [][]float64) []float64 {
	pred := t.Regressor.Predict(X)
	col := make([][]float64, len(pred))
	for i, v := range pred {
		col[i] = []float64{v}
	}
	back, err := t.Scaler.InverseTransform(col)
	if err != nil {
		return nil
	}
	out := make([]float64, len(back))
	for i := range back {
		out[i] = back[i][0]
	}
	return out
}
