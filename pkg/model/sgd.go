package model

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"housingml/pkg/data"
)

// SGDRegressor is a LinearRegression trained by mini-batch gradient descent.
// Rows are reshuffled every epoch and streamed in batches of BatchSize.
type SGDRegressor struct {
	LinearRegression
	Epochs    int
	BatchSize int
	LR        float64
	Seed      int64
}

// NewSGDRegressor returns a regressor with the given learning rate and epochs,
// batches of 32 rows.
func NewSGDRegressor(lr float64, epochs int, seed int64) *SGDRegressor {
	return &SGDRegressor{Epochs: epochs, BatchSize: 32, LR: lr, Seed: seed}
}

// Fit restarts from zero weights and runs Epochs passes over X and y.
func (s *SGDRegressor) Fit(X [][]float64, y []float64) error {
	return s.FitContext(context.Background(), X, y)
}

// FitContext is Fit with cancellation.
func (s *SGDRegressor) FitContext(ctx context.Context, X [][]float64, y []float64) error {
	if len(X) == 0 {
		return errors.New("input data cannot be empty")
	}
	if len(X) != len(y) {
		return fmt.Errorf("X has %d rows, y has %d", len(X), len(y))
	}
	t, features, err := sampleTable(X, y)
	if err != nil {
		return err
	}

	s.W, s.b = nil, 0
	rng := rand.New(rand.NewSource(s.Seed))
	return s.FitSGD(ctx, func(ctx context.Context) (<-chan data.Batch, error) {
		return data.Batches(ctx, t.Take(rng.Perm(t.Len())), features, "y", s.BatchSize)
	}, s.Epochs, s.LR)
}

// sampleTable stores the columns of X as x0, x1, ... next to y.
func sampleTable(X [][]float64, y []float64) (*data.Table, []string, error) {
	p := len(X[0])
	t := data.NewTable()
	features := make([]string, p)
	for j := range p {
		col := make([]float64, len(X))
		for i, row := range X {
			if len(row) != p {
				return nil, nil, fmt.Errorf("row %d has %d features, want %d", i, len(row), p)
			}
			col[i] = row[j]
		}
		features[j] = fmt.Sprintf("x%d", j)
		if err := t.AddNumeric(features[j], col); err != nil {
			return nil, nil, err
		}
	}
	if err := t.AddNumeric("y", y); err != nil {
		return nil, nil, err
	}
	return t, features, nil
}
