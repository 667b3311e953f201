package model

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"

	"housingml/pkg/data"
)

// LinearRegression is an ordinary least squares model y = X·W + b.
type LinearRegression struct {
	W []float64 // weights
	b float64   // bias
}

// NewLinearRegression returns an unfitted model.
func NewLinearRegression() *LinearRegression { return &LinearRegression{} }

// rcond is the relative singular value cutoff of Fit.
const rcond = 1e-10

// Fit solves the least squares problem through an SVD. Rank deficient and
// underdetermined designs, such as one-hot columns next to the intercept,
// get the minimum-norm solution.
func (m *LinearRegression) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return errors.New("input data cannot be empty")
	}
	if len(X) != len(y) {
		return fmt.Errorf("X has %d rows, y has %d", len(X), len(y))
	}
	n, p := len(X), len(X[0])

	A := mat.NewDense(n, p+1, nil)
	for i, row := range X {
		if len(row) != p {
			return fmt.Errorf("row %d has %d features, want %d", i, len(row), p)
		}
		A.Set(i, 0, 1)
		for j, v := range row {
			A.Set(i, j+1, v)
		}
	}
	b := mat.NewDense(n, 1, append([]float64(nil), y...))

	var svd mat.SVD
	if !svd.Factorize(A, mat.SVDThin) {
		return errors.New("least squares: SVD did not converge")
	}
	var coef mat.Dense
	svd.SolveTo(&coef, b, svd.Rank(rcond))
	m.b = coef.At(0, 0)
	m.W = make([]float64, p)
	for j := range m.W {
		m.W[j] = coef.At(j+1, 0)
	}
	return nil
}

// Predict returns predictions for rows in X (rows of features).
// Rows are split across CPU cores. It returns nil before the model is fitted.
func (m *LinearRegression) Predict(X [][]float64) []float64 {
	if len(X) == 0 || m.W == nil {
		return nil
	}
	pred := make([]float64, len(X))
	var wg sync.WaitGroup

	workers := runtime.GOMAXPROCS(0)
	rowsPerWorker := (len(X) + workers - 1) / workers

	for w := 0; w < workers; w++ {
		s := w * rowsPerWorker
		e := min(s+rowsPerWorker, len(X))
		if s >= e {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				sum := m.b
				for j, v := range X[i] {
					sum += m.W[j] * v
				}
				pred[i] = sum
			}
		}(s, e)
	}
	wg.Wait()
	return pred
}

// FitSGD trains the model with mini-batch gradient descent on the mean squared error.
// next is called once per epoch and must return a fresh batch channel that
// stops when its context is cancelled. Every epoch's stream is cancelled
// before FitSGD moves on or returns.
func (m *LinearRegression) FitSGD(ctx context.Context, next func(context.Context) (<-chan data.Batch, error), epochs int, lr float64) error {
	for ep := 0; ep < epochs; ep++ {
		if err := m.sgdEpoch(ctx, next, lr); err != nil {
			return fmt.Errorf("epoch %d: %w", ep, err)
		}
	}
	return nil
}

func (m *LinearRegression) sgdEpoch(ctx context.Context, next func(context.Context) (<-chan data.Batch, error), lr float64) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	batches, err := next(ctx)
	if err != nil {
		return err
	}
	for batch := range batches {
		if len(batch.Y) == 0 {
			continue
		}
		if m.W == nil {
			m.W = make([]float64, len(batch.X[0]))
		}
		if len(m.W) != len(batch.X[0]) {
			return errors.New("feature count mismatch between model and batch data")
		}
		yhat := m.Predict(batch.X)
		scale := 2 / float64(len(batch.Y))
		gW := make([]float64, len(m.W))
		gb := 0.0
		for i, row := range batch.X {
			d := scale * (yhat[i] - batch.Y[i])
			for j, xij := range row {
				gW[j] += d * xij
			}
			gb += d
		}
		for j := range m.W {
			m.W[j] -= lr * gW[j]
		}
		m.b -= lr * gb
	}
	// a cancelled parent also ends the stream early
	return ctx.Err()
}

// Bias returns the current bias value of the model.
func (m *LinearRegression) Bias() float64 {
	return m.b
}
