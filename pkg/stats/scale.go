package stats

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNotFitted is returned by Transform before Fit.
	ErrNotFitted = errors.New("stats: scaler is not fitted")
	// ErrShape is returned when the column count differs from the one seen at Fit.
	ErrShape = errors.New("stats: column count mismatch")
)

func columns(X [][]float64) int {
	if len(X) == 0 {
		return 0
	}
	return len(X[0])
}

func column(X [][]float64, j int) []float64 {
	col := make([]float64, len(X))
	for i := range X {
		col[i] = X[i][j]
	}
	return col
}

func checkShape(X [][]float64, want int) error {
	for i, row := range X {
		if len(row) != want {
			return fmt.Errorf("%w: row %d has %d columns, fitted on %d", ErrShape, i, len(row), want)
		}
	}
	return nil
}

// StandardScaler maps columns to zero mean and unit variance.
// Mean and Scale are learned by Fit and reused unchanged by Transform.
// Missing values (NaN) are ignored at Fit and stay missing.
type StandardScaler struct {
	WithMean bool
	Mean     []float64
	Scale    []float64
}

func NewStandardScaler() *StandardScaler { return &StandardScaler{WithMean: true} }

// Fit learns the per-column mean and population standard deviation.
// Constant columns get a scale of 1. y is ignored.
func (s *StandardScaler) Fit(X [][]float64, _ []float64) error {
	c := columns(X)
	if err := checkShape(X, c); err != nil {
		return err
	}
	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)
	for j := 0; j < c; j++ {
		col := column(X, j)
		s.Mean[j] = Mean(col)
		s.Scale[j] = PopStd(col)
		if s.Scale[j] == 0 || math.IsNaN(s.Scale[j]) {
			s.Scale[j] = 1
		}
		if !s.WithMean {
			s.Mean[j] = 0
		}
	}
	return nil
}

// Transform applies the learned mean and scale.
func (s *StandardScaler) Transform(X [][]float64) ([][]float64, error) {
	if s.Scale == nil {
		return nil, ErrNotFitted
	}
	if err := checkShape(X, len(s.Scale)); err != nil {
		return nil, err
	}
	out := make([][]float64, len(X))
	for i, row := range X {
		r := make([]float64, len(row))
		for j, v := range row {
			r[j] = (v - s.Mean[j]) / s.Scale[j]
		}
		out[i] = r
	}
	return out, nil
}

// InverseTransform maps standardized values back to the original units.
func (s *StandardScaler) InverseTransform(X [][]float64) ([][]float64, error) {
	if s.Scale == nil {
		return nil, ErrNotFitted
	}
	if err := checkShape(X, len(s.Scale)); err != nil {
		return nil, err
	}
	out := make([][]float64, len(X))
	for i, row := range X {
		r := make([]float64, len(row))
		for j, v := range row {
			r[j] = v*s.Scale[j] + s.Mean[j]
		}
		out[i] = r
	}
	return out, nil
}

func (s *StandardScaler) FeatureNames(in []string) []string { return in }

// MinMaxScaler maps every column affinely onto [Lo, Hi].
type MinMaxScaler struct {
	Lo, Hi  float64
	DataMin []float64
	DataMax []float64
}

// NewMinMaxScaler returns a scaler onto [lo, hi], e.g. [-1, 1].
func NewMinMaxScaler(lo, hi float64) *MinMaxScaler { return &MinMaxScaler{Lo: lo, Hi: hi} }

// Fit learns the per-column minimum and maximum. y is ignored.
func (s *MinMaxScaler) Fit(X [][]float64, _ []float64) error {
	if s.Hi <= s.Lo {
		return fmt.Errorf("stats: invalid feature range [%g, %g]", s.Lo, s.Hi)
	}
	c := columns(X)
	if err := checkShape(X, c); err != nil {
		return err
	}
	s.DataMin = make([]float64, c)
	s.DataMax = make([]float64, c)
	for j := 0; j < c; j++ {
		s.DataMin[j], s.DataMax[j] = MinMax(column(X, j))
	}
	return nil
}

// Transform maps each value with the learned range. Constant columns map to Lo.
func (s *MinMaxScaler) Transform(X [][]float64) ([][]float64, error) {
	if s.DataMin == nil {
		return nil, ErrNotFitted
	}
	if err := checkShape(X, len(s.DataMin)); err != nil {
		return nil, err
	}
	out := make([][]float64, len(X))
	for i, row := range X {
		r := make([]float64, len(row))
		for j, v := range row {
			span := s.DataMax[j] - s.DataMin[j]
			if span == 0 || math.IsNaN(span) {
				span = 1
			}
			r[j] = s.Lo + (v-s.DataMin[j])/span*(s.Hi-s.Lo)
		}
		out[i] = r
	}
	return out, nil
}

func (s *MinMaxScaler) FeatureNames(in []string) []string { return in }
