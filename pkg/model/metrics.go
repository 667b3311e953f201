package model

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// residuals returns yPred - yTrue, or false when the slices are empty or
// differ in length.
func residuals(yTrue, yPred []float64) ([]float64, bool) {
	if len(yTrue) == 0 || len(yTrue) != len(yPred) {
		return nil, false
	}
	r := make([]float64, len(yTrue))
	floats.SubTo(r, yPred, yTrue)
	return r, true
}

// MSE is the mean squared error. It is NaN for empty or mismatched input.
func MSE(yTrue, yPred []float64) float64 {
	r, ok := residuals(yTrue, yPred)
	if !ok {
		return math.NaN()
	}
	return floats.Dot(r, r) / float64(len(r))
}

// RMSE is the square root of MSE, in the target's units.
func RMSE(yTrue, yPred []float64) float64 { return math.Sqrt(MSE(yTrue, yPred)) }

// MAE is the mean absolute error. It is NaN for empty or mismatched input.
func MAE(yTrue, yPred []float64) float64 {
	r, ok := residuals(yTrue, yPred)
	if !ok {
		return math.NaN()
	}
	return floats.Norm(r, 1) / float64(len(r))
}

// R2 is the coefficient of determination. A constant target scores 0;
// empty or mismatched input is NaN.
func R2(yTrue, yPred []float64) float64 {
	r, ok := residuals(yTrue, yPred)
	if !ok {
		return math.NaN()
	}
	mean := stat.Mean(yTrue, nil)
	ssTot := 0.0
	for _, v := range yTrue {
		ssTot += (v - mean) * (v - mean)
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - floats.Dot(r, r)/ssTot
}
