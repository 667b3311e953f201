package model

import (
	"fmt"

	"housingml/pkg/split"
)

// CrossValidate fits a fresh model on the train rows of every fold and
// scores its predictions on the test rows, one score per fold.
func CrossValidate(newModel func() Model, X [][]float64, y []float64, folds []split.Fold, score func(yTrue, yPred []float64) float64) ([]float64, error) {
	if len(X) != len(y) {
		return nil, fmt.Errorf("X has %d rows, y has %d", len(X), len(y))
	}
	scores := make([]float64, len(folds))
	for f, fold := range folds {
		XTrain, yTrain := rows(X, y, fold.Train)
		XTest, yTest := rows(X, y, fold.Test)
		m := newModel()
		if err := m.Fit(XTrain, yTrain); err != nil {
			return nil, fmt.Errorf("fold %d: %w", f, err)
		}
		scores[f] = score(yTest, m.Predict(XTest))
	}
	return scores, nil
}

func rows(X [][]float64, y []float64, idx []int) ([][]float64, []float64) {
	Xs := make([][]float64, len(idx))
	ys := make([]float64, len(idx))
	for i, j := range idx {
		Xs[i], ys[i] = X[j], y[j]
	}
	return Xs, ys
}
