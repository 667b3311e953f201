package dataprep

import (
	"fmt"
	"math"
	"sort"

	"housingml/pkg/stats"
)

// Imputation strategies.
const (
	Mean         = "mean"
	Median       = "median"
	MostFrequent = "most_frequent"
	Constant     = "constant"
)

func width[T any](X [][]T) int {
	if len(X) == 0 {
		return 0
	}
	return len(X[0])
}

func checkWidth[T any](X [][]T, want int) error {
	for i, row := range X {
		if len(row) != want {
			return fmt.Errorf("%w: row %d has %d columns, fitted on %d", ErrShape, i, len(row), want)
		}
	}
	return nil
}

// SimpleImputer replaces NaN cells with a per-column statistic learned at Fit.
type SimpleImputer struct {
	Strategy   string
	FillValue  float64
	Statistics []float64
}

// NewSimpleImputer returns an imputer using strategy.
func NewSimpleImputer(strategy string) *SimpleImputer {
	return &SimpleImputer{Strategy: strategy}
}

// Fit learns one statistic per column from the observed values. y is ignored.
func (s *SimpleImputer) Fit(X [][]float64, _ []float64) error {
	c := width(X)
	if err := checkWidth(X, c); err != nil {
		return err
	}
	stat := make([]float64, c)
	for j := 0; j < c; j++ {
		col := make([]float64, len(X))
		for i := range X {
			col[i] = X[i][j]
		}
		switch s.Strategy {
		case Mean:
			stat[j] = stats.Mean(col)
		case Median:
			stat[j] = stats.Median(col)
		case MostFrequent:
			stat[j] = stats.Mode(col)
		case Constant:
			stat[j] = s.FillValue
		default:
			return fmt.Errorf("%w: %q", ErrUnknownStrategy, s.Strategy)
		}
		if math.IsNaN(stat[j]) {
			return fmt.Errorf("%w: column %d", ErrAllMissing, j)
		}
	}
	s.Statistics = stat
	return nil
}

// Transform fills missing cells with the learned statistics.
func (s *SimpleImputer) Transform(X [][]float64) ([][]float64, error) {
	if s.Statistics == nil {
		return nil, ErrNotFitted
	}
	if err := checkWidth(X, len(s.Statistics)); err != nil {
		return nil, err
	}
	out := make([][]float64, len(X))
	for i, row := range X {
		r := make([]float64, len(row))
		for j, v := range row {
			if math.IsNaN(v) {
				v = s.Statistics[j]
			}
			r[j] = v
		}
		out[i] = r
	}
	return out, nil
}

func (s *SimpleImputer) FeatureNames(in []string) []string { return in }

// CategoricalImputer replaces empty cells with the most frequent value or FillValue.
type CategoricalImputer struct {
	Strategy   string
	FillValue  string
	Statistics []string
}

// NewCategoricalImputer returns an imputer using strategy (most_frequent or constant).
func NewCategoricalImputer(strategy string) *CategoricalImputer {
	return &CategoricalImputer{Strategy: strategy, FillValue: "missing"}
}

// Fit learns the fill value of each column.
func (s *CategoricalImputer) Fit(X [][]string) error {
	c := width(X)
	if err := checkWidth(X, c); err != nil {
		return err
	}
	stat := make([]string, c)
	for j := 0; j < c; j++ {
		switch s.Strategy {
		case MostFrequent:
			counts := map[string]int{}
			for i := range X {
				if v := X[i][j]; v != "" {
					counts[v]++
				}
			}
			if len(counts) == 0 {
				return fmt.Errorf("%w: column %d", ErrAllMissing, j)
			}
			stat[j] = mostFrequent(counts)
		case Constant:
			stat[j] = s.FillValue
		default:
			return fmt.Errorf("%w: %q", ErrUnknownStrategy, s.Strategy)
		}
	}
	s.Statistics = stat
	return nil
}

// mostFrequent returns the most common key, the smallest one on ties.
func mostFrequent(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	best := keys[0]
	for _, k := range keys[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}
	return best
}

// Transform fills empty cells with the learned values.
func (s *CategoricalImputer) Transform(X [][]string) ([][]string, error) {
	if s.Statistics == nil {
		return nil, ErrNotFitted
	}
	if err := checkWidth(X, len(s.Statistics)); err != nil {
		return nil, err
	}
	out := make([][]string, len(X))
	for i, row := range X {
		r := make([]string, len(row))
		for j, v := range row {
			if v == "" {
				v = s.Statistics[j]
			}
			r[j] = v
		}
		out[i] = r
	}
	return out, nil
}
