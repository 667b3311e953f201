package dataprep

import (
	"fmt"
	"math"
	"strconv"

	"housingml/pkg/data"
)

var nan = math.NaN()

// IncomeEdges are the income category boundaries of the housing tutorial.
var IncomeEdges = []float64{0, 1.5, 3.0, 4.5, 6.0, math.Inf(1)}

// Cut bins values into right-closed intervals (edges[i], edges[i+1]] labelled labels[i].
// Values outside every interval, and NaN, get "".
// With nil labels the bins are labelled "1", "2", ...
func Cut(values, edges []float64, labels []string) ([]string, error) {
	if len(edges) < 2 {
		return nil, fmt.Errorf("dataprep: need at least 2 edges, got %d", len(edges))
	}
	for i := 1; i < len(edges); i++ {
		if !(edges[i] > edges[i-1]) {
			return nil, fmt.Errorf("dataprep: edges must increase, got %v", edges)
		}
	}
	if labels == nil {
		labels = make([]string, len(edges)-1)
		for i := range labels {
			labels[i] = strconv.Itoa(i + 1)
		}
	}
	if len(labels) != len(edges)-1 {
		return nil, fmt.Errorf("dataprep: %d labels for %d bins", len(labels), len(edges)-1)
	}
	out := make([]string, len(values))
	for i, v := range values {
		for b := 0; b < len(labels); b++ {
			if v > edges[b] && v <= edges[b+1] {
				out[i] = labels[b]
				break
			}
		}
	}
	return out, nil
}

// AddIncomeCategory appends income_cat, the median_income bucket used for stratification.
func AddIncomeCategory(t *data.Table, edges []float64) error {
	income, err := t.Numeric("median_income")
	if err != nil {
		return err
	}
	cats, err := Cut(income, edges, nil)
	if err != nil {
		return err
	}
	return t.AddCategorical("income_cat", cats)
}

// Ratio divides num by den elementwise.
func Ratio(num, den []float64) ([]float64, error) {
	if len(num) != len(den) {
		return nil, fmt.Errorf("%w: %d vs %d", data.ErrLengthMismatch, len(num), len(den))
	}
	out := make([]float64, len(num))
	for i := range num {
		out[i] = num[i] / den[i]
	}
	return out, nil
}

// AddRatio appends name = num / den to t.
func AddRatio(t *data.Table, name, num, den string) error {
	a, err := t.Numeric(num)
	if err != nil {
		return err
	}
	b, err := t.Numeric(den)
	if err != nil {
		return err
	}
	r, err := Ratio(a, b)
	if err != nil {
		return err
	}
	return t.AddNumeric(name, r)
}

// AddHousingRatios appends rooms_per_house, bedrooms_ratio and people_per_house.
func AddHousingRatios(t *data.Table) error {
	for _, r := range [][3]string{
		{"rooms_per_house", "total_rooms", "households"},
		{"bedrooms_ratio", "total_bedrooms", "total_rooms"},
		{"people_per_house", "population", "households"},
	} {
		if err := AddRatio(t, r[0], r[1], r[2]); err != nil {
			return err
		}
	}
	return nil
}

// RatioFeature turns two input columns into their quotient.
type RatioFeature struct{}

func (RatioFeature) Fit(X [][]float64, _ []float64) error { return checkWidth(X, 2) }

func (RatioFeature) Transform(X [][]float64) ([][]float64, error) {
	if err := checkWidth(X, 2); err != nil {
		return nil, err
	}
	out := make([][]float64, len(X))
	for i, row := range X {
		out[i] = []float64{row[0] / row[1]}
	}
	return out, nil
}

func (RatioFeature) FeatureNames([]string) []string { return []string{"ratio"} }

// LogTransformer takes the natural log of every cell.
type LogTransformer struct{}

func (LogTransformer) Fit([][]float64, []float64) error { return nil }

func (LogTransformer) Transform(X [][]float64) ([][]float64, error) {
	out := make([][]float64, len(X))
	for i, row := range X {
		r := make([]float64, len(row))
		for j, v := range row {
			r[j] = math.Log(v)
		}
		out[i] = r
	}
	return out, nil
}

func (LogTransformer) FeatureNames(in []string) []string { return in }
