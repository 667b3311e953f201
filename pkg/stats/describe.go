package stats

import (
	"math"
	"sort"

	"housingml/pkg/data"
)

// Summary is the describe() row set of one numeric column.
type Summary struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Q50    float64
	Q75    float64
	Max    float64
}

// Describe summarises every numeric column of t.
func Describe(t *data.Table) []Summary {
	names := t.NumericNames()
	out := make([]Summary, 0, len(names))
	for _, name := range names {
		x, _ := t.Numeric(name)
		lo, hi := MinMax(x)
		out = append(out, Summary{
			Column: name,
			Count:  len(Observed(x)),
			Mean:   Mean(x),
			Std:    Std(x),
			Min:    lo,
			Q25:    Percentile(x, 25),
			Q50:    Percentile(x, 50),
			Q75:    Percentile(x, 75),
			Max:    hi,
		})
	}
	return out
}

// Corr is the correlation of one column with a target column.
type Corr struct {
	Column string
	R      float64
}

// CorrelationWith returns Pearson's r of every numeric column with target,
// strongest positive first. NaN coefficients sort last.
func CorrelationWith(t *data.Table, target string) ([]Corr, error) {
	y, err := t.Numeric(target)
	if err != nil {
		return nil, err
	}
	names := t.NumericNames()
	out := make([]Corr, 0, len(names))
	for _, name := range names {
		x, _ := t.Numeric(name)
		out = append(out, Corr{Column: name, R: Correlation(x, y)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].R, out[j].R
		if math.IsNaN(a) {
			return false
		}
		if math.IsNaN(b) {
			return true
		}
		return a > b
	})
	return out, nil
}
