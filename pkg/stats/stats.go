package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Observed returns the non-NaN values of x.
func Observed(x []float64) []float64 {
	out := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Mean computes the average of the observed values, NaN if there are none.
func Mean(x []float64) float64 {
	obs := Observed(x)
	if len(obs) == 0 {
		return math.NaN()
	}
	return stat.Mean(obs, nil)
}

// Std computes the sample standard deviation (n-1) of the observed values.
func Std(x []float64) float64 {
	obs := Observed(x)
	if len(obs) < 2 {
		return math.NaN()
	}
	return stat.StdDev(obs, nil)
}

// PopStd computes the population standard deviation (n) of the observed values.
func PopStd(x []float64) float64 {
	obs := Observed(x)
	if len(obs) == 0 {
		return math.NaN()
	}
	_, std := stat.PopMeanStdDev(obs, nil)
	return std
}

// MinMax returns the minimum and maximum observed values.
func MinMax(x []float64) (float64, float64) {
	obs := Observed(x)
	if len(obs) == 0 {
		return math.NaN(), math.NaN()
	}
	return floats.Min(obs), floats.Max(obs)
}

// Median returns the median of the observed values.
func Median(x []float64) float64 {
	return Percentile(x, 50)
}

// Percentile returns the p-th percentile (0 <= p <= 100) of the observed values,
// interpolating linearly between closest ranks.
func Percentile(x []float64, p float64) float64 {
	cp := Observed(x)
	n := len(cp)
	if n == 0 {
		return math.NaN()
	}
	sort.Float64s(cp)
	if p <= 0 {
		return cp[0]
	}
	if p >= 100 {
		return cp[n-1]
	}
	rank := p / 100 * float64(n-1)
	lower := int(rank)
	upper := lower + 1
	weight := rank - float64(lower)
	if upper >= n {
		return cp[lower]
	}
	return cp[lower]*(1-weight) + cp[upper]*weight
}

// Mode returns the most frequent observed value, the smallest one on ties.
func Mode(x []float64) float64 {
	obs := Observed(x)
	if len(obs) == 0 {
		return math.NaN()
	}
	sort.Float64s(obs)
	mode, best := obs[0], 0
	for i := 0; i < len(obs); {
		j := i
		for j < len(obs) && obs[j] == obs[i] {
			j++
		}
		if j-i > best {
			best = j - i
			mode = obs[i]
		}
		i = j
	}
	return mode
}

// Correlation computes Pearson's r over the rows where both x and y are observed.
func Correlation(x, y []float64) float64 {
	if len(x) != len(y) {
		return math.NaN()
	}
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	return stat.Correlation(xs, ys, nil)
}
