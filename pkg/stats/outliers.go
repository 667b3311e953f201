package stats

import "math"

// Clip limits x to its lower and upper percentiles. NaN stays NaN.
func Clip(x []float64, lower, upper float64) []float64 {
	lo, hi := Percentile(x, lower), Percentile(x, upper)
	out := make([]float64, len(x))
	for i, v := range x {
		switch {
		case math.IsNaN(v):
			out[i] = v
		case v < lo:
			out[i] = lo
		case v > hi:
			out[i] = hi
		default:
			out[i] = v
		}
	}
	return out
}
