package dataprep

import (
	"fmt"
	"math"

	"housingml/pkg/data"
)

// DropDuplicates removes repeated rows, keeping the first occurrence.
func DropDuplicates(X [][]float64) [][]float64 {
	seen := make(map[string]struct{})
	out := [][]float64{}
	for _, row := range X {
		key := fmt.Sprint(row)
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			out = append(out, row)
		}
	}
	return out
}

// DropMissing returns the rows of t where none of the named columns is missing.
// With no names every column is checked.
func DropMissing(t *data.Table, names ...string) (*data.Table, error) {
	if len(names) == 0 {
		names = t.Names()
	}
	keep := make([]bool, t.Len())
	for i := range keep {
		keep[i] = true
	}
	for _, n := range names {
		kind, err := t.Kind(n)
		if err != nil {
			return nil, err
		}
		if kind == data.Numeric {
			col, _ := t.Numeric(n)
			for i, v := range col {
				if math.IsNaN(v) {
					keep[i] = false
				}
			}
			continue
		}
		col, _ := t.Categorical(n)
		for i, v := range col {
			if v == "" {
				keep[i] = false
			}
		}
	}
	var idx []int
	for i, k := range keep {
		if k {
			idx = append(idx, i)
		}
	}
	return t.Take(idx), nil
}

// MissingRatio returns the fraction of missing cells per column.
func MissingRatio(t *data.Table) map[string]float64 {
	out := make(map[string]float64)
	if t.Len() == 0 {
		return out
	}
	for _, ci := range t.Info() {
		out[ci.Name] = float64(t.Len()-ci.NonNull) / float64(t.Len())
	}
	return out
}
