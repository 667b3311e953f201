package dataprep

import (
	"fmt"
	"sort"
)

func categoriesOf(X [][]string) [][]string {
	c := width(X)
	cats := make([][]string, c)
	for j := 0; j < c; j++ {
		seen := map[string]bool{}
		for i := range X {
			if v := X[i][j]; v != "" && !seen[v] {
				seen[v] = true
				cats[j] = append(cats[j], v)
			}
		}
		sort.Strings(cats[j])
	}
	return cats
}

func indexOf(cats []string) map[string]int {
	idx := make(map[string]int, len(cats))
	for i, c := range cats {
		idx[c] = i
	}
	return idx
}

// OrdinalEncoder maps each category to its position among the sorted
// categories seen at Fit.
type OrdinalEncoder struct {
	Categories [][]string
	index      []map[string]int
}

func (e *OrdinalEncoder) Fit(X [][]string) error {
	if err := checkWidth(X, width(X)); err != nil {
		return err
	}
	e.Categories = categoriesOf(X)
	e.index = make([]map[string]int, len(e.Categories))
	for j, cats := range e.Categories {
		e.index[j] = indexOf(cats)
	}
	return nil
}

// Transform returns the ordinal codes; unseen categories are an error and
// empty cells become NaN.
func (e *OrdinalEncoder) Transform(X [][]string) ([][]float64, error) {
	if e.index == nil {
		return nil, ErrNotFitted
	}
	if err := checkWidth(X, len(e.index)); err != nil {
		return nil, err
	}
	out := make([][]float64, len(X))
	for i, row := range X {
		r := make([]float64, len(row))
		for j, v := range row {
			if v == "" {
				r[j] = nan
				continue
			}
			code, ok := e.index[j][v]
			if !ok {
				return nil, fmt.Errorf("%w: %q in column %d", ErrUnknownCategory, v, j)
			}
			r[j] = float64(code)
		}
		out[i] = r
	}
	return out, nil
}

func (e *OrdinalEncoder) FeatureNames(in []string) []string { return in }

// OneHotEncoder expands each column into one indicator per category seen at Fit.
// With IgnoreUnknown an unseen category encodes as all zeros instead of failing.
type OneHotEncoder struct {
	IgnoreUnknown bool
	Categories    [][]string
	index         []map[string]int
}

func (e *OneHotEncoder) Fit(X [][]string) error {
	if err := checkWidth(X, width(X)); err != nil {
		return err
	}
	e.Categories = categoriesOf(X)
	e.index = make([]map[string]int, len(e.Categories))
	for j, cats := range e.Categories {
		e.index[j] = indexOf(cats)
	}
	return nil
}

func (e *OneHotEncoder) Transform(X [][]string) ([][]float64, error) {
	if e.index == nil {
		return nil, ErrNotFitted
	}
	if err := checkWidth(X, len(e.index)); err != nil {
		return nil, err
	}
	offsets := make([]int, len(e.Categories))
	total := 0
	for j, cats := range e.Categories {
		offsets[j] = total
		total += len(cats)
	}
	out := make([][]float64, len(X))
	for i, row := range X {
		r := make([]float64, total)
		for j, v := range row {
			k, ok := e.index[j][v]
			if !ok {
				if e.IgnoreUnknown || v == "" {
					continue
				}
				return nil, fmt.Errorf("%w: %q in column %d", ErrUnknownCategory, v, j)
			}
			r[offsets[j]+k] = 1
		}
		out[i] = r
	}
	return out, nil
}

// FeatureNames returns "<column>_<category>" for every indicator.
func (e *OneHotEncoder) FeatureNames(in []string) []string {
	var out []string
	for j, cats := range e.Categories {
		name := fmt.Sprintf("x%d", j)
		if j < len(in) {
			name = in[j]
		}
		for _, c := range cats {
			out = append(out, name+"_"+c)
		}
	}
	return out
}
