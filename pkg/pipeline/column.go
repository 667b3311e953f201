package pipeline

import (
	"errors"
	"fmt"

	"housingml/pkg/data"
)

// ErrNotFitted is returned by Transform before Fit.
var ErrNotFitted = errors.New("pipeline: not fitted")

// Branch applies one pipeline to a group of columns.
// Exactly one of Numeric and Categorical is set.
type Branch struct {
	Name        string
	Columns     []string
	Numeric     *Pipeline
	Categorical *CategoricalPipeline
}

// ColumnTransformer applies branches to column groups of a table and
// concatenates their outputs. Numeric columns claimed by no branch go through
// Remainder when it is set and are dropped otherwise.
type ColumnTransformer struct {
	Branches  []Branch
	Remainder *Pipeline

	remainder []string
	schema    Schema
	fitted    bool
}

func (c *ColumnTransformer) unclaimed(t *data.Table) []string {
	claimed := map[string]bool{}
	for _, b := range c.Branches {
		for _, col := range b.Columns {
			claimed[col] = true
		}
	}
	var out []string
	for _, n := range t.NumericNames() {
		if !claimed[n] {
			out = append(out, n)
		}
	}
	return out
}

// Fit learns every branch from t and the target y (may be nil).
func (c *ColumnTransformer) Fit(t *data.Table, y []float64) error {
	_, err := c.FitTransform(t, y)
	return err
}

// FitTransform fits on t and returns the transformed rows.
func (c *ColumnTransformer) FitTransform(t *data.Table, y []float64) ([][]float64, error) {
	if y != nil && len(y) != t.Len() {
		return nil, fmt.Errorf("%w: %d targets for %d rows", data.ErrLengthMismatch, len(y), t.Len())
	}
	c.fitted = false
	c.schema = Schema{}
	c.remainder = nil
	if c.Remainder != nil {
		c.remainder = c.unclaimed(t)
	}

	out := make([][]float64, t.Len())
	for _, b := range c.Branches {
		part, err := c.fitBranch(b, t, y)
		if err != nil {
			return nil, fmt.Errorf("branch %s: %w", b.Name, err)
		}
		appendColumns(out, part)
	}
	if len(c.remainder) > 0 {
		X, err := t.NumericMatrix(c.remainder...)
		if err != nil {
			return nil, err
		}
		part, err := c.Remainder.FitTransform(X, y)
		if err != nil {
			return nil, fmt.Errorf("remainder: %w", err)
		}
		c.addNames("remainder", c.Remainder.FeatureNames(c.remainder))
		appendColumns(out, part)
	}
	c.fitted = true
	return out, nil
}

func (c *ColumnTransformer) fitBranch(b Branch, t *data.Table, y []float64) ([][]float64, error) {
	switch {
	case b.Numeric != nil:
		X, err := t.NumericMatrix(b.Columns...)
		if err != nil {
			return nil, err
		}
		part, err := b.Numeric.FitTransform(X, y)
		if err != nil {
			return nil, err
		}
		c.addNames(b.Name, b.Numeric.FeatureNames(b.Columns))
		return part, nil
	case b.Categorical != nil:
		X, err := t.StringMatrix(b.Columns...)
		if err != nil {
			return nil, err
		}
		part, err := b.Categorical.FitTransform(X)
		if err != nil {
			return nil, err
		}
		c.addNames(b.Name, b.Categorical.FeatureNames(b.Columns))
		return part, nil
	}
	return nil, errors.New("branch has no pipeline")
}

func (c *ColumnTransformer) addNames(branch string, names []string) {
	for _, n := range names {
		c.schema.FeatureNames = append(c.schema.FeatureNames, branch+"__"+n)
		c.schema.Sources = append(c.schema.Sources, branch)
	}
}

// Transform applies the fitted branches to t without refitting.
func (c *ColumnTransformer) Transform(t *data.Table) ([][]float64, error) {
	if !c.fitted {
		return nil, ErrNotFitted
	}
	out := make([][]float64, t.Len())
	for _, b := range c.Branches {
		var part [][]float64
		var err error
		if b.Numeric != nil {
			var X [][]float64
			if X, err = t.NumericMatrix(b.Columns...); err == nil {
				part, err = b.Numeric.Transform(X)
			}
		} else {
			var X [][]string
			if X, err = t.StringMatrix(b.Columns...); err == nil {
				part, err = b.Categorical.Transform(X)
			}
		}
		if err != nil {
			return nil, fmt.Errorf("branch %s: %w", b.Name, err)
		}
		appendColumns(out, part)
	}
	if len(c.remainder) > 0 {
		X, err := t.NumericMatrix(c.remainder...)
		if err != nil {
			return nil, err
		}
		part, err := c.Remainder.Transform(X)
		if err != nil {
			return nil, fmt.Errorf("remainder: %w", err)
		}
		appendColumns(out, part)
	}
	return out, nil
}

// Schema returns the output feature names learned at Fit.
func (c *ColumnTransformer) Schema() Schema { return c.schema }

func appendColumns(dst, part [][]float64) {
	for i := range dst {
		dst[i] = append(dst[i], part[i]...)
	}
}
