package dataprep

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"housingml/pkg/data"
)

// ExprFeature is a derived numeric column computed from a CEL expression
// over the numeric columns of a row, e.g. "total_bedrooms / total_rooms".
type ExprFeature struct {
	Name string
	Expr string

	prg  cel.Program
	vars []string
}

// CompileExpr type-checks expr with every name in columns declared as a double.
func CompileExpr(name, expr string, columns []string) (*ExprFeature, error) {
	opts := make([]cel.EnvOption, 0, len(columns))
	for _, c := range columns {
		opts = append(opts, cel.Variable(c, cel.DoubleType))
	}
	env, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("expr %s: env: %w", name, err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("expr %s: compile: %w", name, issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("expr %s: program: %w", name, err)
	}
	return &ExprFeature{Name: name, Expr: expr, prg: prg, vars: columns}, nil
}

// Eval computes the feature for every row of t.
func (f *ExprFeature) Eval(t *data.Table) ([]float64, error) {
	cols := make([][]float64, len(f.vars))
	for j, v := range f.vars {
		c, err := t.Numeric(v)
		if err != nil {
			return nil, err
		}
		cols[j] = c
	}
	out := make([]float64, t.Len())
	activation := make(map[string]any, len(f.vars))
	for i := range out {
		for j, v := range f.vars {
			activation[v] = cols[j][i]
		}
		val, _, err := f.prg.Eval(activation)
		if err != nil {
			return nil, fmt.Errorf("expr %s: row %d: %w", f.Name, i, err)
		}
		switch x := val.Value().(type) {
		case float64:
			out[i] = x
		case int64:
			out[i] = float64(x)
		case uint64:
			out[i] = float64(x)
		case bool:
			if x {
				out[i] = 1
			}
		default:
			return nil, fmt.Errorf("expr %s: result %T is not numeric", f.Name, x)
		}
	}
	return out, nil
}

// Apply evaluates the feature and appends it to t.
func (f *ExprFeature) Apply(t *data.Table) error {
	vals, err := f.Eval(t)
	if err != nil {
		return err
	}
	return t.AddNumeric(f.Name, vals)
}

// ApplyExprs compiles each name -> expression against the numeric columns of t
// and appends the results in the given order.
func ApplyExprs(t *data.Table, names, exprs []string) error {
	if len(names) != len(exprs) {
		return fmt.Errorf("dataprep: %d names for %d expressions", len(names), len(exprs))
	}
	for i := range names {
		f, err := CompileExpr(names[i], exprs[i], t.NumericNames())
		if err != nil {
			return err
		}
		if err := f.Apply(t); err != nil {
			return err
		}
	}
	return nil
}
