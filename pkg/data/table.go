package data

import (
	"fmt"
	"math"
	"sort"
)

// Kind is the storage type of a column.
type Kind int

const (
	Numeric Kind = iota
	Categorical
)

func (k Kind) String() string {
	if k == Numeric {
		return "float64"
	}
	return "object"
}

type column struct {
	name string
	kind Kind
	num  []float64
	str  []string
}

func (c *column) missing(i int) bool {
	if c.kind == Numeric {
		return math.IsNaN(c.num[i])
	}
	return c.str[i] == ""
}

// Table is an ordered set of equally long columns.
// Numeric cells use NaN for missing values, categorical cells use "".
// Source values are never edited; new columns are appended.
type Table struct {
	cols  []*column
	index map[string]int
	rows  int
}

// NewTable returns an empty table with no columns.
func NewTable() *Table {
	return &Table{index: make(map[string]int)}
}

// Len returns the number of rows.
func (t *Table) Len() int { return t.rows }

// Names returns the column names in order.
func (t *Table) Names() []string {
	out := make([]string, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.name
	}
	return out
}

// Has reports whether the table has a column called name.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Kind returns the kind of the named column.
func (t *Table) Kind(name string) (Kind, error) {
	c, err := t.col(name)
	if err != nil {
		return 0, err
	}
	return c.kind, nil
}

func (t *Table) col(name string) (*column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	return t.cols[i], nil
}

func (t *Table) add(c *column, n int) error {
	if _, ok := t.index[c.name]; ok {
		return fmt.Errorf("%w: %q", ErrColumnExists, c.name)
	}
	if len(t.cols) > 0 && n != t.rows {
		return fmt.Errorf("%w: %q has %d rows, table has %d", ErrLengthMismatch, c.name, n, t.rows)
	}
	t.rows = n
	t.index[c.name] = len(t.cols)
	t.cols = append(t.cols, c)
	return nil
}

// AddNumeric appends a numeric column. The values are copied.
func (t *Table) AddNumeric(name string, values []float64) error {
	v := make([]float64, len(values))
	copy(v, values)
	return t.add(&column{name: name, kind: Numeric, num: v}, len(v))
}

// AddCategorical appends a categorical column. The values are copied.
func (t *Table) AddCategorical(name string, values []string) error {
	v := make([]string, len(values))
	copy(v, values)
	return t.add(&column{name: name, kind: Categorical, str: v}, len(v))
}

// Numeric returns a copy of a numeric column.
func (t *Table) Numeric(name string) ([]float64, error) {
	c, err := t.col(name)
	if err != nil {
		return nil, err
	}
	if c.kind != Numeric {
		return nil, fmt.Errorf("%w: %q is %s", ErrWrongKind, name, c.kind)
	}
	out := make([]float64, len(c.num))
	copy(out, c.num)
	return out, nil
}

// Categorical returns a copy of a categorical column.
func (t *Table) Categorical(name string) ([]string, error) {
	c, err := t.col(name)
	if err != nil {
		return nil, err
	}
	if c.kind != Categorical {
		return nil, fmt.Errorf("%w: %q is %s", ErrWrongKind, name, c.kind)
	}
	out := make([]string, len(c.str))
	copy(out, c.str)
	return out, nil
}

// NumericNames returns the names of all numeric columns in order.
func (t *Table) NumericNames() []string { return t.namesOf(Numeric) }

// CategoricalNames returns the names of all categorical columns in order.
func (t *Table) CategoricalNames() []string { return t.namesOf(Categorical) }

func (t *Table) namesOf(k Kind) []string {
	var out []string
	for _, c := range t.cols {
		if c.kind == k {
			out = append(out, c.name)
		}
	}
	return out
}

// Take returns a new table holding the given rows in the given order.
func (t *Table) Take(indices []int) *Table {
	out := NewTable()
	for _, c := range t.cols {
		nc := &column{name: c.name, kind: c.kind}
		if c.kind == Numeric {
			nc.num = make([]float64, len(indices))
			for i, idx := range indices {
				nc.num[i] = c.num[idx]
			}
		} else {
			nc.str = make([]string, len(indices))
			for i, idx := range indices {
				nc.str[i] = c.str[idx]
			}
		}
		out.index[nc.name] = len(out.cols)
		out.cols = append(out.cols, nc)
	}
	out.rows = len(indices)
	return out
}

// Head returns the first n rows. A negative n gives an empty table.
func (t *Table) Head(n int) *Table {
	n = max(0, min(n, t.rows))
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return t.Take(idx)
}

// Drop returns a copy of the table without the named columns. Unknown names are ignored.
func (t *Table) Drop(names ...string) *Table {
	skip := make(map[string]bool, len(names))
	for _, n := range names {
		skip[n] = true
	}
	out := NewTable()
	out.rows = t.rows
	for _, c := range t.cols {
		if skip[c.name] {
			continue
		}
		out.index[c.name] = len(out.cols)
		out.cols = append(out.cols, c)
	}
	return out
}

// ColumnInfo summarises one column.
type ColumnInfo struct {
	Name    string
	Kind    Kind
	NonNull int
}

// Info returns name, kind and non-null count per column.
func (t *Table) Info() []ColumnInfo {
	out := make([]ColumnInfo, len(t.cols))
	for i, c := range t.cols {
		nn := 0
		for r := 0; r < t.rows; r++ {
			if !c.missing(r) {
				nn++
			}
		}
		out[i] = ColumnInfo{Name: c.name, Kind: c.kind, NonNull: nn}
	}
	return out
}

// Count is a value with its number of occurrences.
type Count struct {
	Value string
	N     int
}

// ValueCounts counts the non-missing values of a categorical column,
// most frequent first and ties broken by value.
func (t *Table) ValueCounts(name string) ([]Count, error) {
	vals, err := t.Categorical(name)
	if err != nil {
		return nil, err
	}
	counts := map[string]int{}
	for _, v := range vals {
		if v != "" {
			counts[v]++
		}
	}
	out := make([]Count, 0, len(counts))
	for v, n := range counts {
		out = append(out, Count{Value: v, N: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].N != out[j].N {
			return out[i].N > out[j].N
		}
		return out[i].Value < out[j].Value
	})
	return out, nil
}

// NumericMatrix returns the named numeric columns as rows x columns.
func (t *Table) NumericMatrix(names ...string) ([][]float64, error) {
	cols := make([][]float64, len(names))
	for j, n := range names {
		c, err := t.col(n)
		if err != nil {
			return nil, err
		}
		if c.kind != Numeric {
			return nil, fmt.Errorf("%w: %q is %s", ErrWrongKind, n, c.kind)
		}
		cols[j] = c.num
	}
	out := make([][]float64, t.rows)
	for i := range out {
		row := make([]float64, len(names))
		for j := range cols {
			row[j] = cols[j][i]
		}
		out[i] = row
	}
	return out, nil
}

// StringMatrix returns the named categorical columns as rows x columns.
func (t *Table) StringMatrix(names ...string) ([][]string, error) {
	cols := make([][]string, len(names))
	for j, n := range names {
		c, err := t.col(n)
		if err != nil {
			return nil, err
		}
		if c.kind != Categorical {
			return nil, fmt.Errorf("%w: %q is %s", ErrWrongKind, n, c.kind)
		}
		cols[j] = c.str
	}
	out := make([][]string, t.rows)
	for i := range out {
		row := make([]string, len(names))
		for j := range cols {
			row[j] = cols[j][i]
		}
		out[i] = row
	}
	return out, nil
}
