package explore

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"housingml/pkg/data"
)

// Frame converts t into a gota DataFrame, keeping column order and kinds.
func Frame(t *data.Table) dataframe.DataFrame {
	names := t.Names()
	cols := make([]series.Series, 0, len(names))
	for _, name := range names {
		kind, _ := t.Kind(name)
		if kind == data.Numeric {
			vals, _ := t.Numeric(name)
			cols = append(cols, series.New(vals, series.Float, name))
			continue
		}
		vals, _ := t.Categorical(name)
		cols = append(cols, series.New(vals, series.String, name))
	}
	return dataframe.New(cols...)
}
