package explore

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/fatih/color"

	"housingml/pkg/data"
	"housingml/pkg/stats"
)

var banner = color.New(color.FgGreen, color.Bold)

// Section prints a highlighted heading.
func Section(w io.Writer, title string) {
	banner.Fprintf(w, "\n== %s ==\n", title)
}

// Report prints the first rows, the column info, the value counts of every
// categorical column and the numeric summary of t.
func Report(w io.Writer, t *data.Table, head int) error {
	if t.Len() == 0 {
		return data.ErrEmptyTable
	}
	Section(w, "head")
	fmt.Fprintln(w, Frame(t.Head(head)).String())

	Section(w, "info")
	PrintInfo(w, t)

	for _, name := range t.CategoricalNames() {
		Section(w, "value counts: "+name)
		if err := PrintValueCounts(w, t, name); err != nil {
			return err
		}
	}

	Section(w, "describe")
	PrintDescribe(w, stats.Describe(t))
	return nil
}

// PrintInfo writes one line per column: name, non-null count, dtype.
func PrintInfo(w io.Writer, t *data.Table) {
	fmt.Fprintf(w, "%d entries, %d columns\n", t.Len(), len(t.Names()))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tColumn\tNon-Null Count\tDtype")
	for i, c := range t.Info() {
		fmt.Fprintf(tw, "%d\t%s\t%d non-null\t%s\n", i, c.Name, c.NonNull, c.Kind)
	}
	tw.Flush()
}

func PrintValueCounts(w io.Writer, t *data.Table, name string) error {
	counts, err := t.ValueCounts(name)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, c := range counts {
		fmt.Fprintf(tw, "%s\t%d\n", c.Value, c.N)
	}
	return tw.Flush()
}

// PrintDescribe writes the summaries with one column per attribute.
func PrintDescribe(w io.Writer, sums []stats.Summary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(tw, "\t")
	for _, s := range sums {
		fmt.Fprintf(tw, "%s\t", s.Column)
	}
	fmt.Fprintln(tw)
	rows := []struct {
		name string
		get  func(stats.Summary) float64
	}{
		{"count", func(s stats.Summary) float64 { return float64(s.Count) }},
		{"mean", func(s stats.Summary) float64 { return s.Mean }},
		{"std", func(s stats.Summary) float64 { return s.Std }},
		{"min", func(s stats.Summary) float64 { return s.Min }},
		{"25%", func(s stats.Summary) float64 { return s.Q25 }},
		{"50%", func(s stats.Summary) float64 { return s.Q50 }},
		{"75%", func(s stats.Summary) float64 { return s.Q75 }},
		{"max", func(s stats.Summary) float64 { return s.Max }},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t", r.name)
		for _, s := range sums {
			fmt.Fprintf(tw, "%.2f\t", r.get(s))
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()
}

// PrintCorrelations writes r per column, strongest first.
func PrintCorrelations(w io.Writer, corrs []stats.Corr) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, c := range corrs {
		fmt.Fprintf(tw, "%s\t%+.6f\n", c.Column, c.R)
	}
	tw.Flush()
}

// PrintProportions writes category shares in key order.
func PrintProportions(w io.Writer, keys []string, props map[string]float64) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, k := range keys {
		fmt.Fprintf(tw, "%s\t%.6f\n", k, props[k])
	}
	tw.Flush()
}

// SortLabels orders category labels numerically when every label parses as
// a number, so "10" follows "9", and lexically otherwise.
func SortLabels(labels []string) {
	nums := make(map[string]float64, len(labels))
	for _, l := range labels {
		v, err := strconv.ParseFloat(l, 64)
		if err != nil {
			sort.Strings(labels)
			return
		}
		nums[l] = v
	}
	sort.SliceStable(labels, func(i, j int) bool { return nums[labels[i]] < nums[labels[j]] })
}

// PrintSplitComparison writes the share of every category in the full set,
// a stratified test set and a random test set, in percent, with the relative
// error of each test set.
func PrintSplitComparison(w io.Writer, column string, overall, stratified, random map[string]float64) error {
	keys := slices.Collect(maps.Keys(overall))
	SortLabels(keys)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, column+"\tOverall %\tStratified %\tRandom %\tStrat. Error %\tRand. Error %\t")
	for _, k := range keys {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t\n", k,
			100*overall[k], 100*stratified[k], 100*random[k],
			100*(stratified[k]/overall[k]-1), 100*(random[k]/overall[k]-1))
	}
	return tw.Flush()
}
