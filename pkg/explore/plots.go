package explore

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"housingml/pkg/data"
	"housingml/pkg/stats"
)

// Bins is the histogram bin count.
const Bins = 50

// ScatterAttributes are the attributes most correlated with the house value.
var ScatterAttributes = []string{"median_house_value", "median_income", "total_rooms", "housing_median_age"}

var (
	blue  = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	faint = color.NRGBA{R: 31, G: 119, B: 180, A: 25}
)

func histogram(x []float64, title string) (*plot.Plot, error) {
	vals := stats.Observed(x)
	if len(vals) == 0 {
		return nil, nil
	}
	p := plot.New()
	p.Title.Text = title
	h, err := plotter.NewHist(plotter.Values(vals), Bins)
	if err != nil {
		return nil, err
	}
	h.FillColor = blue
	p.Add(h)
	return p, nil
}

func scatter(x, y []float64) plotter.XYs {
	pts := make(plotter.XYs, 0, len(x))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		pts = append(pts, plotter.XY{X: x[i], Y: y[i]})
	}
	return pts
}

// saveTiled draws a grid of plots onto one PNG. Nil cells stay blank.
func saveTiled(plots [][]*plot.Plot, w, h vg.Length, path string) error {
	img := vgimg.New(w, h)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: len(plots),
		Cols: len(plots[0]),
		PadX: vg.Millimeter, PadY: vg.Millimeter,
		PadTop: vg.Points(2), PadBottom: vg.Points(2),
		PadLeft: vg.Points(2), PadRight: vg.Points(2),
	}
	canvases := plot.Align(plots, tiles, dc)
	for j := range plots {
		for i := range plots[j] {
			if plots[j][i] != nil {
				plots[j][i].Draw(canvases[j][i])
			}
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Histograms draws a 50-bin histogram of every numeric column on one figure.
func Histograms(t *data.Table, path string) error {
	names := t.NumericNames()
	if len(names) == 0 {
		return data.ErrEmptyTable
	}
	const cols = 3
	rows := (len(names) + cols - 1) / cols
	plots := make([][]*plot.Plot, rows)
	for j := range plots {
		plots[j] = make([]*plot.Plot, cols)
	}
	for k, name := range names {
		x, _ := t.Numeric(name)
		p, err := histogram(x, name)
		if err != nil {
			return fmt.Errorf("histogram %s: %w", name, err)
		}
		plots[k/cols][k%cols] = p
	}
	return saveTiled(plots, 12*vg.Inch, vg.Length(rows)*3*vg.Inch, path)
}

// IncomeCategories draws a bar per category of column in label order.
func IncomeCategories(t *data.Table, column, path string) error {
	counts, err := t.ValueCounts(column)
	if err != nil {
		return err
	}
	n := make(map[string]int, len(counts))
	labels := make([]string, len(counts))
	for i, c := range counts {
		n[c.Value] = c.N
		labels[i] = c.Value
	}
	SortLabels(labels)
	vals := make(plotter.Values, len(labels))
	for i, l := range labels {
		vals[i] = float64(n[l])
	}
	p := plot.New()
	p.X.Label.Text = "Income category"
	p.Y.Label.Text = "Number of districts"
	bars, err := plotter.NewBarChart(vals, vg.Points(30))
	if err != nil {
		return err
	}
	bars.Color = blue
	p.Add(bars)
	p.NominalX(labels...)
	return p.Save(5*vg.Inch, 4*vg.Inch, path)
}

func coordinates(t *data.Table) (lon, lat []float64, err error) {
	if lon, err = t.Numeric("longitude"); err != nil {
		return nil, nil, err
	}
	if lat, err = t.Numeric("latitude"); err != nil {
		return nil, nil, err
	}
	return lon, lat, nil
}

// GeoDensity scatters districts with a low alpha so dense areas stand out.
func GeoDensity(t *data.Table, path string) error {
	lon, lat, err := coordinates(t)
	if err != nil {
		return err
	}
	p := plot.New()
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"
	s, err := plotter.NewScatter(scatter(lon, lat))
	if err != nil {
		return err
	}
	s.GlyphStyle = draw.GlyphStyle{Color: faint, Radius: vg.Points(2), Shape: draw.CircleGlyph{}}
	p.Add(s)
	return p.Save(8*vg.Inch, 6*vg.Inch, path)
}

// GeoValuePopulation scatters districts sized by population/100 and coloured
// by median house value.
func GeoValuePopulation(t *data.Table, path string) error {
	lon, lat, err := coordinates(t)
	if err != nil {
		return err
	}
	pop, err := t.Numeric("population")
	if err != nil {
		return err
	}
	val, err := t.Numeric("median_house_value")
	if err != nil {
		return err
	}

	var pts plotter.XYs
	var sizes, values []float64
	for i := range lon {
		if math.IsNaN(lon[i]) || math.IsNaN(lat[i]) || math.IsNaN(pop[i]) || math.IsNaN(val[i]) {
			continue
		}
		pts = append(pts, plotter.XY{X: lon[i], Y: lat[i]})
		sizes = append(sizes, pop[i]/100)
		values = append(values, val[i])
	}
	if len(pts) == 0 {
		return data.ErrEmptyTable
	}

	// a handful of very large districts would hide the rest
	sizes = stats.Clip(sizes, 0, 99.5)

	cmap := moreland.SmoothBlueRed()
	lo, hi := stats.MinMax(values)
	if hi == lo {
		hi = lo + 1
	}
	cmap.SetMin(lo)
	cmap.SetMax(hi)

	s, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	s.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		c, err := cmap.At(values[i])
		if err != nil {
			c = color.Black
		}
		// matplotlib sizes are areas in points^2
		r := math.Max(math.Sqrt(sizes[i])/2, 0.5)
		return draw.GlyphStyle{Color: withAlpha(c, 100), Radius: vg.Points(r), Shape: draw.CircleGlyph{}}
	}

	p := plot.New()
	p.Title.Text = "median_house_value, size = population/100"
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"
	p.Add(s)
	return p.Save(10*vg.Inch, 7*vg.Inch, path)
}

func withAlpha(c color.Color, a uint8) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: a}
}

// ScatterMatrix draws every pair of attrs, with histograms on the diagonal.
func ScatterMatrix(t *data.Table, attrs []string, path string) error {
	cols := make([][]float64, len(attrs))
	for i, a := range attrs {
		x, err := t.Numeric(a)
		if err != nil {
			return err
		}
		cols[i] = x
	}
	n := len(attrs)
	plots := make([][]*plot.Plot, n)
	for r := range plots {
		plots[r] = make([]*plot.Plot, n)
		for c := range plots[r] {
			if r == c {
				p, err := histogram(cols[r], "")
				if err != nil {
					return err
				}
				plots[r][c] = p
			} else {
				s, err := plotter.NewScatter(scatter(cols[c], cols[r]))
				if err != nil {
					return err
				}
				s.GlyphStyle = draw.GlyphStyle{Color: faint, Radius: vg.Points(1), Shape: draw.CircleGlyph{}}
				p := plot.New()
				p.Add(s)
				plots[r][c] = p
			}
			if p := plots[r][c]; p != nil {
				if r == n-1 {
					p.X.Label.Text = attrs[c]
				}
				if c == 0 {
					p.Y.Label.Text = attrs[r]
				}
			}
		}
	}
	return saveTiled(plots, vg.Length(n)*3*vg.Inch, vg.Length(n)*3*vg.Inch, path)
}

// Figure names written by RenderAll.
const (
	HistFile          = "housing_hist.png"
	IncomeCatFile     = "income_categories.png"
	GeoDensityFile    = "housing_geo_density.png"
	GeoValuePopFile   = "housing_geo_val_pop.png"
	ScatterMatrixFile = "housing_scatter_matrix.png"
)

// RenderAll writes every exploration figure into dir concurrently and returns
// the written paths in a fixed order. incomeCat names the binned income column.
func RenderAll(ctx context.Context, t *data.Table, dir, incomeCat string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	jobs := []struct {
		file string
		draw func(path string) error
	}{
		{HistFile, func(p string) error { return Histograms(t, p) }},
		{IncomeCatFile, func(p string) error { return IncomeCategories(t, incomeCat, p) }},
		{GeoDensityFile, func(p string) error { return GeoDensity(t, p) }},
		{GeoValuePopFile, func(p string) error { return GeoValuePopulation(t, p) }},
		{ScatterMatrixFile, func(p string) error { return ScatterMatrix(t, ScatterAttributes, p) }},
	}

	paths := make([]string, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	for i, job := range jobs {
		paths[i] = filepath.Join(dir, job.file)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := job.draw(paths[i]); err != nil {
				return fmt.Errorf("%s: %w", job.file, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
