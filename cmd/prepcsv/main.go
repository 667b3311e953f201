package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pierrec/lz4/v4"

	"housingml/pkg/data"
	"housingml/pkg/dataprep"
	"housingml/pkg/pipeline"
	"housingml/pkg/stats"
)

//
// ---------------------- CLI FLAGS DOCUMENTATION ----------------------
//
// --input         : Path to input CSV file. Default = housing.csv
// --mode          : Output mode: "cli" (preview in console) or "csv" (save processed file)
// --output        : Path to save processed CSV (if mode=csv). Default = ./processed_<input>
//                   A path ending in .lz4 is written as an lz4 frame
// --preview       : Number of rows to preview in console
// --label         : Name of the label column. Empty if no labels
// --missing-thresh: Drop columns with > threshold fraction missing values. Default=0.2
// --encode        : Encoding for categorical columns: "none", "ordinal", "onehot"
// --scale         : Scaling for numeric columns: "standard", "minmax"
//
// Example:
//   go run ./cmd/prepcsv --input housing.csv --mode csv --label median_house_value --encode onehot
//
// ---------------------------------------------------------------------
//

type options struct {
	label         string
	missingThresh float64
	encode        string
	scale         string
}

// prepared is the numeric output of prepare, label last when present.
type prepared struct {
	headers []string
	rows    [][]float64
	dropped []string
}

// prepare drops sparse columns and rows without a label, imputes, encodes and
// scales the rest, then removes duplicate rows.
func prepare(t *data.Table, opts options) (*prepared, error) {
	var dropped []string
	for name, ratio := range dataprep.MissingRatio(t) {
		if name != opts.label && ratio > opts.missingThresh {
			dropped = append(dropped, name)
		}
	}
	sort.Strings(dropped)
	t = t.Drop(dropped...)

	var y []float64
	if opts.label != "" {
		var err error
		if t, err = dataprep.DropMissing(t, opts.label); err != nil {
			return nil, err
		}
		if y, err = t.Numeric(opts.label); err != nil {
			return nil, err
		}
		t = t.Drop(opts.label)
	}

	var scaler pipeline.Transformer
	switch opts.scale {
	case "standard":
		scaler = stats.NewStandardScaler()
	case "minmax":
		scaler = stats.NewMinMaxScaler(0, 1)
	default:
		return nil, fmt.Errorf("unknown scaling %q", opts.scale)
	}
	ct := &pipeline.ColumnTransformer{}
	if cols := t.NumericNames(); len(cols) > 0 {
		ct.Branches = append(ct.Branches, pipeline.Branch{
			Name:    "num",
			Columns: cols,
			Numeric: pipeline.NewPipeline(dataprep.NewSimpleImputer(dataprep.Median), scaler),
		})
	}
	if cols := t.CategoricalNames(); len(cols) > 0 && opts.encode != "none" {
		var enc pipeline.Encoder
		switch opts.encode {
		case "ordinal":
			enc = &dataprep.OrdinalEncoder{}
		case "onehot":
			enc = &dataprep.OneHotEncoder{IgnoreUnknown: true}
		default:
			return nil, fmt.Errorf("unknown encoding %q", opts.encode)
		}
		ct.Branches = append(ct.Branches, pipeline.Branch{
			Name:    "cat",
			Columns: cols,
			Categorical: &pipeline.CategoricalPipeline{
				Steps:   []pipeline.StringTransformer{dataprep.NewCategoricalImputer(dataprep.MostFrequent)},
				Encoder: enc,
			},
		})
	}
	if len(ct.Branches) == 0 {
		return nil, errors.New("no feature columns left")
	}

	X, err := ct.FitTransform(t, y)
	if err != nil {
		return nil, err
	}
	headers := ct.Schema().FeatureNames
	if y != nil {
		for i := range X {
			X[i] = append(X[i], y[i])
		}
		headers = append(headers, opts.label)
	}
	return &prepared{headers: headers, rows: dataprep.DropDuplicates(X), dropped: dropped}, nil
}

// previewData prints the first n rows with headers.
func previewData(w io.Writer, headers []string, X [][]float64, n int) {
	if n > len(X) {
		n = len(X)
	}
	for _, h := range headers {
		fmt.Fprintf(w, "%-15s", h)
	}
	fmt.Fprintln(w)
	for i := 0; i < n; i++ {
		for _, val := range X[i] {
			fmt.Fprintf(w, "%-15.6f", val)
		}
		fmt.Fprintln(w)
	}
}

func writeCSV(w io.Writer, headers []string, X [][]float64) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(headers); err != nil {
		return err
	}
	for _, row := range X {
		rec := make([]string, len(row))
		for j, val := range row {
			rec[j] = strconv.FormatFloat(val, 'f', 6, 64)
		}
		if err := writer.Write(rec); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

type lz4File struct {
	*lz4.Writer
	f *os.File
}

func (l lz4File) Close() error {
	if err := l.Writer.Close(); err != nil {
		l.f.Close()
		return err
	}
	return l.f.Close()
}

// createOutput opens path for writing, lz4-compressed when it ends in .lz4.
func createOutput(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".lz4") {
		return f, nil
	}
	return lz4File{Writer: lz4.NewWriter(f), f: f}, nil
}

func main() {
	inputPath := flag.String("input", "housing.csv", "Path to input CSV file")
	mode := flag.String("mode", "cli", "Output mode: cli or csv")
	outputPath := flag.String("output", "", "Path to save processed CSV (if mode=csv)")
	previewRows := flag.Int("preview", 5, "Number of rows to preview in console")
	label := flag.String("label", "", "Label column name (empty if no labels)")
	missingThresh := flag.Float64("missing-thresh", 0.2, "Threshold for dropping columns with too many missing values")
	encode := flag.String("encode", "onehot", "Encoding: none, ordinal, onehot")
	scale := flag.String("scale", "standard", "Scaling: standard, minmax")
	flag.Parse()

	t, err := data.LoadCSV(*inputPath)
	if err != nil {
		slog.Error("load csv", "path", *inputPath, "error", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded raw data: %d rows, %d columns\n", t.Len(), len(t.Names()))

	p, err := prepare(t, options{label: *label, missingThresh: *missingThresh, encode: *encode, scale: *scale})
	if err != nil {
		slog.Error("prepare", "error", err)
		os.Exit(1)
	}
	if len(p.dropped) > 0 {
		slog.Warn("dropped sparse columns", "columns", p.dropped)
	}
	fmt.Printf("After preprocessing: %d samples, %d columns\n", len(p.rows), len(p.headers))

	if *mode != "csv" {
		fmt.Println("\nPreview of processed data:")
		previewData(os.Stdout, p.headers, p.rows, *previewRows)
		return
	}
	if *outputPath == "" {
		*outputPath = filepath.Join(".", "processed_"+filepath.Base(*inputPath))
	}
	file, err := createOutput(*outputPath)
	if err != nil {
		slog.Error("create output", "error", err)
		os.Exit(1)
	}
	if err := writeCSV(file, p.headers, p.rows); err != nil {
		file.Close()
		slog.Error("write output", "error", err)
		os.Exit(1)
	}
	if err := file.Close(); err != nil {
		slog.Error("write output", "error", err)
		os.Exit(1)
	}
	fmt.Println("Processed data saved to:", *outputPath)
}
