package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housingml/pkg/data"
)

const raw = `age,rooms,notes,city,price
10,3,,A,100
20,,,B,200
30,5,x,A,
10,3,,A,100
40,4,,,300
`

func load(t *testing.T) *data.Table {
	t.Helper()
	tbl, err := data.ReadCSV(strings.NewReader(raw))
	require.NoError(t, err)
	return tbl
}

func TestPrepare(t *testing.T) {
	p, err := prepare(load(t), options{label: "price", missingThresh: 0.5, encode: "onehot", scale: "minmax"})
	require.NoError(t, err)

	assert.Equal(t, []string{"notes"}, p.dropped)
	assert.Equal(t, []string{"num__age", "num__rooms", "cat__city_A", "cat__city_B", "price"}, p.headers)
	// the unlabelled row is gone and the repeated first row collapses
	require.Len(t, p.rows, 3)
	assert.InDeltaSlice(t, []float64{0, 0, 1, 0, 100}, p.rows[0], 1e-12)
	// rooms is imputed with the median of 3, 3, 4
	assert.InDeltaSlice(t, []float64{1.0 / 3, 0, 0, 1, 200}, p.rows[1], 1e-12)
	// the missing city becomes the most frequent one
	assert.InDeltaSlice(t, []float64{1, 1, 1, 0, 300}, p.rows[2], 1e-12)
}

func TestPrepare_Errors(t *testing.T) {
	_, err := prepare(load(t), options{label: "price", missingThresh: 1, encode: "onehot", scale: "robust"})
	assert.Error(t, err)
	_, err = prepare(load(t), options{label: "price", missingThresh: 1, encode: "hash", scale: "standard"})
	assert.Error(t, err)
	_, err = prepare(load(t), options{label: "city", missingThresh: 1, encode: "none", scale: "standard"})
	assert.ErrorIs(t, err, data.ErrWrongKind)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeCSV(&buf, []string{"a", "b"}, [][]float64{{1, 0.5}}))
	assert.Equal(t, "a,b\n1.000000,0.500000\n", buf.String())

	buf.Reset()
	previewData(&buf, []string{"a"}, [][]float64{{1}, {2}}, 1)
	assert.Equal(t, "a"+strings.Repeat(" ", 14)+"\n1.000000"+strings.Repeat(" ", 7)+"\n", buf.String())
}

func TestCreateOutput_LZ4(t *testing.T) {
	dir := t.TempDir()
	rows := [][]float64{{1, 2}, {3, 4}}

	plain := filepath.Join(dir, "out.csv")
	w, err := createOutput(plain)
	require.NoError(t, err)
	require.NoError(t, writeCSV(w, []string{"a", "b"}, rows))
	require.NoError(t, w.Close())
	want, err := os.ReadFile(plain)
	require.NoError(t, err)

	packed := filepath.Join(dir, "out.csv.lz4")
	w, err = createOutput(packed)
	require.NoError(t, err)
	require.NoError(t, writeCSV(w, []string{"a", "b"}, rows))
	require.NoError(t, w.Close())

	f, err := os.Open(packed)
	require.NoError(t, err)
	defer f.Close()
	got, err := io.ReadAll(lz4.NewReader(f))
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))
}
