package data_test

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housingml/pkg/data"
)

func tarball(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for name, body := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     name,
			Mode:     0o644,
			Size:     int64(len(body)),
			Typeflag: tar.TypeReg,
		}))
		_, err := tw.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func TestLoadHousing_FetchesOnce(t *testing.T) {
	archive := tarball(t, map[string]string{"housing/housing.csv": sampleCSV})
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write(archive)
	}))
	defer srv.Close()

	dir := t.TempDir()
	f := data.NewHousingFetcher(dir)
	f.URL = srv.URL
	csvPath := filepath.Join(dir, "housing", "housing.csv")

	first, err := data.LoadHousing(context.Background(), f, csvPath)
	require.NoError(t, err)
	second, err := data.LoadHousing(context.Background(), f, csvPath)
	require.NoError(t, err)

	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, first.Names(), second.Names())
	assert.Equal(t, first.Len(), second.Len())
	assert.True(t, f.Cached())
}

func TestLoadHousing_ReextractsMissingCSV(t *testing.T) {
	archive := tarball(t, map[string]string{"housing/housing.csv": sampleCSV})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(archive)
	}))
	defer srv.Close()

	dir := t.TempDir()
	f := data.NewHousingFetcher(dir)
	f.URL = srv.URL
	csvPath := filepath.Join(dir, "housing", "housing.csv")

	_, err := data.LoadHousing(context.Background(), f, csvPath)
	require.NoError(t, err)
	require.NoError(t, os.Remove(csvPath))

	tbl, err := data.LoadHousing(context.Background(), f, csvPath)
	require.NoError(t, err)
	assert.Equal(t, 4, tbl.Len())
}

func TestFetch_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := data.NewHousingFetcher(t.TempDir())
	f.URL = srv.URL
	_, err := f.Fetch(context.Background())
	assert.ErrorIs(t, err, data.ErrFetch)
	assert.False(t, f.Cached())
}

func TestFetch_CancelledKeepsCause(t *testing.T) {
	archive := tarball(t, map[string]string{"housing/housing.csv": "a\n1\n"})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(archive)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := data.NewHousingFetcher(t.TempDir())
	f.URL = srv.URL
	_, err := f.Fetch(ctx)
	assert.ErrorIs(t, err, data.ErrFetch)
	assert.ErrorIs(t, err, context.Canceled)
	var uerr *url.Error
	assert.ErrorAs(t, err, &uerr)
	assert.False(t, f.Cached())
}

func TestExtractTarGz_RejectsEscapingPaths(t *testing.T) {
	archive := tarball(t, map[string]string{"../evil.txt": "x"})
	err := data.ExtractTarGz(bytes.NewReader(archive), t.TempDir())
	assert.ErrorIs(t, err, data.ErrUnsafePath)
}
