package data

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// HousingURL is where the tutorial's housing archive lives.
const HousingURL = "https://github.com/ageron/data/raw/main/housing.tgz"

// Fetcher downloads a tar.gz archive once and extracts it next to itself.
type Fetcher struct {
	URL         string
	ArchivePath string
	ExtractDir  string
	Client      *http.Client
}

// NewHousingFetcher returns a Fetcher for the housing archive under dir.
func NewHousingFetcher(dir string) *Fetcher {
	return &Fetcher{
		URL:         HousingURL,
		ArchivePath: filepath.Join(dir, "housing.tgz"),
		ExtractDir:  dir,
	}
}

// Cached reports whether the archive is already on disk.
func (f *Fetcher) Cached() bool {
	st, err := os.Stat(f.ArchivePath)
	return err == nil && st.Mode().IsRegular()
}

// Fetch downloads and extracts the archive if it is not cached yet.
// It reports whether a download happened.
func (f *Fetcher) Fetch(ctx context.Context) (bool, error) {
	if f.Cached() {
		return false, nil
	}
	if err := f.download(ctx); err != nil {
		return false, err
	}
	return true, f.Extract()
}

func (f *Fetcher) download(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(f.ArchivePath), 0o755); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return err
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s: %s", ErrFetch, f.URL, resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.ArchivePath), ".download-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %w", ErrFetch, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.ArchivePath)
}

// Extract unpacks the cached archive into ExtractDir.
func (f *Fetcher) Extract() error {
	file, err := os.Open(f.ArchivePath)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExtractTarGz(file, f.ExtractDir)
}

// ExtractTarGz writes the directories and regular files of a gzipped tar stream under dir.
func ExtractTarGz(r io.Reader, dir string) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("open gzip: %w", err)
	}
	defer gz.Close()

	root := filepath.Clean(dir)
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read tar: %w", err)
		}
		target := filepath.Join(root, hdr.Name)
		if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
			return fmt.Errorf("%w: %s", ErrUnsafePath, hdr.Name)
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeFile(target, tr); err != nil {
				return err
			}
		}
	}
}

func writeFile(path string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// LoadHousing fetches the archive if needed and parses csvPath.
// When the archive is cached but csvPath is gone the archive is extracted again.
func LoadHousing(ctx context.Context, f *Fetcher, csvPath string) (*Table, error) {
	fetched, err := f.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if !fetched {
		if _, err := os.Stat(csvPath); os.IsNotExist(err) {
			if err := f.Extract(); err != nil {
				return nil, err
			}
		}
	}
	return LoadCSV(csvPath)
}
