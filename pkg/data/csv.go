package data

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// ReadCSV parses a delimited table with a header row.
// A column is numeric when every non-empty cell parses as a float.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyTable
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	raw := make([][]string, len(header))
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		for j := range header {
			raw[j] = append(raw[j], strings.TrimSpace(rec[j]))
		}
	}

	t := NewTable()
	for j, name := range header {
		if nums, ok := parseFloats(raw[j]); ok {
			if err := t.AddNumeric(name, nums); err != nil {
				return nil, err
			}
			continue
		}
		if err := t.AddCategorical(name, raw[j]); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// LoadCSV opens path and parses it with ReadCSV.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

func parseFloats(cells []string) ([]float64, bool) {
	out := make([]float64, len(cells))
	for i, s := range cells {
		if s == "" {
			out[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}
