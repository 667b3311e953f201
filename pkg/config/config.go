package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"housingml/pkg/data"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid")

// Config drives cmd/housing. Zero fields in a YAML file keep the defaults.
type Config struct {
	Data struct {
		URL string `yaml:"url"`
		Dir string `yaml:"dir"`
		CSV string `yaml:"csv"` // path of the CSV inside Dir after extraction
	} `yaml:"data"`

	Figures string `yaml:"figures"`

	Split struct {
		TestRatio float64 `yaml:"test_ratio"`
		Seed      int64   `yaml:"seed"`
		NSplits   int     `yaml:"n_splits"`
		Stratify  string  `yaml:"stratify"`
		IDColumn  string  `yaml:"id_column"`
	} `yaml:"split"`

	Income struct {
		Edges []float64 `yaml:"edges"` // YAML accepts .inf for the open last bin
	} `yaml:"income"`

	Similarity struct {
		Clusters       int     `yaml:"clusters"`
		Gamma          float64 `yaml:"gamma"`
		WeightByTarget bool    `yaml:"weight_by_target"`
	} `yaml:"similarity"`

	Target string `yaml:"target"`

	// Features are derived columns given as expressions over numeric columns.
	Features []Feature `yaml:"features"`
}

// Feature is one expression-defined column.
type Feature struct {
	Name string `yaml:"name"`
	Expr string `yaml:"expr"`
}

// Default returns the tutorial settings.
func Default() *Config {
	c := &Config{Figures: "images"}
	c.Data.URL = data.HousingURL
	c.Data.Dir = "datasets"
	c.Data.CSV = filepath.Join("housing", "housing.csv")
	c.Split.TestRatio = 0.2
	c.Split.Seed = 42
	c.Split.NSplits = 10
	c.Split.Stratify = "income_cat"
	c.Split.IDColumn = "id"
	c.Income.Edges = []float64{0, 1.5, 3.0, 4.5, 6.0, math.Inf(1)}
	c.Similarity.Clusters = 10
	c.Similarity.Gamma = 1
	c.Target = "median_house_value"
	c.Features = []Feature{
		{Name: "rooms_per_house", Expr: "total_rooms / households"},
		{Name: "bedrooms_ratio", Expr: "total_bedrooms / total_rooms"},
		{Name: "people_per_house", Expr: "population / households"},
	}
	return c
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return Parse(raw)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(raw []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks ratios, bins and feature names.
func (c *Config) Validate() error {
	if c.Data.Dir == "" || c.Data.CSV == "" {
		return fmt.Errorf("%w: data.dir and data.csv are required", ErrInvalid)
	}
	if r := c.Split.TestRatio; !(r > 0 && r < 1) {
		return fmt.Errorf("%w: split.test_ratio %v not in (0,1)", ErrInvalid, r)
	}
	if c.Split.NSplits < 1 {
		return fmt.Errorf("%w: split.n_splits must be positive", ErrInvalid)
	}
	if len(c.Income.Edges) < 2 {
		return fmt.Errorf("%w: income.edges needs at least two edges", ErrInvalid)
	}
	if !sort.Float64sAreSorted(c.Income.Edges) {
		return fmt.Errorf("%w: income.edges must be increasing", ErrInvalid)
	}
	for i := 1; i < len(c.Income.Edges); i++ {
		if c.Income.Edges[i] == c.Income.Edges[i-1] {
			return fmt.Errorf("%w: income.edges repeats %v", ErrInvalid, c.Income.Edges[i])
		}
	}
	if c.Similarity.Clusters < 1 || c.Similarity.Gamma <= 0 {
		return fmt.Errorf("%w: similarity needs clusters >= 1 and gamma > 0", ErrInvalid)
	}
	seen := map[string]bool{}
	for _, f := range c.Features {
		if f.Name == "" || f.Expr == "" {
			return fmt.Errorf("%w: feature needs name and expr", ErrInvalid)
		}
		if seen[f.Name] {
			return fmt.Errorf("%w: duplicate feature %q", ErrInvalid, f.Name)
		}
		seen[f.Name] = true
	}
	return nil
}

// CSVPath is the extracted CSV location.
func (c *Config) CSVPath() string { return filepath.Join(c.Data.Dir, c.Data.CSV) }

// Fetcher returns the archive fetcher for Data.
func (c *Config) Fetcher() *data.Fetcher {
	f := data.NewHousingFetcher(c.Data.Dir)
	f.URL = c.Data.URL
	return f
}

// FeatureExprs splits Features into parallel name and expression lists.
func (c *Config) FeatureExprs() (names, exprs []string) {
	for _, f := range c.Features {
		names = append(names, f.Name)
		exprs = append(exprs, f.Expr)
	}
	return names, exprs
}
