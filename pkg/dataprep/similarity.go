package dataprep

import (
	"fmt"
	"math"

	"housingml/pkg/model"
)

// RBFKernel returns exp(-gamma * ||x - r||²) for every row x of X and reference r.
func RBFKernel(X, refs [][]float64, gamma float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, x := range X {
		row := make([]float64, len(refs))
		for k, r := range refs {
			d := 0.0
			for j := range x {
				diff := x[j] - r[j]
				d += diff * diff
			}
			row[k] = math.Exp(-gamma * d)
		}
		out[i] = row
	}
	return out
}

// ReferenceSimilarity measures the RBF similarity to fixed reference points,
// e.g. a housing median age of 35.
type ReferenceSimilarity struct {
	Refs  [][]float64
	Gamma float64
	Name  string
}

func (r *ReferenceSimilarity) Fit(X [][]float64, _ []float64) error {
	for _, ref := range r.Refs {
		if err := checkWidth(X, len(ref)); err != nil {
			return err
		}
	}
	return nil
}

func (r *ReferenceSimilarity) Transform(X [][]float64) ([][]float64, error) {
	for _, ref := range r.Refs {
		if err := checkWidth(X, len(ref)); err != nil {
			return nil, err
		}
	}
	return RBFKernel(X, r.Refs, r.Gamma), nil
}

func (r *ReferenceSimilarity) FeatureNames([]string) []string {
	out := make([]string, len(r.Refs))
	for i := range out {
		if len(r.Refs) == 1 && r.Name != "" {
			out[i] = r.Name
			continue
		}
		out[i] = fmt.Sprintf("%s %d", r.Name, i)
	}
	return out
}

// ClusterSimilarity learns NClusters k-means centres at Fit and, at Transform,
// returns the RBF similarity of each row to each centre.
// With WeightByTarget the targets passed to Fit weight the clustering.
type ClusterSimilarity struct {
	NClusters      int
	Gamma          float64
	Seed           int64
	WeightByTarget bool
	MaxIter        int
	Centers        [][]float64
}

// NewClusterSimilarity returns a similarity transformer with nClusters centres.
func NewClusterSimilarity(nClusters int, gamma float64, seed int64) *ClusterSimilarity {
	return &ClusterSimilarity{NClusters: nClusters, Gamma: gamma, Seed: seed, MaxIter: 300}
}

// Fit clusters X; y is used as sample weights when WeightByTarget is set.
func (c *ClusterSimilarity) Fit(X [][]float64, y []float64) error {
	var w []float64
	if c.WeightByTarget {
		w = y
	}
	return c.FitWeighted(X, w)
}

// FitWeighted clusters X with explicit sample weights (nil for uniform).
func (c *ClusterSimilarity) FitWeighted(X [][]float64, weights []float64) error {
	iters := c.MaxIter
	if iters <= 0 {
		iters = 300
	}
	km := model.NewKMeans(c.NClusters, iters, c.Seed)
	if err := km.FitWeighted(X, weights); err != nil {
		return fmt.Errorf("cluster similarity: %w", err)
	}
	c.Centers = km.Centroids
	return nil
}

func (c *ClusterSimilarity) Transform(X [][]float64) ([][]float64, error) {
	if c.Centers == nil {
		return nil, ErrNotFitted
	}
	if err := checkWidth(X, len(c.Centers[0])); err != nil {
		return nil, err
	}
	return RBFKernel(X, c.Centers, c.Gamma), nil
}

// FeatureNames returns "Cluster i similarity" for each centre.
func (c *ClusterSimilarity) FeatureNames([]string) []string {
	out := make([]string, c.NClusters)
	for i := range out {
		out[i] = fmt.Sprintf("Cluster %d similarity", i)
	}
	return out
}
