package model

import (
	"errors"
	"math"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
)

// KMeans is an unsupervised learning model that partitions data points into K clusters.
// Points may carry weights, which pull centroids towards heavier points.
type KMeans struct {
	K         int
	MaxIter   int
	Seed      int64
	Centroids [][]float64
	Inertia   float64 // Weighted sum of squared distances to nearest centroid
}

// NewKMeans creates and returns a new KMeans model with specified K and max iterations.
func NewKMeans(k int, maxIter int, seed int64) *KMeans {
	return &KMeans{
		K:       k,
		MaxIter: maxIter,
		Seed:    seed,
	}
}

// FitWeighted trains the model; weights may be nil for unit weights.
func (m *KMeans) FitWeighted(X [][]float64, weights []float64) error {
	if len(X) == 0 {
		return errors.New("input data cannot be empty")
	}
	n, p := len(X), len(X[0])
	if n < m.K {
		return errors.New("number of data points is less than K")
	}
	if m.K < 1 {
		return errors.New("K must be positive")
	}
	if weights == nil {
		weights = make([]float64, n)
		for i := range weights {
			weights[i] = 1
		}
	}
	if len(weights) != n {
		return errors.New("weights length does not match data")
	}
	for _, w := range weights {
		if w < 0 || math.IsNaN(w) {
			return errors.New("weights must be non-negative numbers")
		}
	}

	rng := rand.New(rand.NewSource(m.Seed))
	m.initCenters(X, weights, rng)

	assign := make([]int, n)
	for i := range assign {
		assign[i] = -1
	}

	for it := 0; it < m.MaxIter; it++ {
		changed := m.assignAll(X, assign)

		// Update step: weighted mean of the assigned points.
		sums := make([][]float64, m.K)
		mass := make([]float64, m.K)
		for k := 0; k < m.K; k++ {
			sums[k] = make([]float64, p)
		}
		for i := 0; i < n; i++ {
			k := assign[i]
			mass[k] += weights[i]
			for j := 0; j < p; j++ {
				sums[k][j] += weights[i] * X[i][j]
			}
		}
		for k := 0; k < m.K; k++ {
			if mass[k] == 0 {
				continue // keep the old centroid of an empty cluster
			}
			for j := 0; j < p; j++ {
				m.Centroids[k][j] = sums[k][j] / mass[k]
			}
		}

		if !changed {
			break
		}
	}

	m.Inertia = 0
	for i := 0; i < n; i++ {
		m.Inertia += weights[i] * euclidSquared(X[i], m.Centroids[assign[i]])
	}
	return nil
}

// assignAll sets assign[i] to the nearest centroid of X[i] in parallel and
// reports whether any assignment changed.
func (m *KMeans) assignAll(X [][]float64, assign []int) bool {
	n := len(X)
	var changed atomic.Bool
	var wg sync.WaitGroup
	workers := runtime.GOMAXPROCS(0)
	rowsPerWorker := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * rowsPerWorker
		end := min(start+rowsPerWorker, n)
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				best := m.nearest(X[i])
				if assign[i] != best {
					changed.Store(true)
					assign[i] = best
				}
			}
		}(start, end)
	}
	wg.Wait()
	return changed.Load()
}

func (m *KMeans) nearest(x []float64) int {
	best, bestdSquared := 0, math.MaxFloat64
	for k, c := range m.Centroids {
		if d := euclidSquared(x, c); d < bestdSquared {
			bestdSquared = d
			best = k
		}
	}
	return best
}

// initCenters picks starting centroids with weighted k-means++:
// each new centre is drawn with probability proportional to weight * D².
func (m *KMeans) initCenters(X [][]float64, weights []float64, rng *rand.Rand) {
	n := len(X)
	m.Centroids = make([][]float64, 0, m.K)

	first := sample(weights, rng)
	m.Centroids = append(m.Centroids, append([]float64{}, X[first]...))

	distSq := make([]float64, n)
	for i := range X {
		distSq[i] = euclidSquared(X[i], m.Centroids[0])
	}
	for k := 1; k < m.K; k++ {
		score := make([]float64, n)
		for i := range score {
			score[i] = weights[i] * distSq[i]
		}
		idx := sample(score, rng)
		c := append([]float64{}, X[idx]...)
		m.Centroids = append(m.Centroids, c)
		for i := range X {
			if d := euclidSquared(X[i], c); d < distSq[i] {
				distSq[i] = d
			}
		}
	}
}

// sample draws an index with probability proportional to p,
// uniformly when p sums to zero.
func sample(p []float64, rng *rand.Rand) int {
	total := 0.0
	for _, v := range p {
		total += v
	}
	if total <= 0 {
		return rng.Intn(len(p))
	}
	r := rng.Float64() * total
	cumulative := 0.0
	for i, v := range p {
		cumulative += v
		if cumulative > r {
			return i
		}
	}
	return len(p) - 1
}

func euclidSquared(a, b []float64) float64 {
	s := 0.0
	for j := range a {
		d := a[j] - b[j]
		s += d * d
	}
	return s
}
