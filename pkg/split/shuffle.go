package split

import (
	"fmt"
	"math/rand"

	"housingml/pkg/data"
)

// Fold is one train/test partition of row indices.
type Fold struct {
	Train []int
	Test  []int
}

func checkRatio(r float64) error {
	if !(r > 0 && r < 1) {
		return fmt.Errorf("%w: %v", ErrInvalidRatio, r)
	}
	return nil
}

// ShuffleSplit permutes 0..n-1 with seed and puts the first int(n*testRatio) indices in Test.
func ShuffleSplit(n int, testRatio float64, seed int64) (Fold, error) {
	if err := checkRatio(testRatio); err != nil {
		return Fold{}, err
	}
	rng := rand.New(rand.NewSource(seed))
	indices := rng.Perm(n)
	nTest := int(float64(n) * testRatio)
	return Fold{Train: indices[nTest:], Test: indices[:nTest]}, nil
}

// KFold yields k folds; fold i tests on every k-th index of a seeded permutation
// and trains on the rest.
func KFold(n, k int, seed int64) ([]Fold, error) {
	if k < 2 || k > n {
		return nil, fmt.Errorf("split: k=%d must be in [2, %d]", k, n)
	}
	rng := rand.New(rand.NewSource(seed))
	indices := rng.Perm(n)
	buckets := make([][]int, k)
	for i := range n {
		buckets[i%k] = append(buckets[i%k], indices[i])
	}
	folds := make([]Fold, k)
	for f := range k {
		folds[f].Test = buckets[f]
		for g := range k {
			if g != f {
				folds[f].Train = append(folds[f].Train, buckets[g]...)
			}
		}
	}
	return folds, nil
}

// Apply materialises a fold as two tables.
func Apply(t *data.Table, f Fold) (train, test *data.Table) {
	return t.Take(f.Train), t.Take(f.Test)
}

// TrainTestSplit splits t with a stratified shuffle on stratify,
// or a plain shuffle when stratify is empty.
func TrainTestSplit(t *data.Table, testRatio float64, stratify string, seed int64) (train, test *data.Table, err error) {
	if stratify == "" {
		f, err := ShuffleSplit(t.Len(), testRatio, seed)
		if err != nil {
			return nil, nil, err
		}
		train, test = Apply(t, f)
		return train, test, nil
	}
	labels, err := t.Categorical(stratify)
	if err != nil {
		return nil, nil, err
	}
	s := &StratifiedShuffleSplit{NSplits: 1, TestSize: testRatio, Seed: seed}
	folds, err := s.Split(labels)
	if err != nil {
		return nil, nil, err
	}
	train, test = Apply(t, folds[0])
	return train, test, nil
}
