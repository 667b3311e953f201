package split

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// StratifiedShuffleSplit draws NSplits random train/test folds that keep the
// relative frequency of every label in both halves.
// All folds come from one random stream seeded with Seed, so the sequence is
// reproducible and folds[0] is the same on every run.
type StratifiedShuffleSplit struct {
	NSplits  int
	TestSize float64
	Seed     int64
}

// Split returns NSplits folds over the positions of labels.
func (s *StratifiedShuffleSplit) Split(labels []string) ([]Fold, error) {
	if err := checkRatio(s.TestSize); err != nil {
		return nil, err
	}
	if s.NSplits < 1 {
		return nil, fmt.Errorf("split: NSplits must be positive, got %d", s.NSplits)
	}

	classes, members, err := groupLabels(labels)
	if err != nil {
		return nil, err
	}
	n := len(labels)
	nTest := int(math.Ceil(s.TestSize * float64(n)))
	nTrain := n - nTest
	if nTrain < len(classes) || nTest < len(classes) {
		return nil, fmt.Errorf("%w: train=%d test=%d classes=%d", ErrTooFewRows, nTrain, nTest, len(classes))
	}

	counts := make([]int, len(classes))
	for i, c := range classes {
		counts[i] = len(members[c])
	}

	rng := rand.New(rand.NewSource(s.Seed))
	folds := make([]Fold, s.NSplits)
	for f := range folds {
		trainPer := allocate(counts, nTrain)
		remaining := make([]int, len(counts))
		for i := range counts {
			remaining[i] = counts[i] - trainPer[i]
		}
		testPer := allocate(remaining, nTest)

		var train, test []int
		for i, c := range classes {
			idx := members[c]
			perm := rng.Perm(len(idx))
			for k, p := range perm {
				switch {
				case k < trainPer[i]:
					train = append(train, idx[p])
				case k < trainPer[i]+testPer[i]:
					test = append(test, idx[p])
				}
			}
		}
		rng.Shuffle(len(train), func(a, b int) { train[a], train[b] = train[b], train[a] })
		rng.Shuffle(len(test), func(a, b int) { test[a], test[b] = test[b], test[a] })
		folds[f] = Fold{Train: train, Test: test}
	}
	return folds, nil
}

func groupLabels(labels []string) ([]string, map[string][]int, error) {
	members := make(map[string][]int)
	for i, l := range labels {
		if l == "" {
			return nil, nil, fmt.Errorf("%w: row %d", ErrMissingLabel, i)
		}
		members[l] = append(members[l], i)
	}
	classes := make([]string, 0, len(members))
	for c, idx := range members {
		if len(idx) < 2 {
			return nil, nil, fmt.Errorf("%w: %q", ErrTooFewMembers, c)
		}
		classes = append(classes, c)
	}
	sort.Strings(classes)
	return classes, members, nil
}

// allocate splits draws across classes proportionally to counts.
// Floors first, then one extra draw each to the largest remainders,
// earlier classes first on ties.
func allocate(counts []int, draws int) []int {
	total := 0
	for _, c := range counts {
		total += c
	}
	out := make([]int, len(counts))
	if total == 0 {
		return out
	}
	rem := make([]float64, len(counts))
	given := 0
	for i, c := range counts {
		exact := float64(c) * float64(draws) / float64(total)
		out[i] = int(math.Floor(exact))
		rem[i] = exact - float64(out[i])
		given += out[i]
	}
	order := make([]int, len(counts))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return rem[order[a]] > rem[order[b]] })
	for _, i := range order {
		if given >= draws {
			break
		}
		if out[i] < counts[i] {
			out[i]++
			given++
		}
	}
	return out
}

// Proportions returns the relative frequency of each label.
func Proportions(labels []string) map[string]float64 {
	out := make(map[string]float64)
	if len(labels) == 0 {
		return out
	}
	for _, l := range labels {
		out[l]++
	}
	for k := range out {
		out[k] /= float64(len(labels))
	}
	return out
}
