package data

import (
	"context"
	"fmt"
	"math"
)

// Sample is one row of features with its target.
type Sample struct {
	X []float64
	Y float64
}

// StreamTable sends the rows of the feature columns and the label column as Samples.
// Rows with a missing feature or label are skipped.
// Close the returned done chan to stop early; out is closed when streaming ends.
func StreamTable(t *Table, features []string, label string, out chan<- Sample) (done chan struct{}, err error) {
	X, err := t.NumericMatrix(features...)
	if err != nil {
		return nil, err
	}
	y, err := t.Numeric(label)
	if err != nil {
		return nil, err
	}

	done = make(chan struct{})
	go func() {
		defer close(out)
		for i, row := range X {
			if math.IsNaN(y[i]) || hasNaN(row) {
				continue
			}
			select {
			case <-done:
				return
			case out <- Sample{X: row, Y: y[i]}:
			}
		}
	}()
	return done, nil
}

func hasNaN(row []float64) bool {
	for _, v := range row {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

// Batch is a group of samples.
type Batch struct {
	X [][]float64
	Y []float64
}

// Batcher reads Samples from in and emits Batches of batchSize on out.
// The final batch may be short. out is closed once in is drained or done is closed.
func Batcher(in <-chan Sample, batchSize int, out chan<- Batch) (done chan struct{}) {
	done = make(chan struct{})

	go func() {
		defer close(out)

		var X [][]float64
		var Y []float64
		for {
			select {
			case <-done:
				return

			case s, ok := <-in:
				if !ok {
					if len(Y) > 0 {
						select {
						case out <- Batch{X: X, Y: Y}:
						case <-done:
						}
					}
					return
				}

				X = append(X, s.X)
				Y = append(Y, s.Y)

				if len(Y) == batchSize {
					select {
					case out <- Batch{X: X, Y: Y}:
					case <-done:
						return
					}
					X = nil
					Y = nil
				}
			}
		}
	}()

	return done
}

// Batches streams the table through Batcher and returns the batch channel.
// Cancelling ctx stops both producer goroutines and closes the channel, so a
// consumer that stops reading early must cancel it.
func Batches(ctx context.Context, t *Table, features []string, label string, batchSize int) (<-chan Batch, error) {
	if batchSize < 1 {
		return nil, fmt.Errorf("data: batch size must be positive, got %d", batchSize)
	}
	samples := make(chan Sample)
	streamDone, err := StreamTable(t, features, label, samples)
	if err != nil {
		return nil, err
	}
	out := make(chan Batch)
	batchDone := Batcher(samples, batchSize, out)
	context.AfterFunc(ctx, func() {
		close(batchDone)
		close(streamDone)
	})
	return out, nil
}
