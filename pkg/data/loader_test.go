package data_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"housingml/pkg/data"
)

func TestBatches_SkipsMissingRows(t *testing.T) {
	tbl := sampleTable(t)

	batches, err := data.Batches(context.Background(), tbl, []string{"total_rooms", "total_bedrooms"}, "households", 2)
	require.NoError(t, err)

	var sizes []int
	var labels []float64
	for b := range batches {
		sizes = append(sizes, len(b.Y))
		labels = append(labels, b.Y...)
	}
	assert.Equal(t, []int{2, 1}, sizes)
	assert.Equal(t, []float64{126, 177, 219}, labels)
}

func TestStreamTable_Done(t *testing.T) {
	tbl := sampleTable(t)
	out := make(chan data.Sample)
	done, err := data.StreamTable(tbl, []string{"longitude"}, "latitude", out)
	require.NoError(t, err)

	first := <-out
	assert.Equal(t, []float64{-122.23}, first.X)
	close(done)
	for range out {
	}
}

func TestStreamTable_UnknownColumn(t *testing.T) {
	_, err := data.StreamTable(sampleTable(t), []string{"nope"}, "latitude", make(chan data.Sample))
	assert.ErrorIs(t, err, data.ErrUnknownColumn)
}

func TestBatches_CancelStopsProducers(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx, cancel := context.WithCancel(context.Background())
	batches, err := data.Batches(ctx, sampleTable(t), []string{"longitude"}, "latitude", 1)
	require.NoError(t, err)

	// read one batch and walk away
	<-batches
	cancel()
	for range batches {
	}
}

func TestBatches_InvalidSize(t *testing.T) {
	_, err := data.Batches(context.Background(), sampleTable(t), []string{"longitude"}, "latitude", 0)
	assert.Error(t, err)
}
