package run

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ulelab/flow-batch/client"
)

func makeSamples(n int) []client.Sample {
	samples := make([]client.Sample, n)
	for i := range samples {
		samples[i] = client.Sample{
			ID:   fmt.Sprintf("id-%d", i+1),
			Name: fmt.Sprintf("Sample%d", i+1),
		}
	}
	return samples
}

func TestPlanBatchesEven(t *testing.T) {
	batches, err := PlanBatches(makeSamples(110), 11)
	assert.NoError(t, err)
	assert.Len(t, batches, 11)
	for i, batch := range batches {
		assert.Equal(t, i+1, batch.Index)
		assert.Len(t, batch.Samples, 10)
	}
}

func TestPlanBatchesRemainder(t *testing.T) {
	samples := makeSamples(5)
	batches, err := PlanBatches(samples, 3)
	assert.NoError(t, err)
	assert.Len(t, batches, 3)
	assert.Len(t, batches[0].Samples, 2)
	assert.Len(t, batches[1].Samples, 2)
	assert.Len(t, batches[2].Samples, 1)

	// contiguity and order: concatenating the batches restores the input
	var flat []client.Sample
	for _, batch := range batches {
		flat = append(flat, batch.Samples...)
	}
	assert.Equal(t, samples, flat)
}

func TestPlanBatchesSingle(t *testing.T) {
	batches, err := PlanBatches(makeSamples(7), 1)
	assert.NoError(t, err)
	assert.Len(t, batches, 1)
	assert.Len(t, batches[0].Samples, 7)
}

func TestPlanBatchesOneEach(t *testing.T) {
	batches, err := PlanBatches(makeSamples(4), 4)
	assert.NoError(t, err)
	assert.Len(t, batches, 4)
	for _, batch := range batches {
		assert.Len(t, batch.Samples, 1)
	}
}

func TestPlanBatchesTooMany(t *testing.T) {
	batches, err := PlanBatches(makeSamples(3), 4)
	assert.Nil(t, batches)
	var planErr *BatchPlanningError
	assert.ErrorAs(t, err, &planErr)
}

func TestPlanBatchesEmptyInput(t *testing.T) {
	batches, err := PlanBatches(nil, 1)
	assert.Nil(t, batches)
	var planErr *BatchPlanningError
	assert.ErrorAs(t, err, &planErr)
}

func TestPlanBatchesBadCount(t *testing.T) {
	_, err := PlanBatches(makeSamples(3), 0)
	var planErr *BatchPlanningError
	assert.ErrorAs(t, err, &planErr)
}

func TestSelectRange(t *testing.T) {
	batches, err := PlanBatches(makeSamples(10), 5)
	assert.NoError(t, err)

	selected, err := SelectRange(batches, 2, 4)
	assert.NoError(t, err)
	assert.Len(t, selected, 3)
	assert.Equal(t, 2, selected[0].Index)
	assert.Equal(t, 4, selected[2].Index)
}

func TestSelectRangeDefaults(t *testing.T) {
	batches, err := PlanBatches(makeSamples(6), 3)
	assert.NoError(t, err)

	selected, err := SelectRange(batches, 0, 0)
	assert.NoError(t, err)
	assert.Equal(t, batches, selected)
}

func TestSelectRangeOutOfBounds(t *testing.T) {
	batches, err := PlanBatches(makeSamples(6), 3)
	assert.NoError(t, err)

	_, err = SelectRange(batches, 2, 5)
	var planErr *BatchPlanningError
	assert.ErrorAs(t, err, &planErr)

	_, err = SelectRange(batches, 3, 2)
	assert.ErrorAs(t, err, &planErr)
}
