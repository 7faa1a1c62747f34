package run

import (
	"fmt"

	"github.com/ulelab/flow-batch/client"
)

// Batch is a contiguous, ordered group of samples designated for one
// execution.  Index is the batch's 1-based ordinal within the run.
type Batch struct {
	Index   int
	Samples []client.Sample
}

// PlanBatches partitions an ordered sample sequence into exactly n contiguous
// groups whose sizes differ by at most one, with earlier groups taking the
// remainder.  Empty batches are never produced: asking for more batches than
// samples fails rather than silently emitting empty groups.
func PlanBatches(samples []client.Sample, n int) ([]Batch, error) {
	if n < 1 {
		return nil, &BatchPlanningError{Reason: fmt.Sprintf("batch count must be at least 1, got %d", n)}
	}
	if n > len(samples) {
		return nil, &BatchPlanningError{
			Reason: fmt.Sprintf("cannot split %d samples into %d non-empty batches", len(samples), n),
		}
	}

	base := len(samples) / n
	remainder := len(samples) % n

	batches := make([]Batch, 0, n)
	offset := 0
	for i := 0; i < n; i++ {
		size := base
		if i < remainder {
			size++
		}
		batches = append(batches, Batch{
			Index:   i + 1,
			Samples: samples[offset : offset+size],
		})
		offset += size
	}
	return batches, nil
}

// SelectRange restricts a planned run to the 1-based inclusive batch range
// [start, end].  Zero values mean the first and last batch respectively.
// Batch indices keep their original ordinals so logs and journals stay
// consistent with the full plan.
func SelectRange(batches []Batch, start, end int) ([]Batch, error) {
	if start == 0 {
		start = 1
	}
	if end == 0 {
		end = len(batches)
	}
	if start < 1 || end > len(batches) || start > end {
		return nil, &BatchPlanningError{
			Reason: fmt.Sprintf("batch range %d-%d is outside the planned %d batches", start, end, len(batches)),
		}
	}
	return batches[start-1 : end], nil
}
