package routes

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/pkg/errors"
	"github.com/ulelab/flow-batch/config"
	"github.com/ulelab/flow-batch/queue"
	"github.com/ulelab/flow-batch/run"
)

// BatchSummary is the externally visible shape of one queued submission.
type BatchSummary struct {
	Batch      int      `json:"batch"`
	Samples    []string `json:"samples"`
	RequestKey uint32   `json:"request_key"`
}

// BatchesRequest creates a get request handler that lists the submissions
// still waiting in the batch queue.
func BatchesRequest(cfg *config.Config, batchQueue queue.BatchQueue) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		contents, err := batchQueue.Snapshot()
		if err != nil {
			respondError(w, err, http.StatusInternalServerError, cfg.Logger)
			return
		}
		summaries := make([]BatchSummary, 0, len(contents))
		for _, entry := range contents {
			request, ok := entry.(*run.SubmissionRequest)
			if !ok {
				respondError(w, errors.Errorf("unexpected queue entry type %T", entry), http.StatusInternalServerError, cfg.Logger)
				return
			}
			names := make([]string, len(request.Batch.Samples))
			for i, s := range request.Batch.Samples {
				names[i] = s.Name
			}
			summaries = append(summaries, BatchSummary{
				Batch:      request.Batch.Index,
				Samples:    names,
				RequestKey: request.RequestKey,
			})
		}
		render.JSON(w, r, summaries)
	}
}
