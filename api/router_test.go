package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/ulelab/flow-batch/api/routes"
	"github.com/ulelab/flow-batch/client"
	"github.com/ulelab/flow-batch/config"
	"github.com/ulelab/flow-batch/queue"
	"github.com/ulelab/flow-batch/run"
)

func testRouter(t *testing.T, progress *run.Progress, batchQueue queue.BatchQueue) http.Handler {
	logger, err := zap.NewDevelopment()
	assert.NoError(t, err)
	cfg := config.Config{
		Logger:      logger.Sugar(),
		Environment: &config.Environment{},
	}
	router, err := NewRouter(cfg, progress, batchQueue)
	assert.NoError(t, err)
	return router
}

func TestStatusRoute(t *testing.T) {
	progress := run.NewProgress(false)
	progress.SetStage("submitting")
	progress.SetPlanned(3)
	progress.MarkSubmitted()
	progress.MarkFailed()

	router := testRouter(t, progress, queue.NewMemoryQueue(10))
	server := httptest.NewServer(router)
	defer server.Close()

	resp, err := http.Get(server.URL + "/run/status")
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var snapshot run.Snapshot
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&snapshot))
	assert.Equal(t, "submitting", snapshot.Stage)
	assert.Equal(t, 3, snapshot.Planned)
	assert.Equal(t, 1, snapshot.Submitted)
	assert.Equal(t, 1, snapshot.Failed)
}

func TestBatchesRoute(t *testing.T) {
	batchQueue := queue.NewMemoryQueue(10)
	request := &run.SubmissionRequest{
		Batch: run.Batch{
			Index:   2,
			Samples: []client.Sample{{ID: "id-1", Name: "Sample1"}},
		},
		RequestKey: 42,
	}
	ok, err := batchQueue.Enqueue(request.RequestKey, request)
	assert.NoError(t, err)
	assert.True(t, ok)

	router := testRouter(t, run.NewProgress(false), batchQueue)
	server := httptest.NewServer(router)
	defer server.Close()

	resp, err := http.Get(server.URL + "/run/batches")
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var summaries []routes.BatchSummary
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&summaries))
	assert.Len(t, summaries, 1)
	assert.Equal(t, 2, summaries[0].Batch)
	assert.Equal(t, []string{"Sample1"}, summaries[0].Samples)
	assert.Equal(t, uint32(42), summaries[0].RequestKey)

	// listing does not consume the queue
	assert.Equal(t, 1, batchQueue.Size())
}
