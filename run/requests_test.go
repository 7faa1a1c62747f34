package run

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ulelab/flow-batch/config"
)

func testProfile() *config.Profile {
	return &config.Profile{
		Name:            "test",
		NextflowVersion: "22.10.5",
		Paired:          "false",
		Params:          map[string]string{"demultiplexed": "true"},
		FileMap:         map[string]string{"fasta": "genome.fa"},
	}
}

func testRefs() *ReferenceSet {
	return &ReferenceSet{
		SourceExecutionID: "prep-1",
		FilesetID:         "fs-1",
		DataParams:        map[string]string{"fasta": "d-1"},
	}
}

func TestBuildRequest(t *testing.T) {
	batches, err := PlanBatches(makeSamples(2), 1)
	assert.NoError(t, err)

	request, err := BuildRequest(batches[0], testProfile(), testRefs())
	assert.NoError(t, err)
	assert.Equal(t, 1, request.Batch.Index)
	assert.NotZero(t, request.RequestKey)

	payload := request.Payload
	assert.Equal(t, map[string]string{"demultiplexed": "true"}, payload.Params)
	assert.Equal(t, map[string]string{"fasta": "d-1"}, payload.DataParams)
	assert.Equal(t, "22.10.5", payload.NextflowVersion)
	assert.Equal(t, "fs-1", payload.Fileset)
	assert.Nil(t, payload.Retries)
	assert.False(t, payload.ResequenceSamples)

	rows := payload.CSVParams.Samplesheet.Rows
	assert.Len(t, rows, 2)
	assert.Equal(t, "id-1", rows[0].Sample)
	assert.Equal(t, "Sample1", rows[0].Values.Group)
	assert.Equal(t, "1", rows[0].Values.Replicate)
	assert.Equal(t, "false", payload.CSVParams.Samplesheet.Paired)
}

func TestBuildRequestsDistinctKeys(t *testing.T) {
	batches, err := PlanBatches(makeSamples(4), 2)
	assert.NoError(t, err)

	requests, err := BuildRequests(batches, testProfile(), testRefs())
	assert.NoError(t, err)
	assert.Len(t, requests, 2)
	assert.NotEqual(t, requests[0].RequestKey, requests[1].RequestKey)
}

func TestBuildRequestDeterministicKey(t *testing.T) {
	batches, err := PlanBatches(makeSamples(3), 1)
	assert.NoError(t, err)

	first, err := BuildRequest(batches[0], testProfile(), testRefs())
	assert.NoError(t, err)
	second, err := BuildRequest(batches[0], testProfile(), testRefs())
	assert.NoError(t, err)
	assert.Equal(t, first.RequestKey, second.RequestKey)
}

func TestReportErr(t *testing.T) {
	report := &Report{Results: []SubmissionResult{
		{Batch: 1},
		{Batch: 2, Err: &SubmissionError{Batch: 2}},
		{Batch: 3},
	}}
	assert.EqualError(t, report.Err(), "1 of 3 batch submissions failed")

	clean := &Report{Results: []SubmissionResult{{Batch: 1}}}
	assert.NoError(t, clean.Err())
}
