package run

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/ulelab/flow-batch/client"
	"github.com/ulelab/flow-batch/config"
	"github.com/vova616/xxhash"
)

// defaultReplicate is applied to every samplesheet row unless overridden.
const defaultReplicate = "1"

// SubmissionRequest pairs one planned batch with its fully resolved run
// payload.  RequestKey is a hash of the payload used for queue-level
// idempotency, so a journaled run never submits the same batch twice.
type SubmissionRequest struct {
	Batch   Batch
	Payload client.RunPayload

	RequestKey uint32
}

// SubmissionResult records the remote outcome for one batch.
type SubmissionResult struct {
	Batch       int
	SampleCount int
	ExecutionID string
	URL         string
	Err         error
}

// BuildRequest constructs the submission payload for one batch: one
// samplesheet row per sample with group defaulted to the sample's display
// name, the profile's fixed params and the shared reference binding.
func BuildRequest(batch Batch, profile *config.Profile, refs *ReferenceSet) (*SubmissionRequest, error) {
	rows := make([]client.SamplesheetRow, len(batch.Samples))
	for i, s := range batch.Samples {
		rows[i] = client.SamplesheetRow{
			Sample: s.ID,
			Values: client.SamplesheetValues{
				Group:     s.Name,
				Replicate: defaultReplicate,
			},
		}
	}

	payload := client.RunPayload{
		Params:     profile.Params,
		DataParams: refs.DataParams,
		CSVParams: client.CSVParams{
			Samplesheet: client.Samplesheet{
				Rows:   rows,
				Paired: profile.Paired,
			},
		},
		Retries:           nil,
		NextflowVersion:   profile.NextflowVersion,
		Fileset:           refs.FilesetID,
		ResequenceSamples: false,
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode payload for batch %d", batch.Index)
	}

	return &SubmissionRequest{
		Batch:      batch,
		Payload:    payload,
		RequestKey: xxhash.Checksum32(encoded),
	}, nil
}

// BuildRequests resolves every planned batch into a submission request.  The
// reference set must already be resolved; it is shared by all requests.
func BuildRequests(batches []Batch, profile *config.Profile, refs *ReferenceSet) ([]*SubmissionRequest, error) {
	requests := make([]*SubmissionRequest, len(batches))
	for i, b := range batches {
		req, err := BuildRequest(b, profile, refs)
		if err != nil {
			return nil, err
		}
		requests[i] = req
	}
	return requests, nil
}

// Report aggregates per-batch outcomes for one run.
type Report struct {
	DryRun  bool
	Aborted bool
	Results []SubmissionResult
}

// Succeeded returns the results for batches that were submitted (or planned,
// in dry-run mode) without error.
func (r *Report) Succeeded() []SubmissionResult {
	var out []SubmissionResult
	for _, res := range r.Results {
		if res.Err == nil {
			out = append(out, res)
		}
	}
	return out
}

// Failed returns the results for batches whose submission failed.
func (r *Report) Failed() []SubmissionResult {
	var out []SubmissionResult
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}

// Err returns a run-level error when one or more batches failed, so partial
// success still exits non-zero.
func (r *Report) Err() error {
	failed := r.Failed()
	if len(failed) == 0 {
		return nil
	}
	return errors.Errorf("%d of %d batch submissions failed", len(failed), len(r.Results))
}
