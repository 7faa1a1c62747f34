package run

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/ulelab/flow-batch/client"
	"github.com/ulelab/flow-batch/config"
	"github.com/ulelab/flow-batch/queue"
)

// Confirmer obtains a go/no-go decision from the operator.  It is an explicit
// dependency rather than hidden global state so tests can simulate both
// accept and decline.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// StdinConfirmer reads a y/n answer from an input stream.
type StdinConfirmer struct {
	In  io.Reader
	Out io.Writer
}

// Confirm prints the prompt and accepts only a "y" answer.
func (c *StdinConfirmer) Confirm(prompt string) (bool, error) {
	fmt.Fprintf(c.Out, "%s (y/n): ", prompt)
	scanner := bufio.NewScanner(c.In)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return false, errors.Wrap(err, "failed to read confirmation")
		}
		return false, nil
	}
	return strings.ToLower(strings.TrimSpace(scanner.Text())) == "y", nil
}

// SubmitAPI is the slice of the API client the submitter needs.
type SubmitAPI interface {
	SubmitRun(ctx context.Context, versionID string, payload *client.RunPayload) (string, error)
}

// Submitter drains the planned batch queue and dispatches one execution per
// batch.  One batch's failure is recorded and the run continues to the
// remaining batches.
type Submitter struct {
	config.Config
	api       SubmitAPI
	versionID string
	confirm   Confirmer
	dryRun    bool
	progress  *Progress
}

// NewSubmitter wires a submitter for one run.
func NewSubmitter(cfg *config.Config, api SubmitAPI, versionID string, confirm Confirmer, dryRun bool, progress *Progress) *Submitter {
	return &Submitter{
		Config: config.Config{
			Logger:      cfg.Logger,
			Environment: cfg.Environment,
		},
		api:       api,
		versionID: versionID,
		confirm:   confirm,
		dryRun:    dryRun,
		progress:  progress,
	}
}

// SubmitAll consumes every queued submission request in order.  Outside
// dry-run mode the operator is asked to confirm exactly once, before the
// first submission; declining aborts the run with nothing sent.
func (s *Submitter) SubmitAll(ctx context.Context, q queue.BatchQueue) (*Report, error) {
	report := &Report{DryRun: s.dryRun}

	total := q.Size()
	if total == 0 {
		return report, nil
	}

	if !s.dryRun {
		proceed, err := s.confirm.Confirm(fmt.Sprintf("Submit %d batch(es)?", total))
		if err != nil {
			return nil, errors.Wrap(err, "confirmation failed")
		}
		if !proceed {
			s.Logger.Info("Aborted by user.")
			report.Aborted = true
			return report, nil
		}
	}

	for {
		item, err := q.Dequeue()
		if errors.Is(err, queue.ErrEmpty) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read batch queue")
		}
		request, ok := item.(*SubmissionRequest)
		if !ok {
			return nil, errors.Errorf("unhandled queue entry type %T", item)
		}
		report.Results = append(report.Results, s.submit(ctx, request))
	}

	return report, nil
}

// submit dispatches a single request, or reports it in dry-run mode.
func (s *Submitter) submit(ctx context.Context, request *SubmissionRequest) SubmissionResult {
	result := SubmissionResult{
		Batch:       request.Batch.Index,
		SampleCount: len(request.Batch.Samples),
	}

	if s.dryRun {
		s.Logger.Infof("DRY RUN: Batch %d: %d samples, key=%#x",
			request.Batch.Index, len(request.Batch.Samples), request.RequestKey)
		for i, sample := range request.Batch.Samples {
			if i >= 10 {
				break
			}
			s.Logger.Infof("  %s | id=%s", sample.Name, sample.ID)
		}
		s.progress.MarkSubmitted()
		return result
	}

	executionID, err := s.api.SubmitRun(ctx, s.versionID, &request.Payload)
	if err != nil {
		result.Err = &SubmissionError{Batch: request.Batch.Index, Err: err}
		s.Logger.Errorf("%v", result.Err)
		s.progress.MarkFailed()
		return result
	}

	result.ExecutionID = executionID
	result.URL = s.Environment.AppBase + "/executions/" + executionID
	s.Logger.Infof("Batch %d submitted: %s", request.Batch.Index, result.URL)
	s.progress.MarkSubmitted()
	return result
}
