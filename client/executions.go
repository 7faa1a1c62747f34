package client

import (
	"context"

	"github.com/pkg/errors"
)

// Execution fetches the detail record for one execution, including its status
// and output file manifest.
func (c *Client) Execution(ctx context.Context, executionID string) (*Execution, error) {
	var ex Execution
	if err := c.getJSON(ctx, "/executions/"+executionID, nil, &ex); err != nil {
		return nil, errors.Wrapf(err, "failed to fetch execution %s", executionID)
	}
	return &ex, nil
}

// PipelineVersionID resolves a pipeline's human version label to the version
// ID the run endpoint expects.
func (c *Client) PipelineVersionID(ctx context.Context, pipelineID, versionLabel string) (string, error) {
	var pipeline Pipeline
	if err := c.getJSON(ctx, "/pipelines/"+pipelineID, nil, &pipeline); err != nil {
		return "", errors.Wrapf(err, "failed to fetch pipeline %s", pipelineID)
	}
	for _, v := range pipeline.Versions {
		if v.Name == versionLabel {
			return v.ID, nil
		}
	}
	return "", errors.Errorf("version %q not found on pipeline %s", versionLabel, pipelineID)
}

// SubmitRun posts one run payload against a pipeline version and returns the
// created execution's ID.  Submissions are sent exactly once and never
// retried.
func (c *Client) SubmitRun(ctx context.Context, versionID string, payload *RunPayload) (string, error) {
	var created runResponse
	if err := c.postJSON(ctx, "/pipelines/versions/"+versionID+"/run", payload, &created); err != nil {
		return "", err
	}
	if created.ID == "" {
		return "", errors.New("submission succeeded but no run id in response")
	}
	return created.ID, nil
}
