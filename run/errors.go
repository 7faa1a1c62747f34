package run

import (
	"fmt"
	"strings"
)

// InvalidFilterError indicates a filter spec the client cannot evaluate,
// either an unsupported field or a malformed pattern.
type InvalidFilterError struct {
	Reason string
}

func (e *InvalidFilterError) Error() string {
	return "invalid filter: " + e.Reason
}

// BatchPlanningError indicates the requested partition cannot be formed from
// the filtered sample set.
type BatchPlanningError struct {
	Reason string
}

func (e *BatchPlanningError) Error() string {
	return "batch planning failed: " + e.Reason
}

// MissingReference names a reference role the prep execution did not provide.
type MissingReference struct {
	Role     string
	Filename string
}

// ReferenceResolutionError indicates the prep execution cannot supply the
// reference set the pipeline requires.  Nothing is submitted when it occurs.
type ReferenceResolutionError struct {
	Reason  string
	Missing []MissingReference
}

func (e *ReferenceResolutionError) Error() string {
	if len(e.Missing) == 0 {
		return "reference resolution failed: " + e.Reason
	}
	lines := make([]string, len(e.Missing))
	for i, m := range e.Missing {
		lines[i] = fmt.Sprintf("  - %s: %s", m.Role, m.Filename)
	}
	return "missing required reference files:\n" + strings.Join(lines, "\n")
}

// SubmissionError indicates a single batch's submission failed.  It does not
// abort the run; sibling batches are still attempted.
type SubmissionError struct {
	Batch int
	Err   error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submission of batch %d failed: %v", e.Batch, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}
