package run

import (
	"context"
	"fmt"
	"sort"

	"github.com/ulelab/flow-batch/client"
)

// executionFinished is the terminal status a prep execution must report
// before its outputs can be bound as references.
const executionFinished = "finished"

// ReferenceSet is the genome/index binding shared immutably by every batch in
// a run.  It is resolved once, before any submission payload is built.
type ReferenceSet struct {
	SourceExecutionID string
	FilesetID         string
	// DataParams maps each reference input role to the bound file ID.
	DataParams map[string]string
}

// ExecutionFetcher is the slice of the API client the resolver needs.
type ExecutionFetcher interface {
	Execution(ctx context.Context, executionID string) (*client.Execution, error)
}

// ResolveReferences fetches a completed prep execution and binds the roles in
// fileMap to the file IDs in its output manifest.  Input data_params and the
// downstream data of every process execution are indexed by filename, first
// occurrence winning.  Any role without a matching filename fails the whole
// resolution.
func ResolveReferences(ctx context.Context, api ExecutionFetcher, prepExecutionID string, fileMap map[string]string) (*ReferenceSet, error) {
	ex, err := api.Execution(ctx, prepExecutionID)
	if err != nil {
		return nil, &ReferenceResolutionError{
			Reason: fmt.Sprintf("failed to fetch prep execution %s: %v", prepExecutionID, err),
		}
	}
	if ex.Status != executionFinished {
		return nil, &ReferenceResolutionError{
			Reason: fmt.Sprintf("prep execution %s is %q, not %q", prepExecutionID, ex.Status, executionFinished),
		}
	}
	if ex.Fileset == nil || ex.Fileset.ID == "" {
		return nil, &ReferenceResolutionError{
			Reason: fmt.Sprintf("prep execution %s has no fileset id", prepExecutionID),
		}
	}

	byFilename := map[string]client.DataFile{}
	index := func(f client.DataFile) {
		if f.Filename == "" {
			return
		}
		if _, seen := byFilename[f.Filename]; !seen {
			byFilename[f.Filename] = f
		}
	}
	for _, f := range ex.DataParams {
		index(f)
	}
	for _, proc := range ex.ProcessExecutions {
		for _, f := range proc.DownstreamData {
			index(f)
		}
	}

	var missing []MissingReference
	dataParams := make(map[string]string, len(fileMap))
	for role, filename := range fileMap {
		match, ok := byFilename[filename]
		if !ok {
			missing = append(missing, MissingReference{Role: role, Filename: filename})
			continue
		}
		dataParams[role] = match.ID
	}
	if len(missing) > 0 {
		sort.Slice(missing, func(i, j int) bool { return missing[i].Role < missing[j].Role })
		return nil, &ReferenceResolutionError{Missing: missing}
	}

	return &ReferenceSet{
		SourceExecutionID: prepExecutionID,
		FilesetID:         ex.Fileset.ID,
		DataParams:        dataParams,
	}, nil
}
