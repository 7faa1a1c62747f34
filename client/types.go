package client

// Sample is a sequencing sample registered under a Flow project.  Samples are
// read-only from this client's perspective.
type Sample struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// samplesPage is one page of a project's sample listing.
type samplesPage struct {
	Samples []Sample `json:"samples"`
}

// DataFile is a file handle attached to an execution.
type DataFile struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
}

// Fileset groups the files produced by an execution.
type Fileset struct {
	ID string `json:"id"`
}

// ProcessExecution is one process step of an execution, carrying the files it
// produced downstream.
type ProcessExecution struct {
	DownstreamData []DataFile `json:"downstream_data"`
}

// Execution is the remote record of one pipeline run.
type Execution struct {
	ID                string              `json:"id"`
	Status            string              `json:"status"`
	Fileset           *Fileset            `json:"fileset"`
	DataParams        map[string]DataFile `json:"data_params"`
	ProcessExecutions []ProcessExecution  `json:"process_executions"`
}

// Pipeline describes a pipeline and its published versions.
type Pipeline struct {
	ID       string            `json:"id"`
	Versions []PipelineVersion `json:"versions"`
}

// PipelineVersion maps a human version label to the ID the run endpoint wants.
type PipelineVersion struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SamplesheetValues carries the per-sample defaults applied on submission.
type SamplesheetValues struct {
	Group     string `json:"group"`
	Replicate string `json:"replicate"`
}

// SamplesheetRow binds one sample to its submission values.
type SamplesheetRow struct {
	Sample string            `json:"sample"`
	Values SamplesheetValues `json:"values"`
}

// Samplesheet is the csv_params samplesheet block of a run payload.
type Samplesheet struct {
	Rows   []SamplesheetRow `json:"rows"`
	Paired string           `json:"paired"`
}

// CSVParams wraps the samplesheet for the run endpoint.
type CSVParams struct {
	Samplesheet Samplesheet `json:"samplesheet"`
}

// RunPayload is the body sent to the run endpoint for one execution.
type RunPayload struct {
	Params            map[string]string `json:"params"`
	DataParams        map[string]string `json:"data_params"`
	CSVParams         CSVParams         `json:"csv_params"`
	Retries           *int              `json:"retries"`
	NextflowVersion   string            `json:"nextflow_version"`
	Fileset           string            `json:"fileset"`
	ResequenceSamples bool              `json:"resequence_samples"`
}

// runResponse is the run endpoint's answer to a submission.
type runResponse struct {
	ID string `json:"id"`
}

// loginResponse is the login endpoint's answer to a credential exchange.
type loginResponse struct {
	Token string `json:"token"`
}
