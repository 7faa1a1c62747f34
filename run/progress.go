package run

import "sync"

// Progress is the shared view of a run that the status endpoint reports while
// a submission run is in flight.
type Progress struct {
	mutex     *sync.RWMutex
	stage     string
	dryRun    bool
	planned   int
	submitted int
	failed    int
}

// NewProgress creates an empty progress tracker.
func NewProgress(dryRun bool) *Progress {
	return &Progress{
		mutex:  &sync.RWMutex{},
		stage:  "starting",
		dryRun: dryRun,
	}
}

// SetStage records the pipeline stage the run is currently in.
func (p *Progress) SetStage(stage string) {
	p.mutex.Lock()
	p.stage = stage
	p.mutex.Unlock()
}

// SetPlanned records how many batches the planner produced.
func (p *Progress) SetPlanned(n int) {
	p.mutex.Lock()
	p.planned = n
	p.mutex.Unlock()
}

// MarkSubmitted counts one batch as submitted (or planned in dry-run mode).
func (p *Progress) MarkSubmitted() {
	p.mutex.Lock()
	p.submitted++
	p.mutex.Unlock()
}

// MarkFailed counts one batch as failed.
func (p *Progress) MarkFailed() {
	p.mutex.Lock()
	p.failed++
	p.mutex.Unlock()
}

// Snapshot is a point-in-time copy of the run's progress.
type Snapshot struct {
	Stage     string `json:"stage"`
	DryRun    bool   `json:"dry_run"`
	Planned   int    `json:"planned"`
	Submitted int    `json:"submitted"`
	Failed    int    `json:"failed"`
}

// Snapshot returns the current progress counters.
func (p *Progress) Snapshot() Snapshot {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return Snapshot{
		Stage:     p.stage,
		DryRun:    p.dryRun,
		Planned:   p.planned,
		Submitted: p.submitted,
		Failed:    p.failed,
	}
}
