package models

import "time"

// Job state constants
const (
	JobStateIdle     = "idle"
	JobStateRunning  = "running"
	JobStateComplete = "complete"
	JobStateError    = "error"
)

// JobStatus is an immutable snapshot of the process-wide analysis job.
// The controller swaps whole snapshots; readers never observe a
// partially-written update.
type JobStatus struct {
	RunID     string    `json:"run_id,omitempty"`
	State     string    `json:"state"`
	Progress  int       `json:"progress"` // 0-100
	Message   string    `json:"message"`
	HasData   bool      `json:"has_data"`
	UpdatedAt time.Time `json:"updated_at"`
	Warnings  []string  `json:"warnings,omitempty"`
}

// AnalysisArtifacts bundles the outputs of one completed run. Replaced as a
// unit on success; a failed run never touches the previous artifacts.
type AnalysisArtifacts struct {
	RunID       string           `json:"run_id"`
	CompletedAt time.Time        `json:"completed_at"`
	Cells       []HexCell        `json:"cells"`
	Bands       []CategoryBand   `json:"bands"`
	Bins        []BinLocation    `json:"bins"`
	Selection   *SensorSelection `json:"selection"`
	Sources     []FootfallSource `json:"sources"`
}
