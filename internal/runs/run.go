// Package runs records pipeline run history in Postgres.
package runs

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a recorded run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Run is one pipeline invocation: which source object it processed, how it
// ended, and what it produced.
type Run struct {
	ID          uuid.UUID  `json:"id"`
	SourceKey   string     `json:"source_key"`
	Status      Status     `json:"status"`
	RecordCount int        `json:"record_count"`
	OutputKey   string     `json:"output_key"`
	Error       string     `json:"error"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Terminal reports whether the run has finished, successfully or not.
func (r *Run) Terminal() bool {
	return r.Status == StatusCompleted || r.Status == StatusFailed
}
