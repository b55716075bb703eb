package runs

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for run-history operations.
type System interface {
	// Begin inserts a running entry for a new pipeline invocation.
	Begin(ctx context.Context, sourceKey string) (*Run, error)
	// Complete marks a run successful, recording what it processed and produced.
	Complete(ctx context.Context, id uuid.UUID, recordCount int, outputKey string) error
	// Fail marks a run failed, recording the cause.
	Fail(ctx context.Context, id uuid.UUID, cause error) error
	// Find returns a single run by id.
	Find(ctx context.Context, id uuid.UUID) (*Run, error)
	// Recent returns the most recently started runs, newest first.
	Recent(ctx context.Context, limit int) ([]Run, error)
}
