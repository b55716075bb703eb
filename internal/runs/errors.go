package runs

import "errors"

// Domain errors for run-history operations.
var (
	ErrNotFound  = errors.New("run not found")
	ErrDuplicate = errors.New("run already exists")
)
