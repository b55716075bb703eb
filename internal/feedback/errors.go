package feedback

import "errors"

// Domain errors for feedback loading.
var (
	ErrColumnMissing     = errors.New("required column missing from header")
	ErrNoFeedback        = errors.New("no usable feedback rows after filtering")
	ErrInvalidResponseID = errors.New("response identifier does not match expected format")
	ErrMalformedTable    = errors.New("malformed delimited table")
)
