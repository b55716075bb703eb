package pipeline

import "errors"

// Stage-tagged errors. Every failure leaving Execute is wrapped with exactly
// one of these, so callers can branch on the failed stage with errors.Is
// without inspecting nested causes.
var (
	// ErrConfiguration indicates required run parameters were blank or absent.
	ErrConfiguration = errors.New("pipeline configuration invalid")
	// ErrLoadFailed indicates the feedback load stage failed.
	ErrLoadFailed = errors.New("feedback load failed")
	// ErrAnalysisFailed indicates theme extraction failed after exhausting retries.
	ErrAnalysisFailed = errors.New("theme analysis failed")
	// ErrWriteFailed indicates the result could not be persisted.
	ErrWriteFailed = errors.New("result write failed")
)
