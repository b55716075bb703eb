package themes

import (
	"context"
	"errors"

	"github.com/ONSdigital/survey-assist-themes/internal/feedback"
)

// Engine is the theme-extraction collaborator. It consumes canonical records
// plus the survey question and system prompt, and reports its output already
// tagged by variant. Implementations are treated as fallible and possibly
// slow; the pipeline invokes Process exactly once per retry attempt.
type Engine interface {
	Process(ctx context.Context, records []feedback.Record, question, systemPrompt string) (*Result, error)
}

// ErrEngineFailed indicates an engine inference or response-parsing failure.
// Such failures are transient from the pipeline's perspective and consume
// the retry budget.
var ErrEngineFailed = errors.New("theme extraction failed")
