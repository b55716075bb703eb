package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/ONSdigital/survey-assist-themes/internal/feedback"
	"github.com/ONSdigital/survey-assist-themes/internal/runs"
	"github.com/ONSdigital/survey-assist-themes/internal/themes"
	"github.com/ONSdigital/survey-assist-themes/pkg/retry"
)

// Runtime bundles the dependencies that pipeline nodes require. It is
// constructed by higher-level composition code from infrastructure and
// domain systems. Each run owns its own records and result; a Runtime may
// be shared across concurrent runs because every field is used read-only.
type Runtime struct {
	Loader *feedback.Loader
	Engine themes.Engine
	Writer *themes.Writer
	Runs   runs.System
	Retry  retry.Config
	Logger *slog.Logger
}

// RunRequest carries the resolved parameters for one pipeline run. The
// configuration surface validates and resolves these before the core is
// invoked; Execute only rejects blank values.
type RunRequest struct {
	SourceKey    string
	IDColumn     string
	TextColumn   string
	Question     string
	SystemPrompt string
}

// Validate rejects requests with missing required values.
func (r *RunRequest) Validate() error {
	switch {
	case r.SourceKey == "":
		return fmt.Errorf("%w: source key required", ErrConfiguration)
	case r.IDColumn == "":
		return fmt.Errorf("%w: id column required", ErrConfiguration)
	case r.TextColumn == "":
		return fmt.Errorf("%w: text column required", ErrConfiguration)
	case r.Question == "":
		return fmt.Errorf("%w: survey question required", ErrConfiguration)
	case r.SystemPrompt == "":
		return fmt.Errorf("%w: system prompt required", ErrConfiguration)
	}
	return nil
}
