package pipeline

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/ONSdigital/survey-assist-themes/internal/feedback"
	"github.com/ONSdigital/survey-assist-themes/internal/themes"
	"github.com/ONSdigital/survey-assist-themes/pkg/retry"
)

// LoadNode returns a state node that fetches the source object and emits
// canonical records. Load failures are tagged ErrLoadFailed; there is no
// retry at this stage.
func LoadNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		req, err := stateValue[RunRequest](s, KeyRequest)
		if err != nil {
			return s, fmt.Errorf("%w: %w", ErrLoadFailed, err)
		}

		records, err := rt.Loader.Load(ctx, req.SourceKey, req.IDColumn, req.TextColumn)
		if err != nil {
			return s, fmt.Errorf("%w: %w", ErrLoadFailed, err)
		}

		rt.Logger.InfoContext(
			ctx, "load node complete",
			"source_key", req.SourceKey,
			"records", len(records),
		)

		s = s.Set(KeyRecords, records)
		s = s.Set(KeyRecordCount, len(records))
		return s, nil
	})
}

// AnalyzeNode returns a state node that invokes the theme-extraction engine
// under the configured retry budget. The engine is called exactly once per
// attempt; the wait between attempts suspends cooperatively. Exhausted
// retries surface the last engine error tagged ErrAnalysisFailed.
func AnalyzeNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		req, err := stateValue[RunRequest](s, KeyRequest)
		if err != nil {
			return s, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
		}

		records, err := stateValue[[]feedback.Record](s, KeyRecords)
		if err != nil {
			return s, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
		}

		cfg := rt.Retry
		cfg.Logger = rt.Logger

		result, err := retry.Do(ctx, cfg, func(ctx context.Context) (*themes.Result, error) {
			return rt.Engine.Process(ctx, records, req.Question, req.SystemPrompt)
		})
		if err != nil {
			return s, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
		}

		rt.Logger.InfoContext(
			ctx, "analyze node complete",
			"stages", len(result.Stages),
		)

		s = s.Set(KeyResult, result)
		return s, nil
	})
}

// SerializeNode returns a state node that converts the analysis result into
// a JSON-safe ordered document. Serialization is pure and does not fail in
// normal operation.
func SerializeNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		result, err := stateValue[*themes.Result](s, KeyResult)
		if err != nil {
			return s, fmt.Errorf("%w: %w", ErrWriteFailed, err)
		}

		doc := themes.Serialize(result)

		rt.Logger.InfoContext(
			ctx, "serialize node complete",
			"stages", doc.Len(),
		)

		s = s.Set(KeyDocument, doc)
		return s, nil
	})
}

// WriteNode returns a state node that persists the serialized document to
// the output container under a timestamped key. Write failures, including a
// missing destination container, are tagged ErrWriteFailed.
func WriteNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		doc, err := stateValue[*themes.Object](s, KeyDocument)
		if err != nil {
			return s, fmt.Errorf("%w: %w", ErrWriteFailed, err)
		}

		key, err := rt.Writer.Write(ctx, doc)
		if err != nil {
			return s, fmt.Errorf("%w: %w", ErrWriteFailed, err)
		}

		rt.Logger.InfoContext(
			ctx, "write node complete",
			"output_key", key,
		)

		s = s.Set(KeyOutput, key)
		return s, nil
	})
}
