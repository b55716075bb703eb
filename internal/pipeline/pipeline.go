// Package pipeline orchestrates one feedback-analysis run: load canonical
// records from storage, extract themes through the engine under a retry
// budget, serialize the result, and persist it to the output container.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// State bag keys shared between pipeline nodes.
const (
	KeyRequest     = "run_request"
	KeyRecords     = "records"
	KeyRecordCount = "record_count"
	KeyResult      = "analysis_result"
	KeyDocument    = "serialized_result"
	KeyOutput      = "output_key"
)

// RunResult is the final output of a successful pipeline run.
type RunResult struct {
	RunID       uuid.UUID `json:"run_id"`
	OutputKey   string    `json:"output_key"`
	RecordCount int       `json:"record_count"`
	CompletedAt time.Time `json:"completed_at"`
}

// Execute runs the pipeline for a single source object. It validates the
// request, opens a run-history entry, builds the state graph
// (load → analyze → serialize → write), executes it, and closes the run
// entry with the outcome. The graph runs as one cooperatively-suspending
// task; the storage read, the retried engine call, and the storage write are
// its only suspension points, never outstanding concurrently within a run.
func Execute(ctx context.Context, rt *Runtime, req RunRequest) (*RunResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	run, err := rt.Runs.Begin(ctx, req.SourceKey)
	if err != nil {
		return nil, fmt.Errorf("record run start: %w", err)
	}

	graph, err := buildGraph(rt)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	initialState := state.New(nil)
	initialState = initialState.Set(KeyRequest, req)

	finalState, err := graph.Execute(ctx, initialState)
	if err != nil {
		if failErr := rt.Runs.Fail(ctx, run.ID, err); failErr != nil {
			rt.Logger.Error("record run failure failed", "run_id", run.ID, "error", failErr)
		}
		return nil, err
	}

	result, err := extractResult(finalState, run.ID)
	if err != nil {
		if failErr := rt.Runs.Fail(ctx, run.ID, err); failErr != nil {
			rt.Logger.Error("record run failure failed", "run_id", run.ID, "error", failErr)
		}
		return nil, err
	}

	if err := rt.Runs.Complete(ctx, run.ID, result.RecordCount, result.OutputKey); err != nil {
		return nil, fmt.Errorf("record run completion: %w", err)
	}

	return result, nil
}

func buildGraph(rt *Runtime) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("themes-pipeline")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("load", LoadNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("analyze", AnalyzeNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("serialize", SerializeNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("write", WriteNode(rt)); err != nil {
		return nil, err
	}

	// strictly forward: load → analyze → serialize → write
	if err := graph.AddEdge("load", "analyze", nil); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("analyze", "serialize", nil); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("serialize", "write", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("load"); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint("write"); err != nil {
		return nil, err
	}

	return graph, nil
}

func extractResult(s state.State, runID uuid.UUID) (*RunResult, error) {
	outputKey, err := stateValue[string](s, KeyOutput)
	if err != nil {
		return nil, err
	}

	recordCount, err := stateValue[int](s, KeyRecordCount)
	if err != nil {
		return nil, err
	}

	return &RunResult{
		RunID:       runID,
		OutputKey:   outputKey,
		RecordCount: recordCount,
		CompletedAt: time.Now(),
	}, nil
}

func stateValue[T any](s state.State, key string) (T, error) {
	var zero T

	val, ok := s.Get(key)
	if !ok {
		return zero, fmt.Errorf("missing %s in final state", key)
	}

	typed, ok := val.(T)
	if !ok {
		return zero, fmt.Errorf("%s is not %T", key, zero)
	}

	return typed, nil
}
