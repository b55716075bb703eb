package themes

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/ONSdigital/survey-assist-themes/internal/feedback"
	"github.com/ONSdigital/survey-assist-themes/pkg/formatting"
)

// Stage names in production order. The serialized document carries them as
// its top-level keys.
const (
	StageQuestion  = "question"
	StageSentiment = "sentiment"
	StageThemes    = "themes"
	StageMapping   = "mapping"
)

const sentimentEnum = "Position"

const sentimentInstruction = `Assess each response's position towards the ` +
	`survey question. Respond with a JSON array, one entry per response: ` +
	`{"response_id": <int>, "position": "AGREEMENT"|"DISAGREEMENT"|"UNCLEAR"}.`

const themesInstruction = `Identify the recurring themes across all ` +
	`responses. Respond with a JSON array of themes: ` +
	`{"topic_id": "<letter>", "topic": "<short title>", "description": "<one sentence>"}.`

const mappingInstruction = `Assign each response to one or more of the ` +
	`themes identified below. Respond with a JSON array, one entry per ` +
	`response: {"response_id": <int>, "labels": ["<topic_id>", ...]}.`

type sentimentEntry struct {
	ResponseID int    `json:"response_id"`
	Position   string `json:"position"`
}

type themeEntry struct {
	TopicID     string `json:"topic_id"`
	Topic       string `json:"topic"`
	Description string `json:"description"`
}

type mappingEntry struct {
	ResponseID int      `json:"response_id"`
	Labels     []string `json:"labels"`
}

type agentEngine struct {
	cfg    gaconfig.AgentConfig
	logger *slog.Logger
}

// NewAgentEngine creates an Engine that drives a chat agent through three
// inference stages: sentiment assessment, theme generation, and theme
// mapping. Each stage is a single Chat inference whose JSON payload is
// extracted leniently from the model response.
func NewAgentEngine(cfg *gaconfig.AgentConfig, logger *slog.Logger) Engine {
	return &agentEngine{
		cfg:    *cfg,
		logger: logger.With("system", "engine"),
	}
}

func (e *agentEngine) Process(
	ctx context.Context,
	records []feedback.Record,
	question string,
	systemPrompt string,
) (*Result, error) {
	a, err := agent.New(&e.cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: create agent: %w", ErrEngineFailed, err)
	}

	recordsJSON, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: serialize records: %w", ErrEngineFailed, err)
	}

	sentiments, err := infer[[]sentimentEntry](
		ctx, a,
		composePrompt(systemPrompt, question, string(recordsJSON), sentimentInstruction),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: sentiment stage: %w", ErrEngineFailed, err)
	}

	topics, err := infer[[]themeEntry](
		ctx, a,
		composePrompt(systemPrompt, question, string(recordsJSON), themesInstruction),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: themes stage: %w", ErrEngineFailed, err)
	}

	topicsJSON, err := json.MarshalIndent(topics, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: serialize themes: %w", ErrEngineFailed, err)
	}

	mappings, err := infer[[]mappingEntry](
		ctx, a,
		composePrompt(
			systemPrompt, question, string(recordsJSON),
			mappingInstruction+"\n\nThemes:\n\n"+string(topicsJSON),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: mapping stage: %w", ErrEngineFailed, err)
	}

	e.logger.InfoContext(
		ctx, "theme extraction complete",
		"records", len(records),
		"themes", len(topics),
	)

	result := &Result{}
	result.Add(StageQuestion, Raw{Value: question})
	result.Add(StageSentiment, sentimentTable(sentiments))
	result.Add(StageThemes, themeTable(topics))
	result.Add(StageMapping, mappingTable(mappings))
	return result, nil
}

func infer[T any](ctx context.Context, a agent.Agent, prompt string) (T, error) {
	var zero T

	resp, err := a.Chat(ctx, prompt)
	if err != nil {
		return zero, fmt.Errorf("chat inference: %w", err)
	}

	parsed, err := formatting.Parse[T](resp.Content())
	if err != nil {
		return zero, fmt.Errorf("parse response: %w", err)
	}

	return parsed, nil
}

func composePrompt(systemPrompt, question, recordsJSON, instruction string) string {
	var sb strings.Builder
	sb.WriteString(systemPrompt)
	sb.WriteString("\n\nSurvey question:\n\n")
	sb.WriteString(question)
	sb.WriteString("\n\nResponses:\n\n")
	sb.WriteString(recordsJSON)
	sb.WriteString("\n\n")
	sb.WriteString(instruction)
	return sb.String()
}

func sentimentTable(entries []sentimentEntry) *Table {
	t := &Table{Columns: []string{"response_id", "position"}}
	for _, e := range entries {
		t.Rows = append(t.Rows, []any{
			e.ResponseID,
			Label{Enum: sentimentEnum, Name: e.Position},
		})
	}
	return t
}

func themeTable(entries []themeEntry) *Table {
	t := &Table{Columns: []string{"topic_id", "topic", "description"}}
	for _, e := range entries {
		t.Rows = append(t.Rows, []any{e.TopicID, e.Topic, e.Description})
	}
	return t
}

func mappingTable(entries []mappingEntry) *Table {
	t := &Table{Columns: []string{"response_id", "labels"}}
	for _, e := range entries {
		t.Rows = append(t.Rows, []any{e.ResponseID, e.Labels})
	}
	return t
}
