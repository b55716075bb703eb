package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ONSdigital/survey-assist-themes/pkg/retry"
)

const (
	EnvPipelineSourceKey     = "THEMES_PIPELINE_SOURCE_KEY"
	EnvPipelineIDColumn      = "THEMES_PIPELINE_ID_COLUMN"
	EnvPipelineTextColumn    = "THEMES_PIPELINE_TEXT_COLUMN"
	EnvPipelineIDPrefix      = "THEMES_PIPELINE_ID_PREFIX"
	EnvPipelineQuestion      = "THEMES_PIPELINE_QUESTION"
	EnvPipelineSystemPrompt  = "THEMES_PIPELINE_SYSTEM_PROMPT"
	EnvPipelineOutputPrefix  = "THEMES_PIPELINE_OUTPUT_PREFIX"
	EnvPipelineMaxAttempts   = "THEMES_PIPELINE_MAX_ATTEMPTS"
	EnvPipelineInitialDelay  = "THEMES_PIPELINE_INITIAL_DELAY"
	EnvPipelineBackoffFactor = "THEMES_PIPELINE_BACKOFF_FACTOR"
)

// Defaults mirror the scheduled-job deployment this pipeline replaces.
const (
	DefaultSourceKey    = "input/example_feedback_v2.csv"
	DefaultIDColumn     = "user"
	DefaultTextColumn   = "feedback_comments"
	DefaultIDPrefix     = "STP"
	DefaultQuestion     = "Do you have any other feedback about this survey?"
	DefaultOutputPrefix = "themefinder_output"

	DefaultSystemPrompt = "You are an AI assistant working for a UK government policy team. " +
		"You carefully analyse free-text survey responses to identify key " +
		"themes, sentiments and concerns raised by respondents."
)

// PipelineConfig holds the run parameters and retry tuning for the analysis
// pipeline.
type PipelineConfig struct {
	SourceKey     string  `toml:"source_key"`
	IDColumn      string  `toml:"id_column"`
	TextColumn    string  `toml:"text_column"`
	IDPrefix      string  `toml:"id_prefix"`
	Question      string  `toml:"question"`
	SystemPrompt  string  `toml:"system_prompt"`
	OutputPrefix  string  `toml:"output_prefix"`
	MaxAttempts   int     `toml:"max_attempts"`
	InitialDelay  string  `toml:"initial_delay"`
	BackoffFactor float64 `toml:"backoff_factor"`
}

// RetryConfig converts the retry tuning into a retry.Config.
func (c *PipelineConfig) RetryConfig() retry.Config {
	delay, _ := time.ParseDuration(c.InitialDelay)
	return retry.Config{
		MaxAttempts:   c.MaxAttempts,
		InitialDelay:  delay,
		BackoffFactor: c.BackoffFactor,
	}
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *PipelineConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *PipelineConfig) Merge(overlay *PipelineConfig) {
	if overlay.SourceKey != "" {
		c.SourceKey = overlay.SourceKey
	}
	if overlay.IDColumn != "" {
		c.IDColumn = overlay.IDColumn
	}
	if overlay.TextColumn != "" {
		c.TextColumn = overlay.TextColumn
	}
	if overlay.IDPrefix != "" {
		c.IDPrefix = overlay.IDPrefix
	}
	if overlay.Question != "" {
		c.Question = overlay.Question
	}
	if overlay.SystemPrompt != "" {
		c.SystemPrompt = overlay.SystemPrompt
	}
	if overlay.OutputPrefix != "" {
		c.OutputPrefix = overlay.OutputPrefix
	}
	if overlay.MaxAttempts != 0 {
		c.MaxAttempts = overlay.MaxAttempts
	}
	if overlay.InitialDelay != "" {
		c.InitialDelay = overlay.InitialDelay
	}
	if overlay.BackoffFactor != 0 {
		c.BackoffFactor = overlay.BackoffFactor
	}
}

func (c *PipelineConfig) loadDefaults() {
	if c.SourceKey == "" {
		c.SourceKey = DefaultSourceKey
	}
	if c.IDColumn == "" {
		c.IDColumn = DefaultIDColumn
	}
	if c.TextColumn == "" {
		c.TextColumn = DefaultTextColumn
	}
	if c.IDPrefix == "" {
		c.IDPrefix = DefaultIDPrefix
	}
	if c.Question == "" {
		c.Question = DefaultQuestion
	}
	if c.SystemPrompt == "" {
		c.SystemPrompt = DefaultSystemPrompt
	}
	if c.OutputPrefix == "" {
		c.OutputPrefix = DefaultOutputPrefix
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 3
	}
	if c.InitialDelay == "" {
		c.InitialDelay = "2s"
	}
	if c.BackoffFactor == 0 {
		c.BackoffFactor = 2.0
	}
}

func (c *PipelineConfig) loadEnv() {
	if v := os.Getenv(EnvPipelineSourceKey); v != "" {
		c.SourceKey = v
	}
	if v := os.Getenv(EnvPipelineIDColumn); v != "" {
		c.IDColumn = v
	}
	if v := os.Getenv(EnvPipelineTextColumn); v != "" {
		c.TextColumn = v
	}
	if v := os.Getenv(EnvPipelineIDPrefix); v != "" {
		c.IDPrefix = v
	}
	if v := os.Getenv(EnvPipelineQuestion); v != "" {
		c.Question = v
	}
	if v := os.Getenv(EnvPipelineSystemPrompt); v != "" {
		c.SystemPrompt = v
	}
	if v := os.Getenv(EnvPipelineOutputPrefix); v != "" {
		c.OutputPrefix = v
	}
	if v := os.Getenv(EnvPipelineMaxAttempts); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.MaxAttempts = n
		}
	}
	if v := os.Getenv(EnvPipelineInitialDelay); v != "" {
		c.InitialDelay = v
	}
	if v := os.Getenv(EnvPipelineBackoffFactor); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 1 {
			c.BackoffFactor = f
		}
	}
}

func (c *PipelineConfig) validate() error {
	if _, err := time.ParseDuration(c.InitialDelay); err != nil {
		return fmt.Errorf("invalid initial_delay: %w", err)
	}

	cfg := c.RetryConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	return nil
}
