package config_test

import (
	"testing"
	"time"

	"github.com/ONSdigital/survey-assist-themes/internal/config"
)

func TestPipelineFinalizeDefaults(t *testing.T) {
	cfg := &config.PipelineConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize error: %v", err)
	}

	if cfg.SourceKey != config.DefaultSourceKey {
		t.Errorf("SourceKey = %s", cfg.SourceKey)
	}
	if cfg.IDColumn != "user" || cfg.TextColumn != "feedback_comments" {
		t.Errorf("columns = %s, %s", cfg.IDColumn, cfg.TextColumn)
	}
	if cfg.IDPrefix != "STP" {
		t.Errorf("IDPrefix = %s", cfg.IDPrefix)
	}
	if cfg.Question != config.DefaultQuestion {
		t.Errorf("Question = %s", cfg.Question)
	}
	if cfg.SystemPrompt != config.DefaultSystemPrompt {
		t.Errorf("SystemPrompt = %s", cfg.SystemPrompt)
	}
	if cfg.OutputPrefix != "themefinder_output" {
		t.Errorf("OutputPrefix = %s", cfg.OutputPrefix)
	}
	if cfg.MaxAttempts != 3 || cfg.InitialDelay != "2s" || cfg.BackoffFactor != 2.0 {
		t.Errorf("retry tuning = %d, %s, %v", cfg.MaxAttempts, cfg.InitialDelay, cfg.BackoffFactor)
	}
}

func TestPipelineFinalizeEnvOverrides(t *testing.T) {
	t.Setenv(config.EnvPipelineSourceKey, "input/other.csv")
	t.Setenv(config.EnvPipelineIDColumn, "respondent")
	t.Setenv(config.EnvPipelineIDPrefix, "RESP")
	t.Setenv(config.EnvPipelineQuestion, "How was it?")
	t.Setenv(config.EnvPipelineMaxAttempts, "5")
	t.Setenv(config.EnvPipelineInitialDelay, "500ms")
	t.Setenv(config.EnvPipelineBackoffFactor, "3")

	cfg := &config.PipelineConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize error: %v", err)
	}

	if cfg.SourceKey != "input/other.csv" {
		t.Errorf("SourceKey = %s", cfg.SourceKey)
	}
	if cfg.IDColumn != "respondent" || cfg.IDPrefix != "RESP" {
		t.Errorf("identifier config = %s, %s", cfg.IDColumn, cfg.IDPrefix)
	}
	if cfg.Question != "How was it?" {
		t.Errorf("Question = %s", cfg.Question)
	}
	if cfg.MaxAttempts != 5 || cfg.InitialDelay != "500ms" || cfg.BackoffFactor != 3.0 {
		t.Errorf("retry tuning = %d, %s, %v", cfg.MaxAttempts, cfg.InitialDelay, cfg.BackoffFactor)
	}

	// File values not overridden by env remain defaulted.
	if cfg.TextColumn != "feedback_comments" {
		t.Errorf("TextColumn = %s", cfg.TextColumn)
	}
}

func TestPipelineFinalizeRejectsBadEnvValues(t *testing.T) {
	t.Setenv(config.EnvPipelineMaxAttempts, "zero")
	t.Setenv(config.EnvPipelineBackoffFactor, "0.5")

	cfg := &config.PipelineConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize error: %v", err)
	}

	// Unparseable or out-of-range env values fall back to defaults.
	if cfg.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want default 3", cfg.MaxAttempts)
	}
	if cfg.BackoffFactor != 2.0 {
		t.Errorf("BackoffFactor = %v, want default 2.0", cfg.BackoffFactor)
	}
}

func TestPipelineFinalizeInvalidDelay(t *testing.T) {
	cfg := &config.PipelineConfig{InitialDelay: "soon"}
	if err := cfg.Finalize(); err == nil {
		t.Error("expected error for unparseable initial_delay")
	}
}

func TestPipelineRetryConfig(t *testing.T) {
	cfg := &config.PipelineConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize error: %v", err)
	}

	rc := cfg.RetryConfig()
	if rc.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d", rc.MaxAttempts)
	}
	if rc.InitialDelay != 2*time.Second {
		t.Errorf("InitialDelay = %v", rc.InitialDelay)
	}
	if rc.BackoffFactor != 2.0 {
		t.Errorf("BackoffFactor = %v", rc.BackoffFactor)
	}
}

func TestPipelineMerge(t *testing.T) {
	base := &config.PipelineConfig{
		SourceKey:   "input/base.csv",
		IDColumn:    "user",
		MaxAttempts: 3,
	}

	base.Merge(&config.PipelineConfig{
		SourceKey:   "input/overlay.csv",
		MaxAttempts: 5,
	})

	if base.SourceKey != "input/overlay.csv" {
		t.Errorf("SourceKey = %s", base.SourceKey)
	}
	if base.MaxAttempts != 5 {
		t.Errorf("MaxAttempts = %d", base.MaxAttempts)
	}
	if base.IDColumn != "user" {
		t.Errorf("IDColumn = %s, zero overlay fields must not overwrite", base.IDColumn)
	}
}
