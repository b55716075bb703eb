// The job command runs the feedback-analysis pipeline once per source
// object and exits. It is designed for scheduled container-job execution:
// configuration comes from config.toml plus THEMES_* environment variables,
// and any stage failure terminates the process with a non-zero status.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/ONSdigital/survey-assist-themes/internal/config"
	"github.com/ONSdigital/survey-assist-themes/internal/feedback"
	"github.com/ONSdigital/survey-assist-themes/internal/infrastructure"
	"github.com/ONSdigital/survey-assist-themes/internal/pipeline"
	"github.com/ONSdigital/survey-assist-themes/internal/runs"
	"github.com/ONSdigital/survey-assist-themes/internal/themes"
)

const maxConcurrentRuns = 4

type sourceList []string

func (s *sourceList) String() string {
	return strings.Join(*s, ",")
}

func (s *sourceList) Set(value string) error {
	if value == "" {
		return errors.New("source key must not be empty")
	}
	*s = append(*s, value)
	return nil
}

func main() {
	var sources sourceList
	flag.Var(&sources, "source", "Source object key (repeatable; defaults to the configured source)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed: ", err)
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		log.Fatal("infrastructure init failed: ", err)
	}

	logger := infra.Logger
	logger.Info(
		"themes job starting",
		"version", cfg.Version,
		"env", cfg.Env(),
		"input_container", cfg.Input.ContainerName,
		"output_container", cfg.Output.ContainerName,
	)

	if err := infra.Start(); err != nil {
		logger.Error("infrastructure start failed", "error", err)
		os.Exit(1)
	}
	infra.Lifecycle.WaitForStartup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt := &pipeline.Runtime{
		Loader: feedback.NewLoader(
			infra.Input,
			feedback.NewNormalizer(cfg.Pipeline.IDPrefix),
			logger,
		),
		Engine: themes.NewAgentEngine(&cfg.Agent, logger),
		Writer: themes.NewWriter(infra.Output, cfg.Pipeline.OutputPrefix, logger),
		Runs:   runs.New(infra.Database.Connection(), logger),
		Retry:  cfg.Pipeline.RetryConfig(),
		Logger: logger,
	}

	if len(sources) == 0 {
		sources = sourceList{cfg.Pipeline.SourceKey}
	}

	failed := execute(ctx, rt, cfg, sources)

	if err := infra.Lifecycle.Shutdown(cfg.ShutdownTimeoutDuration()); err != nil {
		logger.Error("shutdown incomplete", "error", err)
	}

	if failed {
		os.Exit(1)
	}

	logger.Info("themes job complete", "runs", len(sources))
}

// execute runs the pipeline for each source key. Runs are fully independent,
// so they proceed concurrently under a bounded group; one run's failure does
// not cancel the others. Returns true if any run failed.
func execute(ctx context.Context, rt *pipeline.Runtime, cfg *config.Config, sources []string) bool {
	var (
		mu     sync.Mutex
		failed bool
	)

	g := &errgroup.Group{}
	g.SetLimit(min(maxConcurrentRuns, len(sources)))

	for _, source := range sources {
		g.Go(func() error {
			req := pipeline.RunRequest{
				SourceKey:    source,
				IDColumn:     cfg.Pipeline.IDColumn,
				TextColumn:   cfg.Pipeline.TextColumn,
				Question:     cfg.Pipeline.Question,
				SystemPrompt: cfg.Pipeline.SystemPrompt,
			}

			result, err := pipeline.Execute(ctx, rt, req)
			if err != nil {
				rt.Logger.Error(
					"pipeline run failed",
					"source_key", source,
					"stage", stageOf(err),
					"error", err,
				)
				mu.Lock()
				failed = true
				mu.Unlock()
				return nil
			}

			rt.Logger.Info(
				"pipeline run succeeded",
				"source_key", source,
				"run_id", result.RunID,
				"output_key", result.OutputKey,
				"records", result.RecordCount,
			)
			return nil
		})
	}

	g.Wait()
	return failed
}

func stageOf(err error) string {
	switch {
	case errors.Is(err, pipeline.ErrConfiguration):
		return "configuration"
	case errors.Is(err, pipeline.ErrLoadFailed):
		return "load"
	case errors.Is(err, pipeline.ErrAnalysisFailed):
		return "analysis"
	case errors.Is(err, pipeline.ErrWriteFailed):
		return "write"
	default:
		return "unknown"
	}
}
