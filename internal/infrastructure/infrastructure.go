// Package infrastructure provides core service initialization for job startup.
// It assembles the common dependencies (logging, database, storage) that the
// pipeline requires.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ONSdigital/survey-assist-themes/internal/config"
	"github.com/ONSdigital/survey-assist-themes/pkg/database"
	"github.com/ONSdigital/survey-assist-themes/pkg/lifecycle"
	"github.com/ONSdigital/survey-assist-themes/pkg/storage"
)

// Infrastructure holds the core systems the pipeline runs on: lifecycle
// coordination, logging, run-history database access, and the input and
// output blob containers.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Input     storage.System
	Output    storage.System
}

// New creates an Infrastructure from the job configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	input, err := storage.New(&cfg.Input, logger)
	if err != nil {
		return nil, fmt.Errorf("input storage init failed: %w", err)
	}

	output, err := storage.New(&cfg.Output, logger)
	if err != nil {
		return nil, fmt.Errorf("output storage init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Input:     input,
		Output:    output,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Input.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("input storage start failed: %w", err)
	}
	if err := i.Output.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("output storage start failed: %w", err)
	}
	return nil
}
