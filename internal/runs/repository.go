package runs

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ONSdigital/survey-assist-themes/pkg/repository"
)

const projection = `
	id, source_key, status, record_count, output_key, error,
	started_at, completed_at`

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a run-history repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "runs"),
	}
}

func (r *repo) Begin(ctx context.Context, sourceKey string) (*Run, error) {
	q := `
		INSERT INTO runs(id, source_key, status)
		VALUES ($1, $2, $3)
		RETURNING` + projection

	run, err := repository.QueryOne(
		ctx, r.db, q,
		[]any{uuid.New(), sourceKey, StatusRunning},
		scanRun,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("run started", "id", run.ID, "source_key", sourceKey)
	return &run, nil
}

func (r *repo) Complete(ctx context.Context, id uuid.UUID, recordCount int, outputKey string) error {
	q := `
		UPDATE runs
		SET status = $2, record_count = $3, output_key = $4, completed_at = now()
		WHERE id = $1`

	if err := repository.ExecExpectOne(ctx, r.db, q, id, StatusCompleted, recordCount, outputKey); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("run completed", "id", id, "output_key", outputKey)
	return nil
}

func (r *repo) Fail(ctx context.Context, id uuid.UUID, cause error) error {
	message := ""
	if cause != nil {
		message = cause.Error()
	}

	q := `
		UPDATE runs
		SET status = $2, error = $3, completed_at = now()
		WHERE id = $1`

	if err := repository.ExecExpectOne(ctx, r.db, q, id, StatusFailed, message); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("run failed", "id", id, "error", message)
	return nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Run, error) {
	q := `SELECT` + projection + ` FROM runs WHERE id = $1`

	run, err := repository.QueryOne(ctx, r.db, q, []any{id}, scanRun)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &run, nil
}

func (r *repo) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit < 1 {
		limit = 20
	}

	q := `SELECT` + projection + ` FROM runs ORDER BY started_at DESC LIMIT $1`

	results, err := repository.QueryMany(ctx, r.db, q, []any{limit}, scanRun)
	if err != nil {
		return nil, fmt.Errorf("query recent runs: %w", err)
	}
	return results, nil
}

func scanRun(s repository.Scanner) (Run, error) {
	var run Run
	err := s.Scan(
		&run.ID,
		&run.SourceKey,
		&run.Status,
		&run.RecordCount,
		&run.OutputKey,
		&run.Error,
		&run.StartedAt,
		&run.CompletedAt,
	)
	return run, err
}
