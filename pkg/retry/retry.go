// Package retry provides a generic exponential-backoff executor for
// fallible operations.
package retry

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Operation is a fallible unit of work executed under a retry budget.
// The result type is opaque to the executor.
type Operation[T any] func(ctx context.Context) (T, error)

// Config controls the backoff schedule for Do.
type Config struct {
	// MaxAttempts is the total number of attempts, including the first. Must be >= 1.
	MaxAttempts int
	// InitialDelay is the wait before the first retry. Must be > 0.
	InitialDelay time.Duration
	// BackoffFactor multiplies the delay after each failed attempt. Must be >= 1.
	BackoffFactor float64

	// Retryable reports whether an error should consume a retry. A nil
	// Retryable treats every error as retryable. Errors it rejects
	// propagate immediately without consuming the budget.
	Retryable func(error) bool

	// Wait overrides the backoff wait between attempts. A nil Wait performs
	// a cooperative wait that honours context cancellation. Tests inject a
	// recorder here.
	Wait func(ctx context.Context, d time.Duration) error

	// Logger receives per-attempt warnings. Nil disables attempt logging.
	Logger *slog.Logger
}

// Validate checks the backoff parameters.
func (c *Config) Validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be >= 1, got %d", c.MaxAttempts)
	}
	if c.InitialDelay <= 0 {
		return fmt.Errorf("initial_delay must be > 0, got %v", c.InitialDelay)
	}
	if c.BackoffFactor < 1 {
		return fmt.Errorf("backoff_factor must be >= 1, got %v", c.BackoffFactor)
	}
	return nil
}

// Do runs op under the configured retry budget. Attempts are strictly
// sequential. A success on any attempt returns immediately. A failure the
// Retryable filter rejects propagates immediately. After the final failed
// attempt the last error is returned unwrapped; nothing is swallowed.
func Do[T any](ctx context.Context, cfg Config, op Operation[T]) (T, error) {
	var zero T

	if err := cfg.Validate(); err != nil {
		return zero, fmt.Errorf("retry config: %w", err)
	}

	wait := cfg.Wait
	if wait == nil {
		wait = defaultWait
	}

	delay := cfg.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}

		if cfg.Retryable != nil && !cfg.Retryable(err) {
			return zero, err
		}

		lastErr = err
		if attempt == cfg.MaxAttempts {
			if cfg.Logger != nil {
				cfg.Logger.Error(
					"operation failed, retries exhausted",
					"attempts", cfg.MaxAttempts,
					"error", err,
				)
			}
			break
		}

		if cfg.Logger != nil {
			cfg.Logger.Warn(
				"operation failed, retrying",
				"attempt", attempt,
				"max_attempts", cfg.MaxAttempts,
				"delay", delay,
				"error", err,
			)
		}

		if err := wait(ctx, delay); err != nil {
			return zero, err
		}

		delay = time.Duration(float64(delay) * cfg.BackoffFactor)
	}

	return zero, lastErr
}

func defaultWait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
