// Package retry provides a sequential retry-with-backoff executor used around
// every flaky external call in the ingestion pipeline.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/SteveSant26/streamflow-music-backend/pkg/logger"
	"go.uber.org/zap"
)

// ErrRetriesExhausted wraps the last error after all attempts failed. Callers
// must treat it as "operation failed" and apply their own fallback.
var ErrRetriesExhausted = errors.New("retries exhausted")

// permanentError marks an error as non-retryable.
type permanentError struct {
	err error
}

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent wraps err so the executor stops retrying immediately. Used for
// failure classes where waiting cannot help (deleted video, region block).
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

// Config controls backoff behavior for one Executor.
type Config struct {
	MaxRetries    int           // additional attempts after the first
	BaseDelay     time.Duration // delay before the first retry
	MaxDelay      time.Duration // cap on the computed backoff
	BackoffFactor float64       // multiplier per attempt
	Jitter        bool          // multiply delay by uniform [0.5, 1.0)
}

// DefaultConfig matches the settings used across the pipeline unless a
// component overrides them.
func DefaultConfig() Config {
	return Config{
		MaxRetries:    3,
		BaseDelay:     500 * time.Millisecond,
		MaxDelay:      30 * time.Second,
		BackoffFactor: 2.0,
		Jitter:        true,
	}
}

// Executor runs operations with sequential backoff. Retries for one logical
// operation never run concurrently with themselves; different operations may
// use the same Executor in parallel (it holds no mutable state).
type Executor struct {
	cfg  Config
	name string
}

// NewExecutor creates an Executor. name is used in logs only.
func NewExecutor(name string, cfg Config) *Executor {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BackoffFactor < 1 {
		cfg.BackoffFactor = 2.0
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 500 * time.Millisecond
	}
	if cfg.MaxDelay < cfg.BaseDelay {
		cfg.MaxDelay = 30 * time.Second
	}
	return &Executor{cfg: cfg, name: name}
}

// Delay returns the backoff delay for the given zero-based attempt.
func (e *Executor) Delay(attempt int) time.Duration {
	d := float64(e.cfg.BaseDelay) * math.Pow(e.cfg.BackoffFactor, float64(attempt))
	if d > float64(e.cfg.MaxDelay) {
		d = float64(e.cfg.MaxDelay)
	}
	if e.cfg.Jitter {
		d *= 0.5 + rand.Float64()*0.5
	}
	return time.Duration(d)
}

// Run invokes op at most MaxRetries+1 times. It returns the last error
// wrapped in ErrRetriesExhausted once attempts are spent, or immediately on a
// Permanent error or context cancellation.
func (e *Executor) Run(ctx context.Context, op func(context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= e.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := e.Delay(attempt - 1)
			logger.Log.Debug("retrying operation",
				zap.String("operation", e.name),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if IsPermanent(lastErr) {
			return lastErr
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	logger.Log.Warn("operation failed after all attempts",
		zap.String("operation", e.name),
		zap.Int("attempts", e.cfg.MaxRetries+1),
		zap.Error(lastErr),
	)
	return fmt.Errorf("%w: %s: %w", ErrRetriesExhausted, e.name, lastErr)
}

// Do runs op with retries and returns its value. The zero value of T is
// returned together with the wrapped error when attempts are exhausted.
func Do[T any](ctx context.Context, e *Executor, op func(context.Context) (T, error)) (T, error) {
	var result T
	err := e.Run(ctx, func(ctx context.Context) error {
		v, err := op(ctx)
		if err != nil {
			return err
		}
		result = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
