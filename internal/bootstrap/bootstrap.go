// Package bootstrap waits for the database to accept queries and prepares
// the tasks table. Failures are reported, never fatal: the HTTP layer starts
// in degraded mode instead.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskboard/internal/db"
	"taskboard/internal/domain"
	"taskboard/internal/logger"
	"taskboard/internal/metrics"
	"taskboard/internal/repository"

	"github.com/sethvargo/go-retry"
)

const (
	DefaultMaxAttempts = 25
	DefaultDelay       = 15 * time.Second
	DefaultPingTimeout = 5 * time.Second
)

// ErrNotConnected is returned once every liveness attempt has failed.
var ErrNotConnected = errors.New("database not reachable")

type Options struct {
	MaxAttempts int
	Delay       time.Duration
	// PingTimeout bounds a single liveness attempt.
	PingTimeout time.Duration
}

func DefaultOptions() Options {
	return Options{
		MaxAttempts: DefaultMaxAttempts,
		Delay:       DefaultDelay,
		PingTimeout: DefaultPingTimeout,
	}
}

func (o Options) withDefaults() Options {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.Delay <= 0 {
		o.Delay = DefaultDelay
	}
	if o.PingTimeout <= 0 {
		o.PingTimeout = DefaultPingTimeout
	}
	return o
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// WaitForDatabase runs the liveness query until it succeeds or MaxAttempts
// attempts have failed, sleeping a fixed Delay between attempts.
func WaitForDatabase(ctx context.Context, p Pinger, opts Options) error {
	opts = opts.withDefaults()

	backoff := retry.WithMaxRetries(uint64(opts.MaxAttempts-1), retry.NewConstant(opts.Delay))

	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		logger.Debug("connecting to database", "attempt", attempt, "max", opts.MaxAttempts)

		pingCtx, cancel := context.WithTimeout(ctx, opts.PingTimeout)
		defer cancel()

		if err := p.Ping(pingCtx); err != nil {
			metrics.ConnectAttempts.WithLabelValues("failure").Inc()
			logger.Warn("database connection attempt failed", "attempt", attempt, "max", opts.MaxAttempts, "error", err)
			if attempt < opts.MaxAttempts {
				logger.Info("retrying database connection", "in", opts.Delay.String())
			}
			return retry.RetryableError(err)
		}

		metrics.ConnectAttempts.WithLabelValues("success").Inc()
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("waiting for database: %w", ctx.Err())
		}
		logger.Error("maximum database connection attempts reached", "attempts", attempt)
		return fmt.Errorf("%w after %d attempts: %w", ErrNotConnected, attempt, err)
	}

	logger.Info("database connection established", "attempts", attempt)
	return nil
}

// EnsureSchema creates the tasks table if needed and inserts the seed task
// when the table is empty. It is safe to run on every start.
func EnsureSchema(ctx context.Context, h db.Handle) error {
	log := logger.With("backend", h.Dialect().Name)

	if _, err := h.Exec(ctx, h.Dialect().CreateTasksTable); err != nil {
		return fmt.Errorf("creating tasks table: %w", err)
	}

	repo := repository.NewTaskRepository(h)
	n, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	if err := repo.Create(ctx, domain.SeedTask()); err != nil {
		return fmt.Errorf("inserting seed task: %w", err)
	}
	log.Info("seed task created", "title", domain.SeedTitle)
	return nil
}

// Run waits for the database and prepares the schema. It reports whether the
// database is ready; errors are logged, not returned.
func Run(ctx context.Context, h db.Handle, opts Options) bool {
	ok := run(ctx, h, opts)
	if ok {
		metrics.BootstrapSuccess.Set(1)
	} else {
		metrics.BootstrapSuccess.Set(0)
	}
	return ok
}

func run(ctx context.Context, h db.Handle, opts Options) bool {
	log := logger.With("backend", h.Dialect().Name)

	if err := WaitForDatabase(ctx, h, opts); err != nil {
		log.Error("database could not be initialized: connection failed", "error", err)
		return false
	}
	if err := EnsureSchema(ctx, h); err != nil {
		log.Error("database could not be initialized", "error", err)
		return false
	}
	log.Info("database initialized")
	return true
}
