// Package worker runs periodic background jobs.
package worker

import (
	"context"
	"log/slog"
	"time"
)

// Job is a unit of periodic work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Worker runs a set of jobs on a fixed interval until its context is
// canceled. Jobs run sequentially; a failing job is logged and does not stop
// the others.
type Worker struct {
	interval time.Duration
	jobs     []Job
	logger   *slog.Logger
}

// New creates a worker.
func New(interval time.Duration, logger *slog.Logger, jobs ...Job) *Worker {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		interval: interval,
		jobs:     jobs,
		logger:   logger,
	}
}

// Start blocks, running all jobs every interval, and returns when the
// context is canceled. The first run happens after one interval, not
// immediately, so a crash-looping process does not hammer the database.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("worker starting",
		"interval", w.interval,
		"jobs", len(w.jobs),
	)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker shutting down")
			return ctx.Err()
		case <-ticker.C:
			w.runAll(ctx)
		}
	}
}

func (w *Worker) runAll(ctx context.Context) {
	for _, job := range w.jobs {
		start := time.Now()
		if err := job.Run(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			w.logger.Error("job failed",
				"job", job.Name(),
				"error", err,
				"duration", time.Since(start),
			)
			continue
		}
		w.logger.Debug("job finished",
			"job", job.Name(),
			"duration", time.Since(start),
		)
	}
}
