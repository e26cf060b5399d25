// Package jobs holds the background maintenance tasks.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// DanglingOrderStore is the slice of the order store the sweep needs.
type DanglingOrderStore interface {
	CancelDanglingOrders(ctx context.Context, olderThan time.Duration) (int64, error)
}

// SweepMetrics records sweep outcomes.
type SweepMetrics interface {
	DanglingOrdersCanceledInc(count int64)
	SweepFailureInc()
}

// DanglingOrderSweep cancels pending orders that were created but never
// received items. The submission pipeline writes the order and its items in
// one transaction, so a dangling order only appears if a migration or manual
// intervention went wrong; the sweep keeps the admin list honest either way.
type DanglingOrderSweep struct {
	store       DanglingOrderStore
	graceWindow time.Duration
	metrics     SweepMetrics
	logger      *slog.Logger
}

// NewDanglingOrderSweep creates the sweep job. Orders younger than the grace
// window are never touched.
func NewDanglingOrderSweep(store DanglingOrderStore, graceWindow time.Duration, metrics SweepMetrics, logger *slog.Logger) *DanglingOrderSweep {
	if graceWindow <= 0 {
		graceWindow = time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DanglingOrderSweep{
		store:       store,
		graceWindow: graceWindow,
		metrics:     metrics,
		logger:      logger,
	}
}

// Name identifies the job in worker logs.
func (j *DanglingOrderSweep) Name() string {
	return "dangling_order_sweep"
}

// Run executes one sweep.
func (j *DanglingOrderSweep) Run(ctx context.Context) error {
	canceled, err := j.store.CancelDanglingOrders(ctx, j.graceWindow)
	if err != nil {
		if j.metrics != nil {
			j.metrics.SweepFailureInc()
		}
		return fmt.Errorf("failed to cancel dangling orders: %w", err)
	}

	if canceled > 0 {
		j.logger.Warn("canceled dangling orders", "count", canceled)
		if j.metrics != nil {
			j.metrics.DanglingOrdersCanceledInc(canceled)
		}
	}

	return nil
}
