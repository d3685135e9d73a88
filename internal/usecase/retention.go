package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	drepo "AgroCast/internal/domain/repository"
	dsvc "AgroCast/internal/domain/service"
	"AgroCast/internal/service/ratelimit"
	applogger "AgroCast/pkg/logger"
)

// DefaultRetention is how long raw observations are kept.
const DefaultRetention = 90 * 24 * time.Hour

// RetentionWorker prunes old observations and idle rate limiter buckets on an interval.
type RetentionWorker struct {
	store     drepo.ObservationStore
	limiter   *ratelimit.Limiter
	clock     dsvc.Clock
	retention time.Duration
	interval  time.Duration
	metrics   drepo.Metrics
	logger    *applogger.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRetentionWorker(
	store drepo.ObservationStore,
	limiter *ratelimit.Limiter,
	clock dsvc.Clock,
	retention, interval time.Duration,
	metrics drepo.Metrics,
	logger *applogger.Logger,
) *RetentionWorker {
	if retention <= 0 {
		retention = DefaultRetention
	}
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	if logger == nil {
		logger = applogger.NewNop()
	}
	return &RetentionWorker{
		store:     store,
		limiter:   limiter,
		clock:     clock,
		retention: retention,
		interval:  interval,
		metrics:   metrics,
		logger:    logger,
	}
}

// RunOnce deletes observations older than the retention window.
func (w *RetentionWorker) RunOnce(ctx context.Context) (int64, error) {
	start := time.Now()
	cutoff := w.clock.Now().Add(-w.retention)
	n, err := w.store.Prune(ctx, cutoff)
	if err != nil {
		w.metrics.RecordError("retention")
		return 0, fmt.Errorf("retention prune: %w", err)
	}
	if w.limiter != nil {
		w.limiter.Sweep(time.Hour)
	}
	w.metrics.RecordLatency("retention", time.Since(start).Seconds())
	w.logger.Info("Retention sweep finished",
		applogger.Int64("removed", n),
		applogger.Time("cutoff", cutoff),
	)
	return n, nil
}

// Start runs a sweep on every tick until Shutdown or ctx ends.
func (w *RetentionWorker) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := w.RunOnce(ctx); err != nil {
					w.logger.Error("Retention sweep failed", applogger.Error(err))
				}
			}
		}
	}()
}

func (w *RetentionWorker) Shutdown(ctx context.Context) error {
	if w.cancel != nil {
		w.cancel()
	}
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
