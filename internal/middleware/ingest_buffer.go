package middleware

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"AgroCast/internal/domain/models"
	domrepo "AgroCast/internal/domain/repository"
	applogger "AgroCast/pkg/logger"
)

// Proc is the minimal processor interface the buffer needs.
type Proc interface {
	Process(ctx context.Context, o *models.Observation) error
}

// IngestBuffer sits between a collector and the processor. Readings that fail
// downstream are kept in a bounded buffer and retried in the background with
// backoff. Invalid and throttled readings are never retried.
type IngestBuffer struct {
	proc       Proc
	metrics    domrepo.Metrics
	logger     *applogger.Logger
	bufSize    int
	bufCh      chan *models.Observation
	stopCh     chan struct{}
	done       chan struct{}
	backoffMin time.Duration
	backoffMax time.Duration
	mu         sync.Mutex
	started    bool
}

type BufferOption func(*IngestBuffer)

// WithBufferSize sets how many failed readings are kept for retry.
func WithBufferSize(n int) BufferOption {
	return func(b *IngestBuffer) {
		if n > 0 {
			b.bufSize = n
		}
	}
}

// WithBackoff sets the retry delay range after a failed flush.
func WithBackoff(min, max time.Duration) BufferOption {
	return func(b *IngestBuffer) {
		if min > 0 && max >= min {
			b.backoffMin = min
			b.backoffMax = max
		}
	}
}

func NewIngestBuffer(proc Proc, metrics domrepo.Metrics, logger *applogger.Logger, opts ...BufferOption) *IngestBuffer {
	b := &IngestBuffer{
		proc:       proc,
		metrics:    metrics,
		logger:     logger,
		bufSize:    1000,
		backoffMin: 50 * time.Millisecond,
		backoffMax: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = applogger.NewNop()
	}
	b.bufCh = make(chan *models.Observation, b.bufSize)
	return b
}

// Start launches the background retry loop. Calling it while running is a
// no-op; a stopped buffer can be started again.
func (b *IngestBuffer) Start(ctx context.Context) {
	b.mu.Lock()
	if b.started {
		b.mu.Unlock()
		return
	}
	b.started = true
	stopCh := make(chan struct{})
	done := make(chan struct{})
	b.stopCh, b.done = stopCh, done
	b.mu.Unlock()

	go func() {
		defer close(done)
		backoff := b.backoffMin
		for {
			select {
			case <-stopCh:
				return
			case <-ctx.Done():
				return
			case o := <-b.bufCh:
				err := b.proc.Process(ctx, o)
				if err == nil {
					backoff = b.backoffMin
					continue
				}
				if !retryable(err) {
					b.metrics.RecordError("buffer_discard")
					continue
				}
				b.metrics.RecordError("buffer_flush")
				select {
				case b.bufCh <- o:
				default:
					b.metrics.RecordError("buffer_drop")
				}
				select {
				case <-time.After(jitter(backoff)):
				case <-stopCh:
					return
				}
				if backoff *= 2; backoff > b.backoffMax {
					backoff = b.backoffMax
				}
			}
		}
	}()
}

// Stop ends the retry loop and reports how many readings were left unflushed.
func (b *IngestBuffer) Stop() int {
	b.mu.Lock()
	if !b.started {
		b.mu.Unlock()
		return len(b.bufCh)
	}
	b.started = false
	stopCh, done := b.stopCh, b.done
	b.mu.Unlock()

	close(stopCh)
	<-done
	left := len(b.bufCh)
	if left > 0 {
		b.logger.Warn("Ingest buffer stopped with pending readings", applogger.Int("pending", left))
	}
	return left
}

// Process forwards o downstream and buffers it when the failure is transient.
func (b *IngestBuffer) Process(ctx context.Context, o *models.Observation) error {
	err := b.proc.Process(ctx, o)
	if err == nil || !retryable(err) {
		return err
	}

	select {
	case b.bufCh <- o:
		b.metrics.RecordLatency("buffer_depth", float64(len(b.bufCh)))
	default:
		b.metrics.RecordError("buffer_full")
	}
	return fmt.Errorf("ingest downstream: %w", err)
}

// Len returns the number of readings waiting for retry.
func (b *IngestBuffer) Len() int { return len(b.bufCh) }

// jitter picks a delay in [d/2, d].
func jitter(d time.Duration) time.Duration {
	half := d / 2
	if half <= 0 {
		return d
	}
	return half + rand.N(half+1)
}

func retryable(err error) bool {
	return !errors.Is(err, models.ErrInvalidObservation) &&
		!errors.Is(err, models.ErrThrottled) &&
		!errors.Is(err, context.Canceled)
}
