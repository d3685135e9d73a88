package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"AgroCast/internal/domain/models"
	drepo "AgroCast/internal/domain/repository"
	dsvc "AgroCast/internal/domain/service"
	pkgcache "AgroCast/pkg/cache"
	applogger "AgroCast/pkg/logger"
)

// DefaultFreshness is how long a stored prediction is served before it is recomputed.
const DefaultFreshness = 6 * time.Hour

const keyPrefix = "prediction"

// PredictionCache keeps the latest prediction per location in a pkg/cache Service.
// Freshness is judged against the prediction's createdAt using the injected clock,
// so the backend TTL only bounds storage.
type PredictionCache struct {
	backend   pkgcache.Service
	clock     dsvc.Clock
	freshness time.Duration
	logger    *applogger.Logger
}

type Option func(*PredictionCache)

// WithFreshness overrides the 6h freshness window.
func WithFreshness(d time.Duration) Option {
	return func(c *PredictionCache) {
		if d > 0 {
			c.freshness = d
		}
	}
}

// WithClock sets the clock used for freshness checks.
func WithClock(clock dsvc.Clock) Option {
	return func(c *PredictionCache) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *applogger.Logger) Option {
	return func(c *PredictionCache) {
		if l != nil {
			c.logger = l
		}
	}
}

func NewPredictionCache(backend pkgcache.Service, opts ...Option) *PredictionCache {
	c := &PredictionCache{
		backend:   backend,
		clock:     dsvc.SystemClock(time.UTC),
		freshness: DefaultFreshness,
		logger:    applogger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func cacheKey(locationKey string) string {
	return pkgcache.GenerateKey(keyPrefix, locationKey)
}

// GetCachedPrediction returns the stored prediction if it is younger than the
// freshness window. Stale entries are deleted and reported as absent.
func (c *PredictionCache) GetCachedPrediction(ctx context.Context, locationKey string) (*models.Prediction, error) {
	p, err := pkgcache.GetTyped[models.Prediction](ctx, c.backend, cacheKey(locationKey))
	if errors.Is(err, pkgcache.ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cached prediction: %w", err)
	}

	age := c.clock.Now().Sub(p.CreatedAt)
	if age >= c.freshness {
		c.logger.Debug("Stale prediction dropped",
			applogger.String("location", locationKey),
			applogger.Duration("age_ms", age),
		)
		if err := c.backend.Delete(ctx, cacheKey(locationKey)); err != nil {
			c.logger.Warn("Failed to delete stale prediction", applogger.Error(err))
		}
		return nil, nil
	}
	return &p, nil
}

// PutPrediction replaces the stored prediction for its location.
func (c *PredictionCache) PutPrediction(ctx context.Context, p *models.Prediction) error {
	if p == nil {
		return fmt.Errorf("put prediction: nil prediction")
	}
	if p.LocationKey == "" {
		return fmt.Errorf("put prediction: empty location key")
	}
	// keep the entry around a little past freshness so stale reads can be observed and evicted
	if err := c.backend.Set(ctx, cacheKey(p.LocationKey), p, 2*c.freshness); err != nil {
		return fmt.Errorf("put prediction: %w", err)
	}
	return nil
}

var _ drepo.PredictionCache = (*PredictionCache)(nil)
