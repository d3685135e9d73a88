package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AgroCast/internal/domain/models"
	dsvc "AgroCast/internal/domain/service"
	pkgcache "AgroCast/pkg/cache"
)

type movableClock struct{ t time.Time }

func (c *movableClock) Now() time.Time { return c.t }

func newCache(clock dsvc.Clock) (*PredictionCache, *pkgcache.MemoryCache) {
	backend := pkgcache.NewMemoryCache(pkgcache.WithMemoryCleanup(0))
	return NewPredictionCache(backend, WithClock(clock)), backend
}

func samplePrediction(created time.Time) *models.Prediction {
	return &models.Prediction{
		ID:          "p-1",
		LocationKey: "18.52_73.86",
		Lat:         18.52,
		Lon:         73.86,
		Predictions: []models.DayPrediction{{Date: "2024-07-02", Temp: 27, Humidity: 88, Condition: models.ConditionRain, Confidence: 0.82, IsMLPrediction: true}},
		Trends:      models.Trends{Temperature: models.TrendStable, Humidity: models.TrendRising, Pressure: models.TrendStable},
		CreatedAt:   created,
	}
}

func TestPredictionCacheMiss(t *testing.T) {
	c, _ := newCache(&movableClock{t: time.Now()})
	got, err := c.GetCachedPrediction(context.Background(), "0.00_0.00")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPredictionCacheFreshRoundTrip(t *testing.T) {
	created := time.Date(2024, 7, 1, 6, 0, 0, 0, time.UTC)
	clock := &movableClock{t: created.Add(5*time.Hour + 59*time.Minute)}
	c, _ := newCache(clock)
	ctx := context.Background()

	want := samplePrediction(created)
	require.NoError(t, c.PutPrediction(ctx, want))

	got, err := c.GetCachedPrediction(ctx, want.LocationKey)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.Predictions, got.Predictions)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
}

func TestPredictionCacheStaleIsAbsentAndEvicted(t *testing.T) {
	created := time.Date(2024, 7, 1, 6, 0, 0, 0, time.UTC)
	clock := &movableClock{t: created.Add(6 * time.Hour)}
	c, backend := newCache(clock)
	ctx := context.Background()

	require.NoError(t, c.PutPrediction(ctx, samplePrediction(created)))

	got, err := c.GetCachedPrediction(ctx, "18.52_73.86")
	require.NoError(t, err)
	assert.Nil(t, got)

	ok, _ := backend.Exists(ctx, cacheKey("18.52_73.86"))
	assert.False(t, ok)
}

func TestPredictionCacheRejectsBadInput(t *testing.T) {
	c, _ := newCache(&movableClock{t: time.Now()})
	assert.Error(t, c.PutPrediction(context.Background(), nil))
	assert.Error(t, c.PutPrediction(context.Background(), &models.Prediction{}))
}

func TestPredictionCacheCustomFreshness(t *testing.T) {
	created := time.Date(2024, 7, 1, 6, 0, 0, 0, time.UTC)
	clock := &movableClock{t: created.Add(90 * time.Minute)}
	backend := pkgcache.NewMemoryCache(pkgcache.WithMemoryCleanup(0))
	c := NewPredictionCache(backend, WithClock(clock), WithFreshness(time.Hour))
	ctx := context.Background()

	require.NoError(t, c.PutPrediction(ctx, samplePrediction(created)))
	got, err := c.GetCachedPrediction(ctx, "18.52_73.86")
	require.NoError(t, err)
	assert.Nil(t, got)
}
