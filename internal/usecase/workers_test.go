package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AgroCast/internal/domain/models"
	"AgroCast/internal/repository"
	"AgroCast/internal/service/ratelimit"
)

type stubSource struct {
	mu    sync.Mutex
	calls int
	fail  map[float64]bool
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Current(_ context.Context, lat, lon float64) (*models.Observation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.fail[lat] {
		return nil, errors.New("upstream 503")
	}
	return &models.Observation{Lat: lat, Lon: lon, Temp: 30, Humidity: 55, Source: "stub"}, nil
}

func (s *stubSource) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

var farms = []FarmLocation{
	{Name: "Pune", Lat: puneLat, Lon: puneLon},
	{Name: "Nagpur", Lat: 21.15, Lon: 79.09},
}

func TestWeatherCollector_CollectOnce(t *testing.T) {
	store := repository.NewMemoryObservationStore(repository.WithNow(func() time.Time { return fixedNow }))
	m := newCountingMetrics()
	sink := newStoreProcessor(store, nil, m)
	src := &stubSource{fail: map[float64]bool{21.15: true}}

	c := NewWeatherCollector(src, sink, farms, time.Hour, m, nil)
	assert.Equal(t, 1, c.CollectOnce(context.Background()))
	assert.Equal(t, 2, src.count())
	assert.Equal(t, 1, m.errors["collect_fetch"])

	stats, err := store.GetDailyStats(context.Background(), "18.52_73.86", 1)
	require.NoError(t, err)
	assert.Len(t, stats, 1)
}

func TestWeatherCollector_StartPollsImmediately(t *testing.T) {
	src := &stubSource{}
	sink := newStoreProcessor(repository.NewMemoryObservationStore(), nil, newCountingMetrics())
	c := NewWeatherCollector(src, sink, farms, time.Hour, newCountingMetrics(), nil)

	require.NoError(t, c.Start(context.Background()))
	assert.Eventually(t, func() bool { return src.count() == 2 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, c.Shutdown(ctx))
}

func TestWeatherCollector_NoLocations(t *testing.T) {
	c := NewWeatherCollector(&stubSource{}, nil, nil, 0, newCountingMetrics(), nil)
	assert.NoError(t, c.Start(context.Background()))
	assert.NoError(t, c.Shutdown(context.Background()))
}

func TestRetentionWorker_RunOnce(t *testing.T) {
	store := repository.NewMemoryObservationStore()
	ctx := context.Background()
	require.NoError(t, store.Append(ctx, &models.Observation{ID: "old", LocationKey: "k", Timestamp: fixedNow.AddDate(0, 0, -120)}))
	require.NoError(t, store.Append(ctx, &models.Observation{ID: "new", LocationKey: "k", Timestamp: fixedNow.AddDate(0, 0, -1)}))

	limiter := ratelimit.NewWithClock(func() time.Time { return fixedNow })
	limiter.Allow("k", 1, 1)

	w := NewRetentionWorker(store, limiter, testClock(), 0, 0, newCountingMetrics(), nil)
	n, err := w.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

type pruneFailStore struct {
	*repository.MemoryObservationStore
}

func (pruneFailStore) Prune(context.Context, time.Time) (int64, error) { return 0, errStoreDown }

func TestRetentionWorker_PruneError(t *testing.T) {
	m := newCountingMetrics()
	w := NewRetentionWorker(pruneFailStore{repository.NewMemoryObservationStore()}, nil, testClock(), time.Hour, time.Hour, m, nil)

	_, err := w.RunOnce(context.Background())
	assert.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, 1, m.errors["retention"])

	w.Start(context.Background())
	assert.NoError(t, w.Shutdown(context.Background()))
}
