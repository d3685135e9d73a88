package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"AgroCast/internal/domain/models"
	drepo "AgroCast/internal/domain/repository"
	dsvc "AgroCast/internal/domain/service"
	"AgroCast/internal/repository"
	"AgroCast/pkg/util"
)

var fixedNow = time.Date(2024, 6, 10, 9, 0, 0, 0, util.IST)

const (
	puneLat = 18.52
	puneLon = 73.86
)

func testClock() dsvc.Clock { return dsvc.FixedClock(fixedNow) }

func seededStore(days int) *repository.MemoryObservationStore {
	s := repository.NewMemoryObservationStore(repository.WithNow(func() time.Time { return fixedNow }))
	key := drepo.LocationKey(puneLat, puneLon)
	for i := days; i >= 1; i-- {
		ts := fixedNow.AddDate(0, 0, -i)
		rain := 2.0
		_ = s.Append(context.Background(), &models.Observation{
			ID:          ts.Format(time.RFC3339),
			LocationKey: key,
			Lat:         puneLat,
			Lon:         puneLon,
			Timestamp:   ts,
			Date:        util.DateKey(ts, util.IST),
			Temp:        24 + float64(days-i)*0.5,
			Humidity:    70,
			Rain:        &rain,
			Condition:   models.ConditionClouds,
		})
	}
	return s
}

type memCache struct {
	mu     sync.Mutex
	items  map[string]*models.Prediction
	getErr error
	puts   int
}

func newMemCache() *memCache { return &memCache{items: map[string]*models.Prediction{}} }

func (c *memCache) GetCachedPrediction(_ context.Context, key string) (*models.Prediction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.items[key], nil
}

func (c *memCache) PutPrediction(_ context.Context, p *models.Prediction) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.puts++
	c.items[p.LocationKey] = p
	return nil
}

type countingMetrics struct {
	mu          sync.Mutex
	predictions map[string]int
	errors      map[string]int
	ingested    map[string]int
	pestScores  map[string]float64
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{
		predictions: map[string]int{},
		errors:      map[string]int{},
		ingested:    map[string]int{},
		pestScores:  map[string]float64{},
	}
}

func (m *countingMetrics) RecordObservation(b string) {
	m.mu.Lock()
	m.ingested[b]++
	m.mu.Unlock()
}

func (m *countingMetrics) RecordPrediction(o string) {
	m.mu.Lock()
	m.predictions[o]++
	m.mu.Unlock()
}

func (m *countingMetrics) RecordPestScore(crop string, s float64) {
	m.mu.Lock()
	m.pestScores[crop] = s
	m.mu.Unlock()
}

func (m *countingMetrics) RecordError(k string) {
	m.mu.Lock()
	m.errors[k]++
	m.mu.Unlock()
}

func (m *countingMetrics) RecordLatency(string, float64) {}

type failingStore struct {
	*repository.MemoryObservationStore
	err error
}

func (s failingStore) GetDailyStats(context.Context, string, int) ([]models.DailyStat, error) {
	return nil, s.err
}

func (s failingStore) Append(context.Context, *models.Observation) error { return s.err }

var errStoreDown = errors.New("store down")
