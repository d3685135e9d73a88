package repository

import (
	"context"
	"sync"
	"time"

	"AgroCast/internal/domain/models"
	drepo "AgroCast/internal/domain/repository"
	applogger "AgroCast/pkg/logger"
)

// MemoryObservationStore keeps observations in process. Used for development,
// single-node deployments and tests.
type MemoryObservationStore struct {
	mu     sync.RWMutex
	byLoc  map[string][]*models.Observation
	now    func() time.Time
	logger *applogger.Logger
}

type MemoryStoreOption func(*MemoryObservationStore)

// WithNow sets the time source used for the history cutoff.
func WithNow(now func() time.Time) MemoryStoreOption {
	return func(s *MemoryObservationStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMemoryLogger sets the logger.
func WithMemoryLogger(l *applogger.Logger) MemoryStoreOption {
	return func(s *MemoryObservationStore) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewMemoryObservationStore(opts ...MemoryStoreOption) *MemoryObservationStore {
	s := &MemoryObservationStore{
		byLoc:  make(map[string][]*models.Observation),
		now:    time.Now,
		logger: applogger.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryObservationStore) Append(_ context.Context, o *models.Observation) error {
	if o == nil || o.LocationKey == "" {
		return models.ErrInvalidObservation
	}
	cp := *o
	s.mu.Lock()
	s.byLoc[o.LocationKey] = append(s.byLoc[o.LocationKey], &cp)
	s.mu.Unlock()
	return nil
}

func (s *MemoryObservationStore) AppendBatch(ctx context.Context, obs []*models.Observation) error {
	for _, o := range obs {
		if err := s.Append(ctx, o); err != nil {
			return err
		}
	}
	return nil
}

// GetDailyStats aggregates readings taken within the last days days.
func (s *MemoryObservationStore) GetDailyStats(_ context.Context, locationKey string, days int) ([]models.DailyStat, error) {
	cutoff := s.now().AddDate(0, 0, -days)

	s.mu.RLock()
	recent := make([]*models.Observation, 0, len(s.byLoc[locationKey]))
	for _, o := range s.byLoc[locationKey] {
		if !o.Timestamp.Before(cutoff) {
			recent = append(recent, o)
		}
	}
	s.mu.RUnlock()

	stats := trimToLast(AggregateDaily(recent), days)
	s.logger.Debug("Daily stats aggregated",
		applogger.String("location", locationKey),
		applogger.Int("readings", len(recent)),
		applogger.Int("days", len(stats)),
	)
	return stats, nil
}

func (s *MemoryObservationStore) Prune(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for key, list := range s.byLoc {
		kept := list[:0]
		for _, o := range list {
			if o.Timestamp.Before(before) {
				removed++
				continue
			}
			kept = append(kept, o)
		}
		if len(kept) == 0 {
			delete(s.byLoc, key)
			continue
		}
		s.byLoc[key] = kept
	}
	return removed, nil
}

func (s *MemoryObservationStore) Health(context.Context) error { return nil }

func (s *MemoryObservationStore) Close() error { return nil }

var _ drepo.ObservationStore = (*MemoryObservationStore)(nil)
