package repository

import (
	"context"
	"time"

	"AgroCast/internal/domain/models"
)

// ObservationStore is the append-only store of live readings, read back as daily stats.
type ObservationStore interface {
	Append(ctx context.Context, o *models.Observation) error
	AppendBatch(ctx context.Context, obs []*models.Observation) error
	// GetDailyStats returns at most days daily stats from the last days days, oldest first.
	GetDailyStats(ctx context.Context, locationKey string, days int) ([]models.DailyStat, error)
	// Prune deletes readings taken before the cutoff and reports how many went away.
	Prune(ctx context.Context, before time.Time) (int64, error)
	Health(ctx context.Context) error
	Close() error
}

// PredictionCache keeps the latest prediction per location.
// GetCachedPrediction returns nil without error when nothing fresh exists.
type PredictionCache interface {
	GetCachedPrediction(ctx context.Context, locationKey string) (*models.Prediction, error)
	PutPrediction(ctx context.Context, p *models.Prediction) error
}

// ObservationPublisher forwards readings to a message bus.
type ObservationPublisher interface {
	Publish(ctx context.Context, o *models.Observation) error
	PublishBatch(ctx context.Context, obs []*models.Observation) error
	Close() error
}

type Metrics interface {
	RecordObservation(backend string)
	RecordPrediction(outcome string)
	RecordPestScore(crop string, score float64)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
