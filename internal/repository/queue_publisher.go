package repository

import (
	"context"

	"AgroCast/internal/domain/models"
	drepo "AgroCast/internal/domain/repository"
)

type enqueuer interface {
	Enqueue(ctx context.Context, msgType string, payload interface{}) error
	EnqueueBatch(ctx context.Context, msgType string, payloads []interface{}) error
}

// QueuePublisher pushes observations onto the Redis job queue.
// The queue itself is stopped by the application, not by Close.
type QueuePublisher struct {
	q       enqueuer
	msgType string
}

func NewQueuePublisher(q enqueuer, msgType string) *QueuePublisher {
	return &QueuePublisher{q: q, msgType: msgType}
}

func (p *QueuePublisher) Publish(ctx context.Context, o *models.Observation) error {
	return p.q.Enqueue(ctx, p.msgType, o)
}

func (p *QueuePublisher) PublishBatch(ctx context.Context, obs []*models.Observation) error {
	payloads := make([]interface{}, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			payloads = append(payloads, o)
		}
	}
	if len(payloads) == 0 {
		return nil
	}
	return p.q.EnqueueBatch(ctx, p.msgType, payloads)
}

func (p *QueuePublisher) Close() error { return nil }

var _ drepo.ObservationPublisher = (*QueuePublisher)(nil)
