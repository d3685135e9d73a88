package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AgroCast/internal/domain/models"
)

type recordingQueue struct {
	types    []string
	payloads []interface{}
	err      error
}

func (q *recordingQueue) Enqueue(_ context.Context, msgType string, payload interface{}) error {
	q.types = append(q.types, msgType)
	q.payloads = append(q.payloads, payload)
	return q.err
}

func (q *recordingQueue) EnqueueBatch(ctx context.Context, msgType string, payloads []interface{}) error {
	for _, p := range payloads {
		_ = q.Enqueue(ctx, msgType, p)
	}
	return q.err
}

func TestQueuePublisher(t *testing.T) {
	rq := &recordingQueue{}
	pub := NewQueuePublisher(rq, "observation")

	a := obsAt("2024-06-09", 9, 30, 60, "Rain")
	require.NoError(t, pub.Publish(context.Background(), a))
	require.NoError(t, pub.PublishBatch(context.Background(), []*models.Observation{a, nil, a}))
	require.NoError(t, pub.PublishBatch(context.Background(), nil))

	assert.Equal(t, []string{"observation", "observation", "observation"}, rq.types)
	assert.Same(t, a, rq.payloads[0])
	assert.NoError(t, pub.Close())
}

func TestQueuePublisher_PropagatesError(t *testing.T) {
	rq := &recordingQueue{err: errors.New("redis down")}
	pub := NewQueuePublisher(rq, "observation")
	assert.EqualError(t, pub.Publish(context.Background(), &models.Observation{}), "redis down")
}
