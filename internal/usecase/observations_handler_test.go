package usecase

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AgroCast/internal/domain/models"
	"AgroCast/internal/repository"
)

func TestObservationsHandler_Handle(t *testing.T) {
	store := repository.NewMemoryObservationStore(repository.WithNow(func() time.Time { return fixedNow }))
	m := newCountingMetrics()
	h := NewObservationsHandler("weather.observations", store, m)
	assert.Equal(t, "weather.observations", h.Topic())
	assert.Equal(t, ObservationJobType, h.Type())

	b, err := json.Marshal(models.Observation{
		ID:          "obs-1",
		LocationKey: "18.52_73.86",
		Timestamp:   fixedNow.Add(-time.Hour),
		Date:        "2024-06-10",
		Temp:        27,
		Humidity:    66,
	})
	require.NoError(t, err)
	require.NoError(t, h.Handle(context.Background(), b))
	assert.Equal(t, 1, m.ingested["consumer"])

	stats, err := store.GetDailyStats(context.Background(), "18.52_73.86", 1)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, "2024-06-10", stats[0].Date)
}

func TestObservationsHandler_Rejects(t *testing.T) {
	m := newCountingMetrics()
	h := NewObservationsHandler("t", repository.NewMemoryObservationStore(), m)

	assert.Error(t, h.Handle(context.Background(), []byte("{not json")))
	assert.Equal(t, 1, m.errors["consumer_unmarshal"])

	err := h.Handle(context.Background(), []byte(`{"id":"x","temp":20}`))
	assert.ErrorIs(t, err, models.ErrInvalidObservation)

	err = h.Handle(context.Background(), []byte(`{"id":"y","locationKey":"18.52_73.86","date":"10/06/2024"}`))
	assert.ErrorIs(t, err, models.ErrInvalidObservation)
	assert.Equal(t, 2, m.errors["consumer_invalid"])
}

func TestObservationsHandler_StoreFailure(t *testing.T) {
	broken := failingStore{repository.NewMemoryObservationStore(), errStoreDown}
	h := NewObservationsHandler("t", broken, newCountingMetrics())

	err := h.Handle(context.Background(), []byte(`{"id":"x","locationKey":"1.00_1.00","date":"2024-06-10"}`))
	assert.ErrorIs(t, err, errStoreDown)
}
