package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AgroCast/internal/domain/models"
)

func TestMemoryObservationStore_AppendAndDailyStats(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	s := NewMemoryObservationStore(WithNow(func() time.Time { return now }))
	ctx := context.Background()

	old := obsAt("2024-05-01", 12, 20, 50, "Clear")
	recent1 := obsAt("2024-06-08", 12, 30, 60, "Clear")
	recent2 := obsAt("2024-06-09", 12, 32, 62, "Rain")
	other := obsAt("2024-06-09", 12, 10, 10, "Snow")
	other.LocationKey = "elsewhere"

	require.NoError(t, s.AppendBatch(ctx, []*models.Observation{old, recent1, recent2, other}))

	stats, err := s.GetDailyStats(ctx, "18.52,73.86", 30)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "2024-06-08", stats[0].Date)
	assert.Equal(t, "2024-06-09", stats[1].Date)

	stats, err = s.GetDailyStats(ctx, "18.52,73.86", 1)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, "2024-06-09", stats[0].Date)
}

func TestMemoryObservationStore_AppendCopies(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	s := NewMemoryObservationStore(WithNow(func() time.Time { return now }))
	o := obsAt("2024-06-09", 12, 30, 60, "Clear")
	require.NoError(t, s.Append(context.Background(), o))
	o.Temp = 99

	stats, err := s.GetDailyStats(context.Background(), o.LocationKey, 7)
	require.NoError(t, err)
	assert.Equal(t, 30.0, *stats[0].AvgTemp)
}

func TestMemoryObservationStore_RejectsInvalid(t *testing.T) {
	s := NewMemoryObservationStore()
	assert.ErrorIs(t, s.Append(context.Background(), nil), models.ErrInvalidObservation)
	assert.ErrorIs(t, s.Append(context.Background(), &models.Observation{}), models.ErrInvalidObservation)
}

func TestMemoryObservationStore_Prune(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	s := NewMemoryObservationStore(WithNow(func() time.Time { return now }))
	ctx := context.Background()
	other := obsAt("2024-05-02", 12, 10, 10, "")
	other.LocationKey = "elsewhere"
	require.NoError(t, s.AppendBatch(ctx, []*models.Observation{
		obsAt("2024-05-01", 12, 20, 50, ""),
		obsAt("2024-06-09", 12, 30, 60, ""),
		other,
	}))

	n, err := s.Prune(ctx, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	stats, err := s.GetDailyStats(ctx, "elsewhere", 90)
	require.NoError(t, err)
	assert.Empty(t, stats)
	assert.NoError(t, s.Health(ctx))
}
