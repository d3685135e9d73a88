package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AgroCast/internal/repository"
	"AgroCast/internal/services/forecast"
)

func TestAgroReport_FullReport(t *testing.T) {
	store := seededStore(10)
	m := newCountingMetrics()
	predictor := NewWeatherPredictor(store, nil, forecast.NewPredictor(), testClock(), m, nil)
	uc := NewAgroReportUseCase(store, predictor, testClock(), m, nil)

	rep, err := uc.Report(context.Background(), AgroReportParams{
		Lat: puneLat, Lon: puneLon, Crop: "Cotton", WindowDays: 5, BaseTemp: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, "cotton", rep.Crop)
	assert.Equal(t, 10, rep.HistoryDays)
	assert.Nil(t, rep.Errors)
	require.NotNil(t, rep.Prediction)
	require.NotNil(t, rep.GDD)
	assert.Len(t, rep.GDD.Breakdown, 5)
	require.NotNil(t, rep.Rainfall)
	assert.Equal(t, 10.0, rep.Rainfall.Historical)
	require.NotNil(t, rep.PestRisk)
	assert.Equal(t, 6, rep.Stage.Month)
	assert.NotEmpty(t, rep.Insights)
	assert.Contains(t, m.pestScores, "cotton")
}

func TestAgroReport_WindowDrivesRainAndSummary(t *testing.T) {
	store := seededStore(20)
	m := newCountingMetrics()
	predictor := NewWeatherPredictor(store, nil, forecast.NewPredictor(), testClock(), m, nil)
	uc := NewAgroReportUseCase(store, predictor, testClock(), m, nil)

	rep, err := uc.Report(context.Background(), AgroReportParams{
		Lat: puneLat, Lon: puneLon, Crop: "soybean", WindowDays: 14, BaseTemp: 10,
	})
	require.NoError(t, err)
	assert.Len(t, rep.GDD.Breakdown, 14)
	assert.Equal(t, 28.0, rep.Rainfall.Historical)
	// last 14 days run 27.0 .. 33.5 in half-degree steps
	assert.Equal(t, 30.25, rep.Summary.AvgTemp)
	assert.Equal(t, 70.0, rep.Summary.AvgHumidity)
	// frost stays capped at a week of history plus a week of forecast
	require.NotNil(t, rep.Prediction)
	assert.Equal(t, 14, rep.Frost.Details.Total)
}

func TestAgroReport_UnknownCropUsesDefault(t *testing.T) {
	store := seededStore(10)
	predictor := NewWeatherPredictor(store, nil, forecast.NewPredictor(), testClock(), newCountingMetrics(), nil)
	uc := NewAgroReportUseCase(store, predictor, testClock(), newCountingMetrics(), nil)

	rep, err := uc.Report(context.Background(), AgroReportParams{Lat: puneLat, Lon: puneLon, Crop: "banana", BaseTemp: 10})
	require.NoError(t, err)
	assert.Equal(t, "soybean", rep.Crop)
	assert.Equal(t, 14, rep.WindowDays)
}

func TestAgroReport_DegradesOnStoreFailure(t *testing.T) {
	broken := failingStore{repository.NewMemoryObservationStore(), errStoreDown}
	m := newCountingMetrics()
	predictor := NewWeatherPredictor(broken, nil, forecast.NewPredictor(), testClock(), m, nil)
	uc := NewAgroReportUseCase(broken, predictor, testClock(), m, nil)

	rep, err := uc.Report(context.Background(), AgroReportParams{Lat: puneLat, Lon: puneLon, Crop: "wheat", BaseTemp: 5})
	require.NoError(t, err)
	assert.Contains(t, rep.Errors, "history")
	assert.Contains(t, rep.Errors, "prediction")
	assert.Nil(t, rep.Prediction)
	assert.Zero(t, rep.HistoryDays)
	assert.Equal(t, 0.0, rep.GDD.GDD)
	assert.Equal(t, 1, m.errors["agro_history"])
}

func TestAgroReport_InvalidCoordinate(t *testing.T) {
	uc := NewAgroReportUseCase(seededStore(1), nil, testClock(), newCountingMetrics(), nil)
	_, err := uc.Report(context.Background(), AgroReportParams{Lat: 0, Lon: 200})
	assert.ErrorIs(t, err, ErrInvalidCoordinate)
}
