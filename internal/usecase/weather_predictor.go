package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"AgroCast/internal/domain/models"
	drepo "AgroCast/internal/domain/repository"
	dsvc "AgroCast/internal/domain/service"
	"AgroCast/internal/services/agro"
	"AgroCast/internal/services/forecast"
	applogger "AgroCast/pkg/logger"
)

// Prediction outcomes reported to metrics.
const (
	OutcomeCache        = "cache"
	OutcomeComputed     = "computed"
	OutcomeInsufficient = "insufficient"
)

// WeatherPredictor serves predictions for a coordinate: cached when fresh,
// otherwise fitted from the stored daily history.
type WeatherPredictor struct {
	store       drepo.ObservationStore
	cache       drepo.PredictionCache
	predictor   *forecast.Predictor
	clock       dsvc.Clock
	metrics     drepo.Metrics
	logger      *applogger.Logger
	historyDays int
}

// NewWeatherPredictor wires the predictor. cache may be nil.
func NewWeatherPredictor(
	store drepo.ObservationStore,
	cache drepo.PredictionCache,
	predictor *forecast.Predictor,
	clock dsvc.Clock,
	metrics drepo.Metrics,
	logger *applogger.Logger,
) *WeatherPredictor {
	if logger == nil {
		logger = applogger.NewNop()
	}
	return &WeatherPredictor{
		store:       store,
		cache:       cache,
		predictor:   predictor,
		clock:       clock,
		metrics:     metrics,
		logger:      logger,
		historyDays: forecast.HistoryWindowDays,
	}
}

// PredictWeather returns nil without error when the location does not have
// enough history yet.
func (uc *WeatherPredictor) PredictWeather(ctx context.Context, lat, lon float64, daysAhead int) (*models.Prediction, error) {
	if !drepo.IsValidCoordinate(lat, lon) {
		return nil, fmt.Errorf("predict weather: %w", ErrInvalidCoordinate)
	}
	if daysAhead <= 0 {
		daysAhead = forecast.DefaultDaysAhead
	}
	key := drepo.LocationKey(lat, lon)
	start := time.Now()

	if uc.cache != nil {
		cached, err := uc.cache.GetCachedPrediction(ctx, key)
		if err != nil {
			// a broken cache must not block predictions
			uc.metrics.RecordError("prediction_cache_get")
			uc.logger.Warn("Prediction cache read failed", applogger.Error(err), applogger.String("location", key))
		} else if cached != nil {
			uc.metrics.RecordPrediction(OutcomeCache)
			return cached, nil
		}
	}

	history, err := uc.store.GetDailyStats(ctx, key, uc.historyDays)
	if err != nil {
		uc.metrics.RecordError("history")
		return nil, fmt.Errorf("predict weather: load history: %w", err)
	}

	now := uc.clock.Now()
	pred := uc.predictor.Forecast(history, now, daysAhead)
	if pred == nil {
		uc.metrics.RecordPrediction(OutcomeInsufficient)
		uc.logger.Debug("Not enough history to predict",
			applogger.String("location", key),
			applogger.Int("days", len(history)),
			applogger.Int("required", uc.predictor.MinHistory()),
		)
		return nil, nil
	}

	pred.ID = uuid.NewString()
	pred.LocationKey = key
	pred.Lat = lat
	pred.Lon = lon
	pred.CreatedAt = now

	if uc.cache != nil {
		if err := uc.cache.PutPrediction(ctx, pred); err != nil {
			uc.metrics.RecordError("prediction_cache_put")
			uc.logger.Warn("Prediction cache write failed", applogger.Error(err), applogger.String("location", key))
		}
	}

	uc.metrics.RecordPrediction(OutcomeComputed)
	uc.metrics.RecordLatency("predict", time.Since(start).Seconds())
	uc.logger.Info("Prediction computed",
		applogger.String("location", key),
		applogger.Int("history_days", len(history)),
		applogger.Int("days_ahead", daysAhead),
	)
	return pred, nil
}

// History returns up to days daily stats for a coordinate, oldest first.
func (uc *WeatherPredictor) History(ctx context.Context, lat, lon float64, days int) ([]models.DailyStat, error) {
	if !drepo.IsValidCoordinate(lat, lon) {
		return nil, fmt.Errorf("history: %w", ErrInvalidCoordinate)
	}
	if days <= 0 {
		days = uc.historyDays
	}
	stats, err := uc.store.GetDailyStats(ctx, drepo.LocationKey(lat, lon), days)
	if err != nil {
		uc.metrics.RecordError("history")
		return nil, fmt.Errorf("history: %w", err)
	}
	if stats == nil {
		stats = []models.DailyStat{}
	}
	return stats, nil
}

// Insights turns the prediction for a coordinate into farming advice.
// Without a prediction the collecting-data notice is returned.
func (uc *WeatherPredictor) Insights(ctx context.Context, lat, lon float64, daysAhead int, crop string) ([]models.Insight, *models.Prediction, error) {
	pred, err := uc.PredictWeather(ctx, lat, lon, daysAhead)
	if err != nil {
		return nil, nil, err
	}
	if pred == nil {
		return agro.FarmingInsights(nil, crop), nil, nil
	}
	return agro.FarmingInsights(pred.Predictions, crop), pred, nil
}
