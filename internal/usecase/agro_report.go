package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"AgroCast/internal/domain/models"
	drepo "AgroCast/internal/domain/repository"
	dsvc "AgroCast/internal/domain/service"
	"AgroCast/internal/services/agro"
	"AgroCast/internal/services/forecast"
	applogger "AgroCast/pkg/logger"
)

// AgroReportUseCase bundles every agronomic metric for one location and crop.
type AgroReportUseCase struct {
	store     drepo.ObservationStore
	predictor *WeatherPredictor
	clock     dsvc.Clock
	metrics   drepo.Metrics
	logger    *applogger.Logger
	timeout   time.Duration
}

func NewAgroReportUseCase(
	store drepo.ObservationStore,
	predictor *WeatherPredictor,
	clock dsvc.Clock,
	metrics drepo.Metrics,
	logger *applogger.Logger,
) *AgroReportUseCase {
	if logger == nil {
		logger = applogger.NewNop()
	}
	return &AgroReportUseCase{
		store:     store,
		predictor: predictor,
		clock:     clock,
		metrics:   metrics,
		logger:    logger,
		timeout:   10 * time.Second,
	}
}

type AgroReportParams struct {
	Lat        float64
	Lon        float64
	Crop       string
	WindowDays int
	BaseTemp   float64
}

// Report loads history and the prediction concurrently, then derives the metrics.
// A failing source is recorded in Errors and the metrics depending on it are
// computed over what is left.
func (uc *AgroReportUseCase) Report(ctx context.Context, p AgroReportParams) (*models.AgroReport, error) {
	if !drepo.IsValidCoordinate(p.Lat, p.Lon) {
		return nil, fmt.Errorf("agro report: %w", ErrInvalidCoordinate)
	}
	if p.WindowDays <= 0 {
		p.WindowDays = agro.DefaultGDDDays
	}
	cfg, _ := agro.LookupCrop(p.Crop)
	crop := cfg.Name

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	key := drepo.LocationKey(p.Lat, p.Lon)
	historyDays := forecast.HistoryWindowDays
	if p.WindowDays > historyDays {
		historyDays = p.WindowDays
	}

	res := &models.AgroReport{
		LocationKey: key,
		Crop:        crop,
		WindowDays:  p.WindowDays,
		BaseTemp:    p.BaseTemp,
		Errors:      map[string]string{},
	}

	type item struct {
		name string
		val  interface{}
		err  error
	}
	ch := make(chan item, 2)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := uc.store.GetDailyStats(ctx, key, historyDays)
		ch <- item{"history", v, err}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := uc.predictor.PredictWeather(ctx, p.Lat, p.Lon, forecast.DefaultDaysAhead)
		ch <- item{"prediction", v, err}
	}()

	go func() { wg.Wait(); close(ch) }()

	var history []models.DailyStat
	for it := range ch {
		if it.err != nil {
			uc.metrics.RecordError("agro_" + it.name)
			res.Errors[it.name] = it.err.Error()
			continue
		}
		switch it.name {
		case "history":
			history = it.val.([]models.DailyStat)
		case "prediction":
			res.Prediction = it.val.(*models.Prediction)
		}
	}

	upcoming := res.Prediction.ForecastStats()
	res.HistoryDays = len(history)

	gdd := agro.ComputeGDD(history, p.BaseTemp, p.WindowDays)
	// frost looks at most a week each way; rain and the summary follow the window
	frost := agro.EstimateFrostRisk(history, upcoming, min(p.WindowDays, agro.DefaultWindowDays), agro.DefaultFrostThreshold)
	rain := agro.RainfallAccumulation(history, upcoming, p.WindowDays)
	summary := agro.SummarizeRecent(history, p.WindowDays)
	pest := agro.ComputePestDiseaseRisk(cfg, models.PestInputs{
		AvgTemp:          summary.AvgTemp,
		AvgHumidity:      summary.AvgHumidity,
		RainAccumulation: rain.Historical,
	})

	res.GDD = &gdd
	res.Frost = &frost
	res.Rainfall = &rain
	res.Summary = &summary
	res.PestRisk = &pest
	if res.Prediction != nil {
		res.Insights = agro.FarmingInsights(res.Prediction.Predictions, crop)
	} else {
		res.Insights = agro.FarmingInsights(nil, crop)
	}
	res.Stage = agro.CropCalendar(crop, int(uc.clock.Now().Month()))

	uc.metrics.RecordPestScore(crop, float64(pest.Score))
	if len(res.Errors) == 0 {
		res.Errors = nil
	}
	uc.logger.Debug("Agro report built",
		applogger.String("location", key),
		applogger.String("crop", crop),
		applogger.Int("history_days", res.HistoryDays),
		applogger.Bool("has_prediction", res.Prediction != nil),
	)
	return res, nil
}
