package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"AgroCast/internal/domain/models"
	drepo "AgroCast/internal/domain/repository"
	dsvc "AgroCast/internal/domain/service"
	"AgroCast/internal/services/agro"
	"AgroCast/internal/services/forecast"
	"AgroCast/internal/usecase"
	xhttp "AgroCast/pkg/http"
	xlogger "AgroCast/pkg/logger"
)

// Ingester accepts readings one at a time or in batches.
type Ingester interface {
	Process(ctx context.Context, o *models.Observation) error
	ProcessBatch(ctx context.Context, obs []*models.Observation) (int, error)
}

// WeatherEchoHandler serves the prediction, agronomic metrics and ingest endpoints.
type WeatherEchoHandler struct {
	logger    *xlogger.Logger
	predictor *usecase.WeatherPredictor
	reports   *usecase.AgroReportUseCase
	ingest    Ingester
	store     drepo.ObservationStore
	clock     dsvc.Clock
}

func NewWeatherEchoHandler(
	logger *xlogger.Logger,
	predictor *usecase.WeatherPredictor,
	reports *usecase.AgroReportUseCase,
	ingest Ingester,
	store drepo.ObservationStore,
	clock dsvc.Clock,
) *WeatherEchoHandler {
	if logger == nil {
		logger = xlogger.NewNop()
	}
	return &WeatherEchoHandler{
		logger:    logger,
		predictor: predictor,
		reports:   reports,
		ingest:    ingest,
		store:     store,
		clock:     clock,
	}
}

func (h *WeatherEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/health", h.Health)

	w := g.Group("/weather")
	w.GET("/predict", h.Predict)
	w.GET("/insights", h.Insights)
	w.GET("/history", h.History)
	w.POST("/smooth", h.Smooth)

	a := g.Group("/agro")
	a.GET("/report", h.Report)
	a.POST("/gdd", h.GDD)
	a.POST("/frost", h.Frost)
	a.POST("/rainfall", h.Rainfall)
	a.POST("/pest-risk", h.PestRisk)
	a.POST("/summary", h.Summary)

	g.GET("/crops", h.Crops)
	g.GET("/crops/calendar", h.Calendar)
	g.POST("/observations", h.Observe)
	g.POST("/observations/batch", h.ObserveBatch)
}

func (h *WeatherEchoHandler) Predict(c echo.Context) error {
	req := &models.PredictRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	pred, err := h.predictor.PredictWeather(c.Request().Context(), req.Lat, req.Lon, req.Days)
	if err != nil {
		h.logger.Error("predict usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=300")
	return xhttp.SuccessResponse(c, models.PredictionResponse{Available: pred != nil, Prediction: pred})
}

func (h *WeatherEchoHandler) Insights(c echo.Context) error {
	req := &models.InsightsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	insights, pred, err := h.predictor.Insights(c.Request().Context(), req.Lat, req.Lon, req.Days, req.Crop)
	if err != nil {
		h.logger.Error("insights usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"insights":  insights,
		"available": pred != nil,
	})
}

func (h *WeatherEchoHandler) History(c echo.Context) error {
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	stats, err := h.predictor.History(c.Request().Context(), req.Lat, req.Lon, req.Days)
	if err != nil {
		h.logger.Error("history usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, stats)
}

func (h *WeatherEchoHandler) Report(c echo.Context) error {
	req := &models.ReportRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.reports.Report(c.Request().Context(), usecase.AgroReportParams{
		Lat:        req.Lat,
		Lon:        req.Lon,
		Crop:       req.Crop,
		WindowDays: req.Window,
		BaseTemp:   models.Resolve(agro.DefaultBaseTemp, req.BaseTemp),
	})
	if err != nil {
		h.logger.Error("report usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *WeatherEchoHandler) GDD(c echo.Context) error {
	req := &models.GDDRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	base := models.Resolve(agro.DefaultBaseTemp, req.BaseTemp)
	return xhttp.SuccessResponse(c, agro.ComputeGDD(req.Stats, base, req.Days))
}

func (h *WeatherEchoHandler) Frost(c echo.Context) error {
	req := &models.FrostRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	threshold := models.Resolve(agro.DefaultFrostThreshold, req.Threshold)
	return xhttp.SuccessResponse(c, agro.EstimateFrostRisk(req.History, req.Forecast, req.WindowDays, threshold))
}

func (h *WeatherEchoHandler) Rainfall(c echo.Context) error {
	req := &models.RainfallRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return xhttp.SuccessResponse(c, agro.RainfallAccumulation(req.History, req.Forecast, req.WindowDays))
}

func (h *WeatherEchoHandler) PestRisk(c echo.Context) error {
	req := &models.PestRiskRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	cfg, _ := agro.LookupCrop(req.Crop)
	if req.IdealTemp != nil {
		cfg.IdealTemp = req.IdealTemp
	}
	if req.DiseaseRiskHumidity != nil {
		cfg.DiseaseRiskHumidity = req.DiseaseRiskHumidity
	}
	return xhttp.SuccessResponse(c, agro.ComputePestDiseaseRisk(cfg, models.PestInputs{
		AvgTemp:          req.AvgTemp,
		AvgHumidity:      req.AvgHumidity,
		RainAccumulation: req.RainAccumulation,
	}))
}

func (h *WeatherEchoHandler) Summary(c echo.Context) error {
	req := &models.SummaryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return xhttp.SuccessResponse(c, agro.SummarizeRecent(req.History, req.Days))
}

func (h *WeatherEchoHandler) Smooth(c echo.Context) error {
	req := &models.SmoothRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return xhttp.SuccessResponse(c, models.SmoothResponse{
		MovingAverage: forecast.MovingAverage(req.Series, req.Window),
		EMA:           forecast.ExponentialMovingAverage(req.Series, *req.Alpha),
	})
}

func (h *WeatherEchoHandler) Crops(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string][]string{"crops": agro.Crops()})
}

// Calendar defaults to the current month when month is omitted.
func (h *WeatherEchoHandler) Calendar(c echo.Context) error {
	req := &models.CalendarRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	month := req.Month
	if month == 0 {
		month = int(h.clock.Now().Month())
	}
	return xhttp.SuccessResponse(c, agro.CropCalendar(req.Crop, month))
}

func (h *WeatherEchoHandler) Observe(c echo.Context) error {
	req := &models.ObservationRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	o := req.ToObservation()
	if err := h.ingest.Process(c.Request().Context(), o); err != nil {
		h.logger.Warn("observation not ingested", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.AcceptedResponse(c, map[string]string{
		"id":          o.ID,
		"locationKey": o.LocationKey,
		"date":        o.Date,
	})
}

// ObserveBatch skips invalid and throttled readings and reports how many went through.
func (h *WeatherEchoHandler) ObserveBatch(c echo.Context) error {
	req := &models.ObservationBatchRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	obs := make([]*models.Observation, 0, len(req.Observations))
	for i := range req.Observations {
		obs = append(obs, req.Observations[i].ToObservation())
	}
	accepted, err := h.ingest.ProcessBatch(c.Request().Context(), obs)
	if err != nil {
		h.logger.Warn("observation batch not ingested", xlogger.Error(err), xlogger.Int("size", len(obs)))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.AcceptedResponse(c, map[string]int{
		"accepted": accepted,
		"rejected": len(obs) - accepted,
	})
}

func (h *WeatherEchoHandler) Health(c echo.Context) error {
	if err := h.store.Health(c.Request().Context()); err != nil {
		h.logger.Error("store health check failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.ServiceUnavailableError("store unavailable").WithError(err))
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

func toAppError(err error) error {
	var appErr *xhttp.AppError
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, usecase.ErrInvalidCoordinate):
		return xhttp.NewAppError("ERR_COORDINATE", "lat", "invalid coordinate", http.StatusBadRequest).WithError(err)
	case errors.Is(err, models.ErrInvalidObservation):
		return xhttp.BadRequestError(err.Error()).WithError(err)
	case errors.Is(err, models.ErrThrottled):
		return xhttp.TooManyRequestsError("too many readings for this location").WithError(err)
	default:
		return xhttp.ServiceUnavailableError("weather data temporarily unavailable").WithError(err)
	}
}
