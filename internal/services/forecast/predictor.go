package forecast

import (
	"time"

	"AgroCast/internal/domain/models"
	"AgroCast/pkg/util"
)

const (
	// HistoryWindowDays is how many recent daily stats feed a prediction.
	HistoryWindowDays = 30
	// MinHistory is the fewest daily stats a prediction is attempted with.
	MinHistory = 5
	// DefaultDaysAhead is the forecast horizon when none is requested.
	DefaultDaysAhead = 7

	humidityFloor = 20.0
	humidityCeil  = 100.0
)

// Predictor turns a daily-stat history into a multi-day forecast by
// extrapolating per-variable linear trends and applying monthly offsets.
type Predictor struct {
	minHistory int
	seasonal   func(month int) SeasonalFactor
}

// Option configures a Predictor.
type Option func(*Predictor)

// WithMinHistory overrides the minimum history length.
func WithMinHistory(n int) Option {
	return func(p *Predictor) {
		if n > 0 {
			p.minHistory = n
		}
	}
}

// WithSeasonal replaces the monthly offset table.
func WithSeasonal(fn func(month int) SeasonalFactor) Option {
	return func(p *Predictor) {
		if fn != nil {
			p.seasonal = fn
		}
	}
}

// NewPredictor creates a predictor with the built-in seasonal table.
func NewPredictor(opts ...Option) *Predictor {
	p := &Predictor{minHistory: MinHistory, seasonal: SeasonalFactorFor}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// MinHistory returns the configured minimum history length.
func (p *Predictor) MinHistory() int { return p.minHistory }

// Series is the numeric view of a history window after fallbacks.
type Series struct {
	Temp     []float64
	Humidity []float64
	Pressure []float64
}

// Extract applies the per-field fallbacks to every day of history.
func Extract(history []models.DailyStat) Series {
	s := Series{
		Temp:     make([]float64, len(history)),
		Humidity: make([]float64, len(history)),
		Pressure: make([]float64, len(history)),
	}
	for i, d := range history {
		s.Temp[i] = d.TrendTemp()
		s.Humidity[i] = models.Resolve(0, d.AvgHumidity)
		s.Pressure[i] = d.PressureOrStandard()
	}
	return s
}

// Forecast predicts daysAhead days following today. It returns nil when history
// is shorter than the minimum. The result carries no id, location or timestamp;
// those are stamped by the caller.
func (p *Predictor) Forecast(history []models.DailyStat, today time.Time, daysAhead int) *models.Prediction {
	n := len(history)
	if n < p.minHistory {
		return nil
	}
	if daysAhead <= 0 {
		daysAhead = DefaultDaysAhead
	}

	series := Extract(history)
	tempModel := FitSeries(series.Temp)
	humModel := FitSeries(series.Humidity)
	presModel := FitSeries(series.Pressure)

	tempStd := PopulationStdDev(series.Temp)
	humStd := PopulationStdDev(series.Humidity)
	spread := RoundHalfUp(tempStd * 0.5)

	days := make([]models.DayPrediction, 0, daysAhead)
	for i := 1; i <= daysAhead; i++ {
		date := util.AddDays(today, i)
		month := int(date.Month())
		factor := p.seasonal(month)
		x := float64(n + i - 1)

		temp := RoundHalfUp(tempModel.Predict(x) + factor.TempOffset)
		humidity := RoundHalfUp(Clamp(humModel.Predict(x)+factor.HumidityOffset, humidityFloor, humidityCeil))
		pressure := RoundHalfUp(presModel.Predict(x))

		days = append(days, models.DayPrediction{
			Date:           util.DateKey(date, nil),
			DayName:        DayName(date.Weekday()),
			Temp:           temp,
			TempMin:        temp - spread,
			TempMax:        temp + spread,
			Humidity:       humidity,
			Pressure:       pressure,
			Condition:      EstimateCondition(temp, humidity, month),
			Confidence:     Confidence(i),
			IsMLPrediction: true,
		})
	}

	return &models.Prediction{
		Predictions: days,
		Trends: models.Trends{
			Temperature: ClassifyTrend(tempModel.Slope, TempTrendThreshold),
			Humidity:    ClassifyTrend(humModel.Slope, HumidityTrendThreshold),
			Pressure:    ClassifyTrend(presModel.Slope, PressureTrendThreshold),
		},
		ModelInfo: models.ModelInfo{
			DataPoints:    n,
			TempSlope:     RoundTo(tempModel.Slope, 3),
			HumiditySlope: RoundTo(humModel.Slope, 3),
			TempStd:       RoundTo(tempStd, 2),
			HumidityStd:   RoundTo(humStd, 2),
		},
	}
}
