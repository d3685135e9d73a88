package models

import "time"

// Trend is a qualitative direction of a fitted variable.
type Trend string

const (
	TrendRising  Trend = "rising"
	TrendFalling Trend = "falling"
	TrendStable  Trend = "stable"
)

// Weather conditions produced or understood by the predictor.
const (
	ConditionClear        = "Clear"
	ConditionClouds       = "Clouds"
	ConditionRain         = "Rain"
	ConditionDrizzle      = "Drizzle"
	ConditionThunderstorm = "Thunderstorm"
)

// IsRainy reports whether a condition counts as a rain day.
func IsRainy(condition string) bool {
	switch condition {
	case ConditionRain, ConditionDrizzle, ConditionThunderstorm:
		return true
	default:
		return false
	}
}

// DayPrediction is a single predicted day.
type DayPrediction struct {
	Date           string  `json:"date"`
	DayName        string  `json:"dayName"`
	Temp           float64 `json:"temp"`
	TempMin        float64 `json:"tempMin"`
	TempMax        float64 `json:"tempMax"`
	Humidity       float64 `json:"humidity"`
	Pressure       float64 `json:"pressure"`
	Condition      string  `json:"condition"`
	Confidence     float64 `json:"confidence"`
	IsMLPrediction bool    `json:"isMLPrediction"`
}

// AsDailyStat exposes a predicted day with forecast field names so it can be
// fed to the agronomic metrics as a forecast series.
func (d DayPrediction) AsDailyStat() DailyStat {
	return DailyStat{
		Date:              d.Date,
		AvgTemp:           Float(d.Temp),
		TempMin:           Float(d.TempMin),
		TempMax:           Float(d.TempMax),
		AvgHumidity:       Float(d.Humidity),
		AvgPressure:       Float(d.Pressure),
		DominantCondition: d.Condition,
	}
}

// Trends groups the per-variable trend classification.
type Trends struct {
	Temperature Trend `json:"temperature"`
	Humidity    Trend `json:"humidity"`
	Pressure    Trend `json:"pressure"`
}

// ModelInfo describes the fitted models behind a prediction.
type ModelInfo struct {
	DataPoints    int     `json:"dataPoints"`
	TempSlope     float64 `json:"tempSlope"`
	HumiditySlope float64 `json:"humiditySlope"`
	TempStd       float64 `json:"tempStd"`
	HumidityStd   float64 `json:"humidityStd"`
}

// Prediction is the predictor output for one location.
type Prediction struct {
	ID          string          `json:"id"`
	LocationKey string          `json:"locationKey"`
	Lat         float64         `json:"lat"`
	Lon         float64         `json:"lon"`
	Predictions []DayPrediction `json:"predictions"`
	Trends      Trends          `json:"trends"`
	ModelInfo   ModelInfo       `json:"modelInfo"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ForecastStats converts the predicted days into a forecast DailyStat series.
func (p *Prediction) ForecastStats() []DailyStat {
	if p == nil {
		return nil
	}
	out := make([]DailyStat, 0, len(p.Predictions))
	for _, d := range p.Predictions {
		out = append(out, d.AsDailyStat())
	}
	return out
}
