package forecast

import (
	"math"
	"time"

	"AgroCast/internal/domain/models"
)

// Trend thresholds on the fitted per-day slope.
const (
	TempTrendThreshold     = 0.1
	HumidityTrendThreshold = 0.5
	PressureTrendThreshold = 0.5
)

// EstimateCondition derives a categorical condition from predicted humidity and month.
// Monsoon months (June to September) are checked first. temp is accepted for
// parity with the other estimators but does not affect the result.
func EstimateCondition(temp, humidity float64, month int) string {
	if month >= 6 && month <= 9 {
		if humidity > 80 {
			return models.ConditionRain
		}
		if humidity > 70 {
			return models.ConditionClouds
		}
	}
	switch {
	case humidity > 85:
		return models.ConditionRain
	case humidity > 70:
		return models.ConditionClouds
	case humidity < 40:
		return models.ConditionClear
	default:
		return models.ConditionClouds
	}
}

// ClassifyTrend maps a slope to rising/falling/stable around +-threshold.
func ClassifyTrend(slope, threshold float64) models.Trend {
	switch {
	case slope > threshold:
		return models.TrendRising
	case slope < -threshold:
		return models.TrendFalling
	default:
		return models.TrendStable
	}
}

// Confidence decays by 0.08 per day ahead from 0.9 and floors at 0.3.
func Confidence(daysAhead int) float64 {
	return math.Max(MinConfidence, MaxConfidence-ConfidenceDecay*float64(daysAhead))
}

const (
	MaxConfidence   = 0.9
	MinConfidence   = 0.3
	ConfidenceDecay = 0.08
)

var marathiDays = [...]string{"रविवार", "सोमवार", "मंगळवार", "बुधवार", "गुरुवार", "शुक्रवार", "शनिवार"}

// DayName returns the Marathi weekday name.
func DayName(d time.Weekday) string {
	return marathiDays[d]
}
