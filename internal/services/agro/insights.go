package agro

import (
	"fmt"
	"strings"

	"AgroCast/internal/domain/models"
	"AgroCast/internal/services/forecast"
)

const (
	highHumidityDay      = 80.0
	highHumidityDaysMax  = 3
	sprayHumidityCeiling = 70.0
	irrigationHumidity   = 50.0
	maxSprayDays         = 3
)

// Insight categories.
const (
	CategoryTemperature = "temperature"
	CategoryDisease     = "disease"
	CategoryRain        = "rain"
	CategorySpraying    = "spraying"
	CategoryIrrigation  = "irrigation"
	CategoryData        = "data"
)

// CollectingDataInsight is returned alone when there is nothing to analyse.
var CollectingDataInsight = models.Insight{
	Type:     models.InsightInfo,
	Category: CategoryData,
	Title:    "Collecting Weather Data",
	Message:  "Weather data is being collected for accurate predictions. Predictions will be available in a few days.",
	Action:   "Check back daily so data collection continues",
}

// FarmingInsights evaluates the advice rules in order against predicted days for a crop.
func FarmingInsights(days []models.DayPrediction, crop string) []models.Insight {
	if len(days) == 0 {
		return []models.Insight{CollectingDataInsight}
	}

	cfg, _ := LookupCrop(crop)
	ideal := defaultIdealTemp
	if cfg.IdealTemp != nil {
		ideal = *cfg.IdealTemp
	}
	diseaseHumidity := models.Resolve(DefaultDiseaseHumidity, cfg.DiseaseRiskHumidity)

	var sumTemp, sumHum float64
	var rainDays, humidDays int
	var sprayDates []string
	for _, d := range days {
		sumTemp += d.Temp
		sumHum += d.Humidity
		rainy := models.IsRainy(d.Condition)
		if rainy {
			rainDays++
		}
		if d.Humidity > highHumidityDay {
			humidDays++
		}
		if !rainy && d.Humidity < sprayHumidityCeiling {
			sprayDates = append(sprayDates, d.Date)
		}
	}
	n := float64(len(days))
	avgTemp := sumTemp / n
	avgHum := sumHum / n

	insights := make([]models.Insight, 0, 5)

	switch {
	case avgTemp < ideal.Min:
		action := "Use crop covers"
		if strings.EqualFold(crop, CropSoybean) {
			action = "Apply mulch and irrigate in the morning"
		}
		insights = append(insights, models.Insight{
			Type:     models.InsightWarning,
			Category: CategoryTemperature,
			Title:    "Cold Weather Alert",
			Message:  fmt.Sprintf("Average temperature of %.0f°C is below optimal. Protect your crops.", forecast.RoundHalfUp(avgTemp)),
			Action:   action,
		})
	case avgTemp > ideal.Max:
		insights = append(insights, models.Insight{
			Type:     models.InsightWarning,
			Category: CategoryTemperature,
			Title:    "Heat Wave Alert",
			Message:  fmt.Sprintf("Average temperature of %.0f°C is high. Ensure adequate irrigation.", forecast.RoundHalfUp(avgTemp)),
			Action:   "Irrigate early in the morning or in the evening",
		})
	default:
		insights = append(insights, models.Insight{
			Type:     models.InsightSuccess,
			Category: CategoryTemperature,
			Title:    "Optimal Temperature",
			Message:  fmt.Sprintf("Temperature is favorable for %s growth.", crop),
		})
	}

	if avgHum > diseaseHumidity || humidDays > highHumidityDaysMax {
		insights = append(insights, models.Insight{
			Type:     models.InsightDanger,
			Category: CategoryDisease,
			Title:    "High Disease Risk",
			Message: fmt.Sprintf("Humidity at %.0f%% with %d high-humidity days. Increased fungal disease risk.",
				forecast.RoundHalfUp(avgHum), humidDays),
			Action: "Apply a preventive fungicide spray. Increase crop inspections.",
		})
	}

	if rainDays > 0 {
		insights = append(insights, models.Insight{
			Type:     models.InsightInfo,
			Category: CategoryRain,
			Title:    "Rain Expected",
			Message:  fmt.Sprintf("Rain expected on %d of the next %d days.", rainDays, len(days)),
			Action:   "Avoid spraying. Check field drainage. Postpone harvesting.",
		})
	}

	if len(sprayDates) > 0 {
		if len(sprayDates) > maxSprayDays {
			sprayDates = sprayDates[:maxSprayDays]
		}
		insights = append(insights, models.Insight{
			Type:     models.InsightSuccess,
			Category: CategorySpraying,
			Title:    "Good Spraying Days",
			Message:  "Best days for spraying: " + strings.Join(sprayDates, ", "),
			Action:   "Spray between 7-10 AM or 4-6 PM.",
		})
	}

	if rainDays == 0 && avgHum < irrigationHumidity {
		insights = append(insights, models.Insight{
			Type:     models.InsightWarning,
			Category: CategoryIrrigation,
			Title:    "Irrigation Needed",
			Message:  "Low humidity and no rain expected. Ensure regular irrigation.",
			Action:   "Use drip or sprinkler irrigation.",
		})
	}

	return insights
}
