package agro

import (
	"fmt"
	"math"
	"strconv"

	"AgroCast/internal/domain/models"
	"AgroCast/internal/services/forecast"
)

// Defaults applied when callers pass zero values.
const (
	DefaultBaseTemp       = 10.0
	DefaultGDDDays        = 14
	DefaultWindowDays     = 7
	DefaultFrostThreshold = 2.0
	DefaultSummaryDays    = 7

	// DefaultDiseaseHumidity is used when a crop config carries no threshold.
	DefaultDiseaseHumidity = 75.0
)

var defaultIdealTemp = models.Range{Min: 0, Max: 100}

func round2(v float64) float64 { return forecast.RoundTo(v, 2) }

func lastN(stats []models.DailyStat, n int) []models.DailyStat {
	if n < len(stats) {
		return stats[len(stats)-n:]
	}
	return stats
}

func firstN(stats []models.DailyStat, n int) []models.DailyStat {
	if n < len(stats) {
		return stats[:n]
	}
	return stats
}

// ComputeGDD accumulates growing degree days over the last days entries.
func ComputeGDD(stats []models.DailyStat, baseTemp float64, days int) models.GDDResult {
	if len(stats) == 0 || days <= 0 {
		return models.GDDResult{GDD: 0, Breakdown: []models.GDDDay{}}
	}

	slice := lastN(stats, days)
	breakdown := make([]models.GDDDay, 0, len(slice))
	total := 0.0
	for _, d := range slice {
		mean := d.MeanTemp()
		daily := round2(math.Max(0, mean-baseTemp))
		breakdown = append(breakdown, models.GDDDay{
			Date:     d.Date,
			Mean:     round2(mean),
			DailyGDD: daily,
		})
		total += daily
	}
	return models.GDDResult{GDD: round2(total), Breakdown: breakdown}
}

// EstimateFrostRisk counts cold nights in the last windowDays of history and
// the first windowDays of forecast. Days without a low are not counted.
func EstimateFrostRisk(history, forecastDays []models.DailyStat, windowDays int, threshold float64) models.FrostRisk {
	countCold, total := 0, 0

	for _, d := range lastN(history, windowDays) {
		if d.MinTemp == nil {
			continue
		}
		total++
		if *d.MinTemp <= threshold {
			countCold++
		}
	}
	for _, d := range firstN(forecastDays, windowDays) {
		low, ok := d.ForecastLow()
		if !ok {
			continue
		}
		total++
		if low <= threshold {
			countCold++
		}
	}

	probability := 0.0
	if total > 0 {
		probability = float64(countCold) / float64(total)
	}

	risk := models.RiskLow
	switch {
	case probability > 0.5:
		risk = models.RiskHigh
	case probability > 0.15:
		risk = models.RiskMedium
	}

	return models.FrostRisk{
		Risk:        risk,
		Probability: round2(probability),
		Details:     models.FrostDetails{CountCold: countCold, Total: total, Threshold: threshold},
	}
}

// RainfallAccumulation sums rain independently over recent history and upcoming forecast.
func RainfallAccumulation(history, forecastDays []models.DailyStat, windowDays int) models.Rainfall {
	hist, fut := 0.0, 0.0
	for _, d := range lastN(history, windowDays) {
		hist += d.RainAmount()
	}
	for _, d := range firstN(forecastDays, windowDays) {
		fut += d.RainAmount()
	}
	return models.Rainfall{Historical: round2(hist), Forecast: round2(fut)}
}

// ComputePestDiseaseRisk scores pest and fungal pressure from recent conditions.
// Reasons follow the order the checks run in: humidity, warm and wet, cold.
func ComputePestDiseaseRisk(crop models.CropConfig, in models.PestInputs) models.PestRisk {
	threshold := models.Resolve(DefaultDiseaseHumidity, crop.DiseaseRiskHumidity)
	ideal := defaultIdealTemp
	if crop.IdealTemp != nil {
		ideal = *crop.IdealTemp
	}

	score := 0.0
	reasons := []string{}

	excess := math.Max(0, in.AvgHumidity-threshold)
	score += math.Min(40, excess*0.8)
	if excess > 0 {
		reasons = append(reasons, fmt.Sprintf("High humidity: %s%%", formatNumber(in.AvgHumidity)))
	}

	if ideal.Contains(in.AvgTemp) && in.RainAccumulation > 5 {
		score += 30
		reasons = append(reasons, fmt.Sprintf("Warm with rain: %smm", formatNumber(in.RainAccumulation)))
	}

	if in.AvgTemp < 5 {
		score -= 10
		reasons = append(reasons, fmt.Sprintf("Low temperature: %s°C", formatNumber(in.AvgTemp)))
	}

	final := int(forecast.Clamp(forecast.RoundHalfUp(score), 0, 100))
	return models.PestRisk{Score: final, Level: PestLevel(final), Reasons: reasons}
}

// PestLevel buckets a pest score: 60 and above is high, 30 and above medium.
func PestLevel(score int) models.RiskLevel {
	switch {
	case score >= 60:
		return models.RiskHigh
	case score >= 30:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

// SummarizeRecent averages the last days entries of history.
func SummarizeRecent(history []models.DailyStat, days int) models.RecentSummary {
	slice := lastN(history, days)
	if len(slice) == 0 || days <= 0 {
		return models.RecentSummary{}
	}

	var temp, hum, low float64
	for _, d := range slice {
		temp += models.Resolve(0, d.AvgTemp)
		hum += models.Resolve(0, d.AvgHumidity)
		low += d.LowTemp()
	}
	n := float64(len(slice))
	return models.RecentSummary{
		AvgTemp:     round2(temp / n),
		AvgHumidity: round2(hum / n),
		AvgMinTemp:  round2(low / n),
	}
}

// formatNumber prints a float the shortest way, so 90 prints as "90" and 87.5 as "87.5".
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
