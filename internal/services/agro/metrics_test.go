package agro

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"AgroCast/internal/domain/models"
)

var f = models.Float

func TestComputeGDDSingleDay(t *testing.T) {
	got := ComputeGDD([]models.DailyStat{{Date: "d1", MinTemp: f(10), MaxTemp: f(20)}}, 10, 1)
	assert.Equal(t, models.GDDResult{
		GDD:       5,
		Breakdown: []models.GDDDay{{Date: "d1", Mean: 15, DailyGDD: 5}},
	}, got)
}

func TestComputeGDDUsesLastDaysAndFallbacks(t *testing.T) {
	stats := []models.DailyStat{
		{Date: "d1", AvgTemp: f(40)},                 // outside the window
		{Date: "d2", AvgTemp: f(12.5)},               // avg fallback
		{Date: "d3", MinTemp: f(4), MaxTemp: f(8)},   // below base
		{Date: "d4", MinTemp: f(20), AvgTemp: f(30)}, // only one end, uses avg
		{Date: "d5"}, // nothing, mean 0
	}
	got := ComputeGDD(stats, 10, 4)
	assert.Equal(t, 22.5, got.GDD)
	assert.Equal(t, []models.GDDDay{
		{Date: "d2", Mean: 12.5, DailyGDD: 2.5},
		{Date: "d3", Mean: 6, DailyGDD: 0},
		{Date: "d4", Mean: 30, DailyGDD: 20},
		{Date: "d5", Mean: 0, DailyGDD: 0},
	}, got.Breakdown)
}

func TestComputeGDDEmpty(t *testing.T) {
	got := ComputeGDD(nil, DefaultBaseTemp, DefaultGDDDays)
	assert.Equal(t, 0.0, got.GDD)
	assert.NotNil(t, got.Breakdown)
	assert.Empty(t, got.Breakdown)
}

func TestEstimateFrostRiskAllColdHistory(t *testing.T) {
	history := []models.DailyStat{
		{MinTemp: f(2)}, {MinTemp: f(2)}, {MinTemp: f(2)}, {MinTemp: f(2)}, {MinTemp: f(2)},
	}
	got := EstimateFrostRisk(history, nil, 7, 2)
	assert.Equal(t, models.RiskHigh, got.Risk)
	assert.Equal(t, 1.0, got.Probability)
	assert.Equal(t, models.FrostDetails{CountCold: 5, Total: 5, Threshold: 2}, got.Details)
}

func TestEstimateFrostRiskMixed(t *testing.T) {
	history := []models.DailyStat{
		{MinTemp: f(-5)}, // dropped by the window
		{MinTemp: f(1)},
		{MinTemp: f(8)},
		{AvgTemp: f(3)}, // no minimum, not counted
	}
	forecastDays := []models.DailyStat{
		{TempMin: f(9), MinTemp: f(0)}, // tempMin wins
		{MinTemp: f(2)},
		{TempMin: f(10)},
		{TempMin: f(0)}, // outside the window
	}
	got := EstimateFrostRisk(history, forecastDays, 3, 2)
	assert.Equal(t, models.FrostDetails{CountCold: 2, Total: 5, Threshold: 2}, got.Details)
	assert.Equal(t, 0.4, got.Probability)
	assert.Equal(t, models.RiskMedium, got.Risk)
}

func TestEstimateFrostRiskNoData(t *testing.T) {
	got := EstimateFrostRisk(nil, nil, DefaultWindowDays, DefaultFrostThreshold)
	assert.Equal(t, models.RiskLow, got.Risk)
	assert.Equal(t, 0.0, got.Probability)
	assert.Equal(t, 0, got.Details.Total)
}

func TestRainfallAccumulation(t *testing.T) {
	history := []models.DailyStat{
		{TotalRain: f(100)}, // outside the window
		{TotalRain: f(1.111), Rain: f(50)},
		{Rain: f(2.2)},
		{},
	}
	forecastDays := []models.DailyStat{
		{Rain: f(4)},
		{TotalRain: f(0.5)},
		{Rain: f(9)},
	}
	got := RainfallAccumulation(history, forecastDays, 2)
	assert.Equal(t, models.Rainfall{Historical: 2.2, Forecast: 4.5}, got)

	got = RainfallAccumulation(history, forecastDays, 3)
	assert.Equal(t, models.Rainfall{Historical: 3.31, Forecast: 13.5}, got)
}

func TestComputePestDiseaseRiskLevels(t *testing.T) {
	cfg := models.CropConfig{
		IdealTemp:           &models.Range{Min: 20, Max: 30},
		DiseaseRiskHumidity: f(50),
	}
	tests := []struct {
		name  string
		in    models.PestInputs
		score int
		level models.RiskLevel
	}{
		// 37.5 * 0.8 = 30, plus 30 for warm and wet
		{"sixty is high", models.PestInputs{AvgTemp: 25, AvgHumidity: 87.5, RainAccumulation: 10}, 60, models.RiskHigh},
		// 36.25 * 0.8 = 29, plus 30
		{"fifty nine is medium", models.PestInputs{AvgTemp: 25, AvgHumidity: 86.25, RainAccumulation: 10}, 59, models.RiskMedium},
		{"thirty is medium", models.PestInputs{AvgTemp: 25, AvgHumidity: 40, RainAccumulation: 10}, 30, models.RiskMedium},
		{"twenty nine is low", models.PestInputs{AvgTemp: 35, AvgHumidity: 86.25, RainAccumulation: 10}, 29, models.RiskLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputePestDiseaseRisk(cfg, tt.in)
			assert.Equal(t, tt.score, got.Score)
			assert.Equal(t, tt.level, got.Level)
		})
	}
}

func TestComputePestDiseaseRiskReasonsInOrder(t *testing.T) {
	cfg := models.CropConfig{IdealTemp: &models.Range{Min: 0, Max: 10}, DiseaseRiskHumidity: f(80)}
	got := ComputePestDiseaseRisk(cfg, models.PestInputs{AvgTemp: 4, AvgHumidity: 90, RainAccumulation: 12.5})
	assert.Equal(t, []string{
		"High humidity: 90%",
		"Warm with rain: 12.5mm",
		"Low temperature: 4°C",
	}, got.Reasons)
	// 8 + 30 - 10
	assert.Equal(t, 28, got.Score)
}

func TestComputePestDiseaseRiskClamp(t *testing.T) {
	cold := ComputePestDiseaseRisk(models.CropConfig{IdealTemp: &models.Range{Min: 20, Max: 30}}, models.PestInputs{AvgTemp: -3, AvgHumidity: 10})
	assert.Equal(t, 0, cold.Score)
	assert.Equal(t, models.RiskLow, cold.Level)

	// humidity contribution caps at 40
	wet := ComputePestDiseaseRisk(models.CropConfig{}, models.PestInputs{AvgTemp: 25, AvgHumidity: 500, RainAccumulation: 500})
	assert.Equal(t, 70, wet.Score)
	assert.LessOrEqual(t, wet.Score, 100)
}

func TestComputePestDiseaseRiskDefaults(t *testing.T) {
	// default threshold 75, default ideal range 0..100
	got := ComputePestDiseaseRisk(models.CropConfig{}, models.PestInputs{AvgTemp: 50, AvgHumidity: 80, RainAccumulation: 6})
	assert.Equal(t, 34, got.Score)
	assert.Len(t, got.Reasons, 2)
	assert.NotNil(t, ComputePestDiseaseRisk(models.CropConfig{}, models.PestInputs{}).Reasons)
}

func TestPestLevel(t *testing.T) {
	assert.Equal(t, models.RiskHigh, PestLevel(100))
	assert.Equal(t, models.RiskHigh, PestLevel(60))
	assert.Equal(t, models.RiskMedium, PestLevel(59))
	assert.Equal(t, models.RiskMedium, PestLevel(30))
	assert.Equal(t, models.RiskLow, PestLevel(29))
	assert.Equal(t, models.RiskLow, PestLevel(0))
}

func TestSummarizeRecent(t *testing.T) {
	history := []models.DailyStat{
		{AvgTemp: f(100), AvgHumidity: f(100), MinTemp: f(100)}, // outside the window
		{AvgTemp: f(20), AvgHumidity: f(60), MinTemp: f(15)},
		{AvgTemp: f(22), AvgHumidity: f(70)},
		{MinTemp: f(10)},
	}
	got := SummarizeRecent(history, 3)
	assert.Equal(t, models.RecentSummary{AvgTemp: 14, AvgHumidity: 43.33, AvgMinTemp: 15.67}, got)
}

func TestSummarizeRecentEmpty(t *testing.T) {
	assert.Equal(t, models.RecentSummary{}, SummarizeRecent(nil, DefaultSummaryDays))
}
