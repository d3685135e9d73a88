package agro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AgroCast/internal/domain/models"
)

func day(date string, temp, humidity float64, condition string) models.DayPrediction {
	return models.DayPrediction{Date: date, Temp: temp, Humidity: humidity, Condition: condition}
}

func titles(in []models.Insight) []string {
	out := make([]string, 0, len(in))
	for _, i := range in {
		out = append(out, i.Title)
	}
	return out
}

func TestFarmingInsightsEmpty(t *testing.T) {
	got := FarmingInsights(nil, "soybean")
	require.Len(t, got, 1)
	assert.Equal(t, models.InsightInfo, got[0].Type)
	assert.Equal(t, CategoryData, got[0].Category)
	assert.Equal(t, "Collecting Weather Data", got[0].Title)
}

func TestFarmingInsightsOptimalAndSpraying(t *testing.T) {
	days := []models.DayPrediction{
		day("2024-10-01", 25, 60, models.ConditionClouds),
		day("2024-10-02", 26, 55, models.ConditionClear),
		day("2024-10-03", 24, 65, models.ConditionClouds),
		day("2024-10-04", 25, 50, models.ConditionClear),
	}
	got := FarmingInsights(days, "soybean")
	assert.Equal(t, []string{"Optimal Temperature", "Good Spraying Days"}, titles(got))
	assert.Equal(t, "Temperature is favorable for soybean growth.", got[0].Message)
	assert.Equal(t, models.InsightSuccess, got[0].Type)
	assert.Equal(t, "Best days for spraying: 2024-10-01, 2024-10-02, 2024-10-03", got[1].Message)
}

func TestFarmingInsightsMonsoonDisease(t *testing.T) {
	days := []models.DayPrediction{
		day("2024-07-01", 26, 90, models.ConditionRain),
		day("2024-07-02", 26, 85, models.ConditionRain),
		day("2024-07-03", 26, 82, models.ConditionClouds),
		day("2024-07-04", 26, 81, models.ConditionClouds),
	}
	got := FarmingInsights(days, "soybean")
	require.Equal(t, []string{"Optimal Temperature", "High Disease Risk", "Rain Expected"}, titles(got))
	assert.Equal(t, models.InsightDanger, got[1].Type)
	assert.Equal(t, "Humidity at 85% with 4 high-humidity days. Increased fungal disease risk.", got[1].Message)
	assert.Equal(t, "Rain expected on 2 of the next 4 days.", got[2].Message)
}

func TestFarmingInsightsDiseaseByHumidDayCount(t *testing.T) {
	// cotton threshold is 75; average stays below it but four days exceed 80
	days := []models.DayPrediction{
		day("d1", 30, 81, models.ConditionClouds),
		day("d2", 30, 81, models.ConditionClouds),
		day("d3", 30, 81, models.ConditionClouds),
		day("d4", 30, 81, models.ConditionClouds),
		day("d5", 30, 20, models.ConditionClear),
		day("d6", 30, 20, models.ConditionClear),
	}
	got := FarmingInsights(days, "cotton")
	assert.Contains(t, titles(got), "High Disease Risk")
}

func TestFarmingInsightsColdByCrop(t *testing.T) {
	days := []models.DayPrediction{day("d1", 12, 60, models.ConditionClouds)}

	soy := FarmingInsights(days, "soybean")
	assert.Equal(t, "Cold Weather Alert", soy[0].Title)
	assert.Equal(t, "Average temperature of 12°C is below optimal. Protect your crops.", soy[0].Message)
	assert.Equal(t, "Apply mulch and irrigate in the morning", soy[0].Action)

	cotton := FarmingInsights(days, "cotton")
	assert.Equal(t, "Use crop covers", cotton[0].Action)
}

func TestFarmingInsightsHeatAndIrrigation(t *testing.T) {
	days := []models.DayPrediction{
		day("d1", 38, 30, models.ConditionClear),
		day("d2", 39, 35, models.ConditionClear),
	}
	got := FarmingInsights(days, "cotton")
	require.Equal(t, []string{"Heat Wave Alert", "Good Spraying Days", "Irrigation Needed"}, titles(got))
	assert.Equal(t, "Average temperature of 39°C is high. Ensure adequate irrigation.", got[0].Message)
	assert.Equal(t, models.InsightWarning, got[2].Type)
}

func TestFarmingInsightsNoIrrigationWhenRainy(t *testing.T) {
	days := []models.DayPrediction{
		day("d1", 25, 30, models.ConditionDrizzle),
		day("d2", 25, 30, models.ConditionClear),
	}
	got := FarmingInsights(days, "soybean")
	assert.NotContains(t, titles(got), "Irrigation Needed")
	assert.Contains(t, titles(got), "Rain Expected")
}

func TestFarmingInsightsUnknownCropUsesSoybean(t *testing.T) {
	days := []models.DayPrediction{day("d1", 25, 60, models.ConditionClouds)}
	got := FarmingInsights(days, "wheat")
	assert.Equal(t, "Optimal Temperature", got[0].Title)
	assert.Equal(t, "Temperature is favorable for wheat growth.", got[0].Message)
}
