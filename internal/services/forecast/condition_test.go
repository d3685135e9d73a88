package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"AgroCast/internal/domain/models"
)

func TestSeasonalFactorFor(t *testing.T) {
	want := map[int]SeasonalFactor{
		1:  {-3, -10, 0.1},
		2:  {0, -15, 0.1},
		3:  {3, -10, 0.2},
		4:  {5, 0, 0.3},
		5:  {5, 10, 0.5},
		6:  {0, 30, 1.0},
		7:  {-2, 40, 1.5},
		8:  {-2, 35, 1.3},
		9:  {0, 25, 0.8},
		10: {0, 5, 0.3},
		11: {-2, -5, 0.1},
		12: {-4, -10, 0.1},
		0:  {},
		13: {},
		-1: {},
	}
	for month, f := range want {
		assert.Equal(t, f, SeasonalFactorFor(month), "month %d", month)
	}
}

func TestEstimateCondition(t *testing.T) {
	tests := []struct {
		name     string
		humidity float64
		month    int
		want     string
	}{
		{"monsoon wet", 81, 7, models.ConditionRain},
		{"monsoon humid", 75, 8, models.ConditionClouds},
		{"monsoon dry falls through", 35, 6, models.ConditionClear},
		{"winter very humid", 86, 1, models.ConditionRain},
		{"winter 81 is not rain", 81, 1, models.ConditionClouds},
		{"dry", 39, 3, models.ConditionClear},
		{"middle", 55, 11, models.ConditionClouds},
		{"boundary 70", 70, 10, models.ConditionClouds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EstimateCondition(25, tt.humidity, tt.month))
		})
	}
}

func TestClassifyTrend(t *testing.T) {
	assert.Equal(t, models.TrendRising, ClassifyTrend(0.11, TempTrendThreshold))
	assert.Equal(t, models.TrendStable, ClassifyTrend(0.1, TempTrendThreshold))
	assert.Equal(t, models.TrendFalling, ClassifyTrend(-0.6, HumidityTrendThreshold))
	assert.Equal(t, models.TrendStable, ClassifyTrend(-0.5, PressureTrendThreshold))
}

func TestConfidenceDecay(t *testing.T) {
	assert.InDelta(t, 0.82, Confidence(1), 1e-9)
	assert.InDelta(t, 0.34, Confidence(7), 1e-9)
	assert.Equal(t, 0.3, Confidence(8))
	assert.Equal(t, 0.3, Confidence(30))
}

func TestDayName(t *testing.T) {
	assert.Equal(t, "रविवार", DayName(time.Sunday))
	assert.Equal(t, "गुरुवार", DayName(time.Thursday))
	assert.Equal(t, "शनिवार", DayName(time.Saturday))
}
