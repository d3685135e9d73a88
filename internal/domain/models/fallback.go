package models

// FirstPresent returns the first non-nil candidate in priority order.
func FirstPresent(candidates ...*float64) (float64, bool) {
	for _, c := range candidates {
		if c != nil {
			return *c, true
		}
	}
	return 0, false
}

// Resolve returns the first non-nil candidate, or def when every candidate is absent.
func Resolve(def float64, candidates ...*float64) float64 {
	if v, ok := FirstPresent(candidates...); ok {
		return v
	}
	return def
}

// Midpoint returns (a+b)/2 when both ends are present.
func Midpoint(a, b *float64) *float64 {
	if a == nil || b == nil {
		return nil
	}
	return Float((*a + *b) / 2)
}

// Precedence rules for DailyStat fields shared by the predictor and the agro metrics.

// MeanTemp is the GDD day mean: midpoint of min/max, then avgTemp, then 0.
func (d DailyStat) MeanTemp() float64 {
	return Resolve(0, Midpoint(d.MinTemp, d.MaxTemp), d.AvgTemp)
}

// TrendTemp is the temperature fitted by the predictor: avgTemp, then the min/max midpoint, then 0.
func (d DailyStat) TrendTemp() float64 {
	return Resolve(0, d.AvgTemp, Midpoint(d.MinTemp, d.MaxTemp))
}

// LowTemp is the overnight low of a history day: minTemp, then avgTemp, then 0.
func (d DailyStat) LowTemp() float64 {
	return Resolve(0, d.MinTemp, d.AvgTemp)
}

// ForecastLow is the low of a forecast day: tempMin, then minTemp.
func (d DailyStat) ForecastLow() (float64, bool) {
	return FirstPresent(d.TempMin, d.MinTemp)
}

// RainAmount is the day's rain: totalRain, then rain, then 0.
func (d DailyStat) RainAmount() float64 {
	return Resolve(0, d.TotalRain, d.Rain)
}

// PressureOrStandard is avgPressure when positive, else the standard 1013 hPa.
func (d DailyStat) PressureOrStandard() float64 {
	if d.AvgPressure != nil && *d.AvgPressure > 0 {
		return *d.AvgPressure
	}
	return StandardPressure
}

// StandardPressure is used when a day carries no pressure reading.
const StandardPressure = 1013.0
