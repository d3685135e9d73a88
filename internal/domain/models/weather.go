package models

import "time"

// Observation is one live weather reading for a location.
type Observation struct {
	ID          string    `json:"id"`
	LocationKey string    `json:"locationKey"`
	Lat         float64   `json:"lat"`
	Lon         float64   `json:"lon"`
	Timestamp   time.Time `json:"timestamp"`
	Date        string    `json:"date"` // YYYY-MM-DD in the service time zone
	Temp        float64   `json:"temp"`
	Humidity    float64   `json:"humidity"`
	Pressure    *float64  `json:"pressure,omitempty"`
	WindSpeed   *float64  `json:"windSpeed,omitempty"`
	Rain        *float64  `json:"rain,omitempty"`
	Condition   string    `json:"condition,omitempty"`
	Source      string    `json:"source,omitempty"`
}

// DailyStat is one calendar day of aggregated observations or one forecast point.
// Every numeric field is optional; nil means the value was not reported.
type DailyStat struct {
	Date              string   `json:"date"`
	AvgTemp           *float64 `json:"avgTemp,omitempty"`
	MinTemp           *float64 `json:"minTemp,omitempty"`
	MaxTemp           *float64 `json:"maxTemp,omitempty"`
	TempMin           *float64 `json:"tempMin,omitempty"`
	TempMax           *float64 `json:"tempMax,omitempty"`
	AvgHumidity       *float64 `json:"avgHumidity,omitempty"`
	AvgPressure       *float64 `json:"avgPressure,omitempty"`
	AvgWindSpeed      *float64 `json:"avgWindSpeed,omitempty"`
	TotalRain         *float64 `json:"totalRain,omitempty"`
	Rain              *float64 `json:"rain,omitempty"`
	DominantCondition string   `json:"dominantCondition,omitempty"`
}

// Float returns a pointer to v. Handy for building DailyStat literals.
func Float(v float64) *float64 { return &v }
