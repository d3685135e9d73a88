package models

import "time"

// Requests for the weather and agro HTTP endpoints. Defined in domain for consistency and reuse.

type PredictRequest struct {
	Lat  float64 `query:"lat" json:"lat" validate:"latitude"`
	Lon  float64 `query:"lon" json:"lon" validate:"longitude"`
	Days int     `query:"days" json:"days" default:"7" validate:"gte=1,lte=14"`
}

type InsightsRequest struct {
	Lat  float64 `query:"lat" json:"lat" validate:"latitude"`
	Lon  float64 `query:"lon" json:"lon" validate:"longitude"`
	Days int     `query:"days" json:"days" default:"7" validate:"gte=1,lte=14"`
	Crop string  `query:"crop" json:"crop" default:"soybean" validate:"max=32"`
}

type HistoryRequest struct {
	Lat  float64 `query:"lat" json:"lat" validate:"latitude"`
	Lon  float64 `query:"lon" json:"lon" validate:"longitude"`
	Days int     `query:"days" json:"days" default:"30" validate:"gte=1,lte=90"`
}

type ReportRequest struct {
	Lat      float64  `query:"lat" json:"lat" validate:"latitude"`
	Lon      float64  `query:"lon" json:"lon" validate:"longitude"`
	Crop     string   `query:"crop" json:"crop" default:"soybean" validate:"max=32"`
	Window   int      `query:"window" json:"window" default:"14" validate:"gte=1,lte=90"`
	BaseTemp *float64 `query:"base_temp" json:"baseTemp" default:"10"`
}

type GDDRequest struct {
	Stats    []DailyStat `json:"stats" validate:"max=366"`
	BaseTemp *float64    `json:"baseTemp" default:"10"`
	Days     int         `json:"days" default:"14" validate:"gte=1,lte=366"`
}

type FrostRequest struct {
	History    []DailyStat `json:"history" validate:"max=366"`
	Forecast   []DailyStat `json:"forecast" validate:"max=366"`
	WindowDays int         `json:"windowDays" default:"7" validate:"gte=1,lte=90"`
	Threshold  *float64    `json:"threshold" default:"2"`
}

type RainfallRequest struct {
	History    []DailyStat `json:"history" validate:"max=366"`
	Forecast   []DailyStat `json:"forecast" validate:"max=366"`
	WindowDays int         `json:"windowDays" default:"7" validate:"gte=1,lte=90"`
}

type PestRiskRequest struct {
	Crop                string   `json:"crop" default:"soybean" validate:"max=32"`
	IdealTemp           *Range   `json:"idealTemp"`
	DiseaseRiskHumidity *float64 `json:"diseaseRiskHumidity"`
	AvgTemp             float64  `json:"avgTemp"`
	AvgHumidity         float64  `json:"avgHumidity" validate:"gte=0"`
	RainAccumulation    float64  `json:"rainAccumulation" validate:"gte=0"`
}

type SummaryRequest struct {
	History []DailyStat `json:"history" validate:"max=366"`
	Days    int         `json:"days" default:"7" validate:"gte=1,lte=366"`
}

type CalendarRequest struct {
	Crop  string `query:"crop" json:"crop" default:"soybean" validate:"max=32"`
	Month int    `query:"month" json:"month" validate:"gte=0,lte=12"`
}

type ObservationRequest struct {
	Lat       float64    `json:"lat" validate:"latitude"`
	Lon       float64    `json:"lon" validate:"longitude"`
	Temp      float64    `json:"temp" validate:"gte=-60,lte=60"`
	Humidity  float64    `json:"humidity" validate:"gte=0,lte=100"`
	Pressure  *float64   `json:"pressure" validate:"omitempty,gt=0"`
	WindSpeed *float64   `json:"windSpeed" validate:"omitempty,gte=0"`
	Rain      *float64   `json:"rain" validate:"omitempty,gte=0"`
	Condition string     `json:"condition" validate:"max=32"`
	Timestamp *time.Time `json:"timestamp"`
}

type ObservationBatchRequest struct {
	Observations []ObservationRequest `json:"observations" validate:"required,min=1,max=500,dive"`
}

// SmoothRequest asks for the moving average and EMA of a series.
type SmoothRequest struct {
	Series []float64 `json:"series" validate:"required,max=366"`
	Window int       `json:"window" default:"3" validate:"gte=1,lte=30"`
	Alpha  *float64  `json:"alpha" default:"0.3" validate:"omitempty,gt=0,lte=1"`
}

type SmoothResponse struct {
	MovingAverage []float64 `json:"movingAverage"`
	EMA           []float64 `json:"ema"`
}

// ToObservation maps the request onto a domain observation.
func (r *ObservationRequest) ToObservation() *Observation {
	o := &Observation{
		Lat:       r.Lat,
		Lon:       r.Lon,
		Temp:      r.Temp,
		Humidity:  r.Humidity,
		Pressure:  r.Pressure,
		WindSpeed: r.WindSpeed,
		Rain:      r.Rain,
		Condition: r.Condition,
		Source:    "api",
	}
	if r.Timestamp != nil {
		o.Timestamp = *r.Timestamp
	}
	return o
}

// PredictionResponse distinguishes "no prediction yet" from an error.
type PredictionResponse struct {
	Available  bool        `json:"available"`
	Prediction *Prediction `json:"prediction,omitempty"`
}
