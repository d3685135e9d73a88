package models

// RiskLevel is a coarse low/medium/high bucket.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// GDDDay is one day of a growing-degree-days breakdown.
type GDDDay struct {
	Date     string  `json:"date"`
	Mean     float64 `json:"mean"`
	DailyGDD float64 `json:"dailyGDD"`
}

// GDDResult is the accumulated growing degree days over a window.
type GDDResult struct {
	GDD       float64  `json:"gdd"`
	Breakdown []GDDDay `json:"breakdown"`
}

// FrostDetails carries the counts behind a frost probability.
type FrostDetails struct {
	CountCold int     `json:"countCold"`
	Total     int     `json:"total"`
	Threshold float64 `json:"threshold"`
}

// FrostRisk is the frost estimate over recent history and upcoming forecast.
type FrostRisk struct {
	Risk        RiskLevel    `json:"risk"`
	Probability float64      `json:"probability"`
	Details     FrostDetails `json:"details"`
}

// Rainfall is accumulated rain in mm for history and forecast windows.
type Rainfall struct {
	Historical float64 `json:"historical"`
	Forecast   float64 `json:"forecast"`
}

// RecentSummary averages the most recent days of history.
type RecentSummary struct {
	AvgTemp     float64 `json:"avgTemp"`
	AvgHumidity float64 `json:"avgHumidity"`
	AvgMinTemp  float64 `json:"avgMinTemp"`
}

// PestInputs are the recent conditions used for pest/disease scoring.
type PestInputs struct {
	AvgTemp          float64 `json:"avgTemp"`
	AvgHumidity      float64 `json:"avgHumidity"`
	RainAccumulation float64 `json:"rainAccumulation"`
}

// PestRisk is a 0..100 pest/disease score with its contributing reasons.
type PestRisk struct {
	Score   int       `json:"score"`
	Level   RiskLevel `json:"level"`
	Reasons []string  `json:"reasons"`
}

// AgroReport bundles every agronomic metric for one location and crop.
type AgroReport struct {
	LocationKey string            `json:"locationKey"`
	Crop        string            `json:"crop"`
	WindowDays  int               `json:"windowDays"`
	BaseTemp    float64           `json:"baseTemp"`
	HistoryDays int               `json:"historyDays"`
	GDD         *GDDResult        `json:"gdd,omitempty"`
	Frost       *FrostRisk        `json:"frost,omitempty"`
	Rainfall    *Rainfall         `json:"rainfall,omitempty"`
	Summary     *RecentSummary    `json:"summary,omitempty"`
	PestRisk    *PestRisk         `json:"pestRisk,omitempty"`
	Insights    []Insight         `json:"insights"`
	Stage       CropStage         `json:"stage"`
	Prediction  *Prediction       `json:"prediction,omitempty"`
	Errors      map[string]string `json:"errors,omitempty"`
}
