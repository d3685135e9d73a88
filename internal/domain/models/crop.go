package models

// Range is an inclusive numeric interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies within the range, bounds included.
func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

// CropConfig holds static agronomic thresholds for a crop.
// Nil pointers fall back to the scoring defaults.
type CropConfig struct {
	Name                string   `json:"name"`
	IdealTemp           *Range   `json:"idealTemp,omitempty"`
	IdealHumidity       *Range   `json:"idealHumidity,omitempty"`
	DiseaseRiskHumidity *float64 `json:"diseaseRiskHumidity,omitempty"`
}

// CropStage is the expected growth stage of a crop in a calendar month.
type CropStage struct {
	Crop       string   `json:"crop"`
	Month      int      `json:"month"`
	Stage      string   `json:"stage"`
	LocalStage string   `json:"localStage"`
	Activities []string `json:"activities"`
}

// InsightType classifies the tone of an insight.
type InsightType string

const (
	InsightInfo    InsightType = "info"
	InsightSuccess InsightType = "success"
	InsightWarning InsightType = "warning"
	InsightDanger  InsightType = "danger"
)

// Insight is a human readable farming recommendation.
type Insight struct {
	Type     InsightType `json:"type"`
	Category string      `json:"category"`
	Title    string      `json:"title"`
	Message  string      `json:"message"`
	Action   string      `json:"action,omitempty"`
}
