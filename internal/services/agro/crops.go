package agro

import (
	"strings"

	"AgroCast/internal/domain/models"
)

// Built-in crops.
const (
	CropSoybean = "soybean"
	CropCotton  = "cotton"
)

var crops = map[string]models.CropConfig{
	CropSoybean: {
		Name:                CropSoybean,
		IdealTemp:           &models.Range{Min: 20, Max: 30},
		IdealHumidity:       &models.Range{Min: 50, Max: 70},
		DiseaseRiskHumidity: models.Float(80),
	},
	CropCotton: {
		Name:                CropCotton,
		IdealTemp:           &models.Range{Min: 25, Max: 35},
		IdealHumidity:       &models.Range{Min: 40, Max: 60},
		DiseaseRiskHumidity: models.Float(75),
	},
}

// LookupCrop returns the config for a crop name, falling back to soybean.
// The bool reports whether the name was known.
func LookupCrop(name string) (models.CropConfig, bool) {
	c, ok := crops[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return crops[CropSoybean], false
	}
	return c, true
}

// Crops lists the built-in crop names.
func Crops() []string {
	return []string{CropSoybean, CropCotton}
}

type stageEntry struct {
	stage      string
	localStage string
	activities []string
}

var calendar = map[string]map[int]stageEntry{
	CropSoybean: {
		6:  {"Sowing", "पेरणी", []string{"Land preparation", "Seed treatment", "Sowing"}},
		7:  {"Germination", "उगवण", []string{"Weed management", "First hoeing"}},
		8:  {"Vegetative", "वाढ", []string{"Fertilizer management", "Pest monitoring"}},
		9:  {"Flowering", "फुलोरा", []string{"Spraying", "Irrigation"}},
		10: {"Pod Filling", "शेंग भरणे", []string{"Disease monitoring", "Water management"}},
		11: {"Maturity", "परिपक्वता", []string{"Harvest preparation", "Storage arrangement"}},
	},
	CropCotton: {
		5:  {"Sowing", "पेरणी", []string{"Land preparation", "Seed treatment"}},
		6:  {"Germination", "उगवण", []string{"Thinning", "Weed control"}},
		7:  {"Vegetative", "वाढ", []string{"Fertilizer management", "Crop protection"}},
		8:  {"Flowering", "फुलोरा", []string{"Bollworm monitoring", "Irrigation"}},
		9:  {"Boll Development", "बोंड विकास", []string{"Disease control", "Nutrition"}},
		10: {"Boll Opening", "बोंड फुटणे", []string{"Picking preparation"}},
		11: {"Picking", "वेचणी", []string{"First picking", "Grading"}},
		12: {"Picking", "वेचणी", []string{"Second picking", "Storage"}},
	},
}

var offSeason = stageEntry{"Off Season", "विश्रांती काळ", []string{"Land preparation", "Plan next season"}}

// CropCalendar returns the expected stage of crop in month (1-12).
// Unknown crops and months outside a crop's season are Off Season.
func CropCalendar(crop string, month int) models.CropStage {
	name := strings.ToLower(strings.TrimSpace(crop))
	entry, ok := calendar[name][month]
	if !ok {
		entry = offSeason
	}
	activities := make([]string, len(entry.activities))
	copy(activities, entry.activities)
	return models.CropStage{
		Crop:       name,
		Month:      month,
		Stage:      entry.stage,
		LocalStage: entry.localStage,
		Activities: activities,
	}
}
