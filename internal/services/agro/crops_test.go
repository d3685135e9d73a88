package agro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupCrop(t *testing.T) {
	cotton, ok := LookupCrop(" Cotton ")
	require.True(t, ok)
	assert.Equal(t, CropCotton, cotton.Name)
	assert.Equal(t, 75.0, *cotton.DiseaseRiskHumidity)
	assert.Equal(t, 25.0, cotton.IdealTemp.Min)

	fallback, ok := LookupCrop("wheat")
	assert.False(t, ok)
	assert.Equal(t, CropSoybean, fallback.Name)
	assert.Equal(t, 80.0, *fallback.DiseaseRiskHumidity)
}

func TestCropCalendar(t *testing.T) {
	stage := CropCalendar("soybean", 9)
	assert.Equal(t, "Flowering", stage.Stage)
	assert.Equal(t, "फुलोरा", stage.LocalStage)
	assert.Equal(t, []string{"Spraying", "Irrigation"}, stage.Activities)
	assert.Equal(t, 9, stage.Month)

	picking := CropCalendar("cotton", 12)
	assert.Equal(t, "Picking", picking.Stage)
	assert.Equal(t, []string{"Second picking", "Storage"}, picking.Activities)
}

func TestCropCalendarOffSeason(t *testing.T) {
	for _, tc := range []struct {
		crop  string
		month int
	}{
		{"soybean", 2},
		{"cotton", 1},
		{"wheat", 7},
	} {
		stage := CropCalendar(tc.crop, tc.month)
		assert.Equal(t, "Off Season", stage.Stage, "%s/%d", tc.crop, tc.month)
		assert.Equal(t, "विश्रांती काळ", stage.LocalStage)
		assert.Equal(t, []string{"Land preparation", "Plan next season"}, stage.Activities)
	}
}

func TestCropCalendarReturnsCopy(t *testing.T) {
	stage := CropCalendar("cotton", 10)
	stage.Activities[0] = "changed"
	assert.Equal(t, "Picking preparation", CropCalendar("cotton", 10).Activities[0])
}
