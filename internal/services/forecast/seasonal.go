package forecast

// SeasonalFactor is the fixed monthly correction for a monsoon dominated
// climate (Maharashtra growing seasons).
type SeasonalFactor struct {
	TempOffset         float64 `json:"temp"`
	HumidityOffset     float64 `json:"humidity"`
	RainfallMultiplier float64 `json:"rainfall"`
}

var seasonalFactors = map[int]SeasonalFactor{
	// rabi winter
	1: {-3, -10, 0.1},
	2: {0, -15, 0.1},
	// pre-monsoon
	3: {3, -10, 0.2},
	4: {5, 0, 0.3},
	5: {5, 10, 0.5},
	// kharif monsoon
	6: {0, 30, 1.0},
	7: {-2, 40, 1.5},
	8: {-2, 35, 1.3},
	9: {0, 25, 0.8},
	// post-monsoon
	10: {0, 5, 0.3},
	11: {-2, -5, 0.1},
	12: {-4, -10, 0.1},
}

// SeasonalFactorFor returns the correction for a calendar month (1-12).
// Unknown months are neutral.
func SeasonalFactorFor(month int) SeasonalFactor {
	if f, ok := seasonalFactors[month]; ok {
		return f
	}
	return SeasonalFactor{}
}
