package forecast

// TrendModel is a fitted straight line y = Slope*x + Intercept.
type TrendModel struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// Fit runs ordinary least squares over paired xs/ys of equal length.
// A zero denominator (all x equal, or n <= 1) yields a flat line through mean(y).
// An empty input yields the zero model.
func Fit(xs, ys []float64) TrendModel {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	if n == 0 {
		return TrendModel{}
	}

	var sumX, sumY, sumXY, sumX2 float64
	for i := 0; i < n; i++ {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumX2 += xs[i] * xs[i]
	}

	fn := float64(n)
	den := fn*sumX2 - sumX*sumX
	if den == 0 {
		return TrendModel{Slope: 0, Intercept: sumY / fn}
	}
	slope := (fn*sumXY - sumX*sumY) / den
	return TrendModel{Slope: slope, Intercept: (sumY - slope*sumX) / fn}
}

// FitSeries fits ys against their index 0..n-1.
func FitSeries(ys []float64) TrendModel {
	xs := make([]float64, len(ys))
	for i := range xs {
		xs[i] = float64(i)
	}
	return Fit(xs, ys)
}

// Predict evaluates the line at x.
func (m TrendModel) Predict(x float64) float64 {
	return m.Slope*x + m.Intercept
}
