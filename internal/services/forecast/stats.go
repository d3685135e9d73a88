package forecast

import "math"

// Mean returns the arithmetic mean, or 0 for an empty series.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// PopulationStdDev computes sqrt(mean((x-mean)^2)), dividing by n rather than n-1.
func PopulationStdDev(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	mean := Mean(values)
	sum2 := 0.0
	for _, v := range values {
		d := v - mean
		sum2 += d * d
	}
	return math.Sqrt(sum2 / float64(n))
}

// MovingAverage returns the trailing simple moving average. A series shorter
// than the window is returned unchanged.
func MovingAverage(data []float64, window int) []float64 {
	if window <= 0 {
		window = 3
	}
	if len(data) < window {
		return data
	}
	out := make([]float64, 0, len(data)-window+1)
	sum := 0.0
	for i, v := range data {
		sum += v
		if i >= window {
			sum -= data[i-window]
		}
		if i >= window-1 {
			out = append(out, sum/float64(window))
		}
	}
	return out
}

// ExponentialMovingAverage smooths data with factor alpha, seeded by the first value.
func ExponentialMovingAverage(data []float64, alpha float64) []float64 {
	if len(data) == 0 {
		return []float64{}
	}
	out := make([]float64, len(data))
	out[0] = data[0]
	for i := 1; i < len(data); i++ {
		out[i] = alpha*data[i] + (1-alpha)*out[i-1]
	}
	return out
}

// RoundHalfUp rounds to the nearest integer with ties going towards +Inf,
// so -2.5 becomes -2.
func RoundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

// RoundTo rounds to the given number of decimal places, ties away from zero.
func RoundTo(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
