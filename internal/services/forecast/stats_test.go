package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeanAndPopulationStdDev(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 0.0, PopulationStdDev(nil))

	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.Equal(t, 5.0, Mean(values))
	// divides by n, so this is exactly 2 rather than the sample 2.138
	assert.Equal(t, 2.0, PopulationStdDev(values))
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{1, 2, 3, 4, 5}, 3)
	assert.InDeltaSlice(t, []float64{2, 3, 4}, got, 1e-9)

	short := []float64{1, 2}
	assert.Equal(t, short, MovingAverage(short, 3))
}

func TestExponentialMovingAverage(t *testing.T) {
	got := ExponentialMovingAverage([]float64{10, 20, 20}, 0.3)
	assert.InDeltaSlice(t, []float64{10, 13, 15.1}, got, 1e-9)
	assert.Empty(t, ExponentialMovingAverage(nil, 0.3))
}

func TestRoundHalfUp(t *testing.T) {
	cases := map[float64]float64{
		2.5:  3,
		2.49: 2,
		-2.5: -2,
		-2.6: -3,
		0:    0,
	}
	for in, want := range cases {
		assert.Equal(t, want, RoundHalfUp(in), "input %v", in)
	}
}

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 1.23, RoundTo(1.2345, 2))
	assert.Equal(t, 0.667, RoundTo(2.0/3.0, 3))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 20.0, Clamp(5, 20, 100))
	assert.Equal(t, 100.0, Clamp(130, 20, 100))
	assert.Equal(t, 55.0, Clamp(55, 20, 100))
}
