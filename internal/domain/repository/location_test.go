package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationKeyBucketsNearbyPoints(t *testing.T) {
	assert.Equal(t, "18.52_73.86", LocationKey(18.5204, 73.8567))
	assert.Equal(t, LocationKey(18.5204, 73.8567), LocationKey(18.5211, 73.8559))
	assert.NotEqual(t, LocationKey(18.52, 73.85), LocationKey(18.53, 73.85))
}

func TestParseLocationKey(t *testing.T) {
	lat, lon, err := ParseLocationKey("19.08_72.88")
	require.NoError(t, err)
	assert.InDelta(t, 19.08, lat, 1e-9)
	assert.InDelta(t, 72.88, lon, 1e-9)

	_, _, err = ParseLocationKey("garbage")
	assert.Error(t, err)
	_, _, err = ParseLocationKey("x_1")
	assert.Error(t, err)
}

func TestIsValidCoordinate(t *testing.T) {
	assert.True(t, IsValidCoordinate(0, 0))
	assert.True(t, IsValidCoordinate(-90, 180))
	assert.False(t, IsValidCoordinate(91, 0))
	assert.False(t, IsValidCoordinate(0, -181))
}
