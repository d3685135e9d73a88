package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateKeyUsesZone(t *testing.T) {
	// 20:00 UTC is already the next day in India.
	ts := time.Date(2024, 7, 14, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-07-14", DateKey(ts, time.UTC))
	assert.Equal(t, "2024-07-15", DateKey(ts, time.FixedZone("IST", 19800)))
}

func TestAddDaysCrossesMonth(t *testing.T) {
	ts := time.Date(2024, 1, 30, 9, 0, 0, 0, time.UTC)
	got := AddDays(ts, 3)
	assert.Equal(t, "2024-02-02", DateKey(got, nil))
	assert.Equal(t, 9, got.Hour())
}

func TestParseDate(t *testing.T) {
	got, ok := ParseDate("2024-10-01", time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.October, got.Month())

	_, ok = ParseDate("01/10/2024", time.UTC)
	assert.False(t, ok)
}

func TestLoadZoneFallback(t *testing.T) {
	loc := LoadZone("Not/AZone", 3600)
	_, off := time.Date(2024, 1, 1, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, 3600, off)
	assert.Equal(t, time.UTC, LoadZone("", 0))
}
