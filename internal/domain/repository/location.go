package repository

import (
	"fmt"
	"strconv"
	"strings"
)

// LocationKey buckets coordinates to 2 decimals (about 1.1 km), so nearby
// requests share one history and one cached prediction.
func LocationKey(lat, lon float64) string {
	return fmt.Sprintf("%.2f_%.2f", lat, lon)
}

// ParseLocationKey returns the bucket centre encoded in a key.
func ParseLocationKey(key string) (lat, lon float64, err error) {
	parts := strings.Split(key, "_")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("location key %q: want lat_lon", key)
	}
	if lat, err = strconv.ParseFloat(parts[0], 64); err != nil {
		return 0, 0, fmt.Errorf("location key %q: lat: %w", key, err)
	}
	if lon, err = strconv.ParseFloat(parts[1], 64); err != nil {
		return 0, 0, fmt.Errorf("location key %q: lon: %w", key, err)
	}
	return lat, lon, nil
}

// IsValidCoordinate reports whether lat/lon are on the globe.
func IsValidCoordinate(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
