package service

import (
	"context"
	"time"

	"AgroCast/internal/domain/models"
)

// WeatherSource fetches the current live reading for a coordinate.
type WeatherSource interface {
	Current(ctx context.Context, lat, lon float64) (*models.Observation, error)
	Name() string
}

// Clock supplies "now". Day enumeration and seasonal lookup depend on it.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock in the given zone.
func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return ClockFunc(func() time.Time { return time.Now().In(loc) })
}

// FixedClock always returns t. Used to make predictions reproducible.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}
