package models

import "errors"

var (
	// ErrInvalidObservation marks a reading rejected by validation.
	ErrInvalidObservation = errors.New("invalid observation")
	// ErrThrottled marks a reading dropped by the per-location limiter.
	ErrThrottled = errors.New("observation throttled")
)
