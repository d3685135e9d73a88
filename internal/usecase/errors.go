package usecase

import "errors"

// ErrInvalidCoordinate is returned for a latitude or longitude off the globe.
var ErrInvalidCoordinate = errors.New("invalid coordinate")
