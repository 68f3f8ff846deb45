package sponge

import "errors"

var (
	ErrInvalidLevel       = errors.New("level must be non-negative")
	ErrLevelTooDeep       = errors.New("level exceeds configured ceiling")
	ErrInvalidFrameCount  = errors.New("frame count must be positive")
	ErrUnknownMethod      = errors.New("method must be either 'integer' or 'rational'")
	ErrMissingResolution  = errors.New("rational method requires a resolution")
	ErrInvalidResolution  = errors.New("resolution must be at least 2")
	ErrCoordinate         = errors.New("coordinate must be an exact rational in [0,1]")
	ErrInvalidDenominator = errors.New("denominator bound must be at least 1")
	ErrSliceIndex         = errors.New("slice index out of range")
)
