package viewer

import "errors"

// Sentinel errors for viewer construction.
var (
	ErrInvalidZoomSteps = errors.New("invalid zoom steps")
	ErrUnknownKey       = errors.New("unknown key")
)
