package portfolio

import "errors"

// Sentinel errors for portfolio operations.
var (
	ErrNotFound       = errors.New("portfolio data not found")
	ErrNilPortfolio   = errors.New("portfolio cannot be nil")
	ErrMissingField   = errors.New("required field missing")
	ErrFieldTooLong   = errors.New("field exceeds maximum length")
	ErrInvalidLevel   = errors.New("invalid skill level")
	ErrInvalidValue   = errors.New("invalid value")
	ErrStoreParse     = errors.New("failed to parse portfolio store")
	ErrEmptyStorePath = errors.New("store path cannot be empty")
)
