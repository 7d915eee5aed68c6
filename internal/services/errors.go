package services

import "errors"

// Dashboard service errors
var (
	// ErrDatasetNotFound means no dataset file could be loaded; callers show
	// a terminal "no data" state
	ErrDatasetNotFound = errors.New("dataset not available")

	// ErrFeatureDisabled is returned by views turned off in configuration
	ErrFeatureDisabled = errors.New("feature disabled")

	// Lookup errors
	ErrBillNotFound   = errors.New("bill not found")
	ErrAuthorNotFound = errors.New("author not found")

	// ErrInvalidInput wraps malformed query input
	ErrInvalidInput = errors.New("invalid input")
)
