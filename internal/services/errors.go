package services

import "errors"

// Service errors
var (
	// Input errors
	ErrNoSpendData  = errors.New("no spend data provided")
	ErrInvalidInput = errors.New("invalid input")

	// Report errors
	ErrNoCurves       = errors.New("no computed curves to report")
	ErrNoReportsFound = errors.New("no reports found")

	// General errors
	ErrOperationTimeout   = errors.New("operation timed out")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
)
