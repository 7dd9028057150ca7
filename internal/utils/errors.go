package utils

import "errors"

// Common application errors used across services.
var (
	// ErrFetch marks a failure of the market data source, as opposed to an empty result.
	ErrFetch = errors.New("FETCH_FAILED")
	// ErrPersistence marks a settings storage read or write failure.
	ErrPersistence = errors.New("PERSISTENCE_FAILED")
	// ErrExportURL marks an export locator that could not be built.
	ErrExportURL = errors.New("EXPORT_UNAVAILABLE")

	ErrInvalidCounty   = errors.New("INVALID_COUNTY")
	ErrInvalidCriteria = errors.New("INVALID_CRITERIA")
)
