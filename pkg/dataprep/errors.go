package dataprep

import "errors"

var (
	// ErrNotFitted is returned by Transform before Fit.
	ErrNotFitted = errors.New("dataprep: transformer is not fitted")
	// ErrShape is returned when the column count differs from the one seen at Fit.
	ErrShape = errors.New("dataprep: column count mismatch")
	// ErrAllMissing is returned when a column has no observed value to learn from.
	ErrAllMissing = errors.New("dataprep: column has no observed values")
	// ErrUnknownCategory is returned for a category not seen at Fit.
	ErrUnknownCategory = errors.New("dataprep: unknown category")
	// ErrUnknownStrategy is returned for an unsupported imputation strategy.
	ErrUnknownStrategy = errors.New("dataprep: unknown strategy")
)
