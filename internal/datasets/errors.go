package datasets

import "errors"

var (
	// ErrDataUnavailable indicates a dataset could not be loaded from its
	// source. Callers must fail fast, not serve partial results.
	ErrDataUnavailable = errors.New("dataset unavailable")

	// ErrNoRecords indicates a query matched no records.
	ErrNoRecords = errors.New("no matching records")
)

const (
	ErrorCodeValidation      = "validation_error"
	ErrorCodeNotFound        = "not_found"
	ErrorCodeDataUnavailable = "data_unavailable"
	ErrorCodeInternal        = "internal"
)
