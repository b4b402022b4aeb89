package survival

import "errors"

// Sentinel kinds for estimator errors.
var (
	ErrInvalidInput = errors.New("invalid survival input")
)
