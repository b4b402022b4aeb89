package mle

import "errors"

// Sentinel kinds for likelihood search errors.
var (
	ErrInvalidInput    = errors.New("invalid likelihood input")
	ErrDegenerateInput = errors.New("degenerate likelihood input")
	ErrInvalidGrid     = errors.New("invalid search grid")
)
