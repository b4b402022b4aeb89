package pca

import "errors"

// Sentinel kinds for approximation errors.
var (
	ErrDimension    = errors.New("component count out of range")
	ErrInvalidInput = errors.New("invalid matrix input")
)
