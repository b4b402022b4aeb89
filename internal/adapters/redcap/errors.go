package redcap

import "errors"

// Sentinel kinds for REDCap errors.
var (
	ErrInvalidRequest = errors.New("invalid redcap request")
	ErrUpstream       = errors.New("redcap upstream error")
	ErrDecode         = errors.New("redcap response decode failed")
	ErrColumnNotFound = errors.New("column not found")
)
