package service

import "errors"

// Service-level sentinel errors.
var (
	ErrTooLarge       = errors.New("input exceeds configured size limit")
	ErrREDCapDisabled = errors.New("redcap client not configured")
)
