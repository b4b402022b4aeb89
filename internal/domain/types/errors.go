package types

import "errors"

// ErrDimension reports an empty or ragged matrix.
var ErrDimension = errors.New("matrix dimension mismatch")
