package kmplot

import "errors"

// Sentinel kinds for rendering errors.
var (
	ErrEmptyCurve   = errors.New("survival curve has no points")
	ErrFormat       = errors.New("unsupported image format")
	ErrRenderFailed = errors.New("survival plot render failed")
)
