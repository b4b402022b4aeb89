package api

import (
	"errors"
	"net/http"

	"github.com/okian/biostat/internal/adapters/kmplot"
	"github.com/okian/biostat/internal/adapters/redcap"
	service "github.com/okian/biostat/internal/app"
	"github.com/okian/biostat/internal/domain/mle"
	"github.com/okian/biostat/internal/domain/pca"
	"github.com/okian/biostat/internal/domain/rescale"
	"github.com/okian/biostat/internal/domain/samplesize"
	"github.com/okian/biostat/internal/domain/survival"
	"github.com/okian/biostat/internal/domain/types"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("not found")
	ErrInternal   = errors.New("internal error")
)

// opError tags an error with the failing operation and an API kind.
type opError struct {
	op   string
	kind error
	err  error
}

func (e *opError) Error() string {
	if e.err == nil {
		return e.op + ": " + e.kind.Error()
	}
	return e.op + ": " + e.err.Error()
}

func (e *opError) Unwrap() []error {
	if e.err == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.err}
}

// WrapKind tags err with op and kind. Both remain visible to errors.Is.
func WrapKind(op string, kind, err error) error {
	return &opError{op: op, kind: kind, err: err}
}

// NewKind creates an error of kind for op.
func NewKind(op string, kind error) error {
	return &opError{op: op, kind: kind}
}

// classify maps domain errors to an HTTP status, an error code and an API kind.
func classify(err error) (int, string, error) {
	switch {
	case errors.Is(err, mle.ErrDegenerateInput):
		return http.StatusBadRequest, "degenerate_input", ErrBadRequest
	case errors.Is(err, pca.ErrDimension), errors.Is(err, types.ErrDimension):
		return http.StatusBadRequest, "dimension_error", ErrBadRequest
	case errors.Is(err, service.ErrTooLarge):
		return http.StatusRequestEntityTooLarge, "too_large", ErrBadRequest
	case errors.Is(err, survival.ErrInvalidInput),
		errors.Is(err, pca.ErrInvalidInput),
		errors.Is(err, mle.ErrInvalidInput),
		errors.Is(err, mle.ErrInvalidGrid),
		errors.Is(err, samplesize.ErrInvalidInput),
		errors.Is(err, rescale.ErrInvalidInput),
		errors.Is(err, kmplot.ErrFormat),
		errors.Is(err, kmplot.ErrEmptyCurve),
		errors.Is(err, redcap.ErrInvalidRequest),
		errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "invalid_input", ErrBadRequest
	case errors.Is(err, service.ErrREDCapDisabled), errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found", ErrNotFound
	case errors.Is(err, redcap.ErrUpstream), errors.Is(err, redcap.ErrDecode):
		return http.StatusBadGateway, "upstream_error", ErrInternal
	default:
		return http.StatusInternalServerError, "internal_error", ErrInternal
	}
}
