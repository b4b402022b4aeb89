package api

import (
	"context"
	"net/http"

	"github.com/okian/biostat/internal/domain/samplesize"
)

// SampleSizeDependencies defines the interface for sample size calculations.
type SampleSizeDependencies interface {
	SampleSize(ctx context.Context, p samplesize.Params) (samplesize.Result, error)
}

// SampleSizeHandler handles sample size requests.
type SampleSizeHandler struct {
	deps SampleSizeDependencies
}

// NewSampleSizeHandler creates a new sample size handler.
func NewSampleSizeHandler(deps SampleSizeDependencies) *SampleSizeHandler {
	return &SampleSizeHandler{deps: deps}
}

type ttestRequest struct {
	Delta  float64 `json:"delta"`
	SD     float64 `json:"sd"`
	Alpha  float64 `json:"alpha"`
	Power  float64 `json:"power"`
	Design string  `json:"design"`
	Sides  int     `json:"sides"`
}

// params fills unset fields with the conventional defaults.
func (t ttestRequest) params() samplesize.Params {
	p := samplesize.Params{
		Delta:  t.Delta,
		SD:     t.SD,
		Alpha:  t.Alpha,
		Power:  t.Power,
		Design: samplesize.Design(t.Design),
		Sides:  t.Sides,
	}
	if p.SD == 0 {
		p.SD = 1
	}
	if p.Alpha == 0 {
		p.Alpha = 0.05
	}
	if p.Power == 0 {
		p.Power = 0.8
	}
	if p.Design == "" {
		p.Design = samplesize.TwoSample
	}
	if p.Sides == 0 {
		p.Sides = 2
	}
	return p
}

// HandleTTest handles POST /v1/samplesize/ttest requests.
func (h *SampleSizeHandler) HandleTTest(w http.ResponseWriter, r *http.Request) {
	const op = "api.samplesize_ttest"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req ttestRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	res, err := h.deps.SampleSize(r.Context(), req.params())
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
