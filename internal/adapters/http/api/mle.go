package api

import (
	"context"
	"net/http"
)

// MLEDependencies defines the interface for maximum-likelihood fits.
type MLEDependencies interface {
	FitBernoulli(ctx context.Context, data []float64, step float64) (float64, error)
}

// MLEHandler handles maximum-likelihood requests.
type MLEHandler struct {
	deps MLEDependencies
}

// NewMLEHandler creates a new MLE handler.
func NewMLEHandler(deps MLEDependencies) *MLEHandler {
	return &MLEHandler{deps: deps}
}

type bernoulliRequest struct {
	Data     []float64 `json:"data"`
	GridStep float64   `json:"grid_step,omitempty"`
}

type bernoulliResponse struct {
	P float64 `json:"p"`
}

// HandleBernoulli handles POST /v1/mle/bernoulli requests.
func (h *MLEHandler) HandleBernoulli(w http.ResponseWriter, r *http.Request) {
	const op = "api.mle_bernoulli"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req bernoulliRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	p, err := h.deps.FitBernoulli(r.Context(), req.Data, req.GridStep)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, bernoulliResponse{P: p})
}
