package api

import (
	"context"
	"math"
	"net/http"
)

// RescaleDependencies defines the interface for scale reversal.
type RescaleDependencies interface {
	ReverseScale(ctx context.Context, x []float64, min, max float64) ([]float64, error)
}

// RescaleHandler handles scale reversal requests.
type RescaleHandler struct {
	deps RescaleDependencies
}

// NewRescaleHandler creates a new rescale handler.
func NewRescaleHandler(deps RescaleDependencies) *RescaleHandler {
	return &RescaleHandler{deps: deps}
}

// Missing responses travel as JSON null.
type reverseRequest struct {
	X   []*float64 `json:"x"`
	Min float64    `json:"min"`
	Max float64    `json:"max"`
}

type reverseResponse struct {
	X []*float64 `json:"x"`
}

// HandleReverse handles POST /v1/rescale/reverse requests.
func (h *RescaleHandler) HandleReverse(w http.ResponseWriter, r *http.Request) {
	const op = "api.rescale_reverse"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req reverseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	x := make([]float64, len(req.X))
	for i, v := range req.X {
		if v == nil {
			x[i] = math.NaN()
			continue
		}
		x[i] = *v
	}
	out, err := h.deps.ReverseScale(r.Context(), x, req.Min, req.Max)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}

	resp := reverseResponse{X: make([]*float64, len(out))}
	for i := range out {
		if !math.IsNaN(out[i]) {
			resp.X[i] = &out[i]
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
