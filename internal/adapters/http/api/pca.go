package api

import (
	"context"
	"net/http"

	"github.com/okian/biostat/internal/domain/types"
)

// PCADependencies defines the interface for principal component approximation.
type PCADependencies interface {
	Approximate(ctx context.Context, x types.Matrix, k int) (types.Matrix, error)
}

// PCAHandler handles PCA approximation requests.
type PCAHandler struct {
	deps PCADependencies
}

// NewPCAHandler creates a new PCA handler.
func NewPCAHandler(deps PCADependencies) *PCAHandler {
	return &PCAHandler{deps: deps}
}

type pcaRequest struct {
	X types.Matrix `json:"x"`
	K int          `json:"k"`
}

type pcaResponse struct {
	X types.Matrix `json:"x"`
}

// HandleApproximate handles POST /v1/pca requests.
func (h *PCAHandler) HandleApproximate(w http.ResponseWriter, r *http.Request) {
	const op = "api.pca"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req pcaRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	out, err := h.deps.Approximate(r.Context(), req.X, req.K)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, pcaResponse{X: out})
}
