package api

import (
	"context"
	"net/http"
)

// NamesDependencies defines the interface for column-name cleanup.
type NamesDependencies interface {
	StandardizeNames(ctx context.Context, in []string) []string
}

// NamesHandler handles name standardization requests.
type NamesHandler struct {
	deps NamesDependencies
}

// NewNamesHandler creates a new names handler.
func NewNamesHandler(deps NamesDependencies) *NamesHandler {
	return &NamesHandler{deps: deps}
}

type namesPayload struct {
	Names []string `json:"names"`
}

// HandleStandardize handles POST /v1/names/standardize requests.
func (h *NamesHandler) HandleStandardize(w http.ResponseWriter, r *http.Request) {
	const op = "api.names_standardize"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req namesPayload
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, namesPayload{Names: h.deps.StandardizeNames(r.Context(), req.Names)})
}
