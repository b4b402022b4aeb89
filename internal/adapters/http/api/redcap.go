package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/biostat/internal/adapters/redcap"
)

// REDCapDependencies defines the interface for REDCap report download.
type REDCapDependencies interface {
	FetchReport(ctx context.Context, reportID string) (*redcap.Table, error)
}

// REDCapHandler handles REDCap report requests.
type REDCapHandler struct {
	deps REDCapDependencies
}

// NewREDCapHandler creates a new REDCap handler.
func NewREDCapHandler(deps REDCapDependencies) *REDCapHandler {
	return &REDCapHandler{deps: deps}
}

type reportResponse struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// HandleGetReport handles GET /v1/redcap/reports/{id} requests.
func (h *REDCapHandler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	const op = "api.redcap_report"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/v1/redcap/reports/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	table, err := h.deps.FetchReport(r.Context(), id)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	rows := table.Rows
	if rows == nil {
		rows = [][]string{}
	}
	writeJSON(w, http.StatusOK, reportResponse{Header: table.Header, Rows: rows})
}
