package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/okian/biostat/internal/adapters/kmplot"
	"github.com/okian/biostat/internal/domain/survival"
)

// SurvivalDependencies defines the interface for Kaplan-Meier estimation.
type SurvivalDependencies interface {
	EstimateSurvival(ctx context.Context, status, times []float64) (*survival.Curve, error)
	RenderSurvival(ctx context.Context, w io.Writer, curve *survival.Curve, format, title string) error
}

// SurvivalHandler handles survival curve requests.
type SurvivalHandler struct {
	deps SurvivalDependencies
}

// NewSurvivalHandler creates a new survival handler.
func NewSurvivalHandler(deps SurvivalDependencies) *SurvivalHandler {
	return &SurvivalHandler{deps: deps}
}

type survivalRequest struct {
	Status []float64 `json:"status"`
	Time   []float64 `json:"time"`
}

type survivalResponse struct {
	NStart int                  `json:"n_start"`
	Median *float64             `json:"median,omitempty"`
	Points []survival.TimePoint `json:"points"`
}

// HandleEstimate handles POST /v1/survival requests. With ?format=png|svg|pdf
// the curve is returned as an image instead of JSON; ?title= sets its title.
func (h *SurvivalHandler) HandleEstimate(w http.ResponseWriter, r *http.Request) {
	const op = "api.survival"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req survivalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	format := strings.ToLower(r.URL.Query().Get("format"))
	contentType := ""
	if format != "" && format != "json" {
		ct, err := kmplot.ContentType(format)
		if err != nil {
			writeDomainError(w, op, err)
			return
		}
		contentType = ct
	}

	curve, err := h.deps.EstimateSurvival(r.Context(), req.Status, req.Time)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}

	if contentType == "" {
		resp := survivalResponse{NStart: curve.NStart, Points: curve.Points}
		if m, ok := curve.Median(); ok {
			resp.Median = &m
		}
		writeJSON(w, http.StatusOK, resp)
		return
	}

	var buf bytes.Buffer
	if err := h.deps.RenderSurvival(r.Context(), &buf, curve, format, r.URL.Query().Get("title")); err != nil {
		writeDomainError(w, op, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
