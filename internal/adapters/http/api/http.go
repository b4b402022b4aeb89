// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 32 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	SurvivalDependencies
	PCADependencies
	MLEDependencies
	SampleSizeDependencies
	RescaleDependencies
	NamesDependencies
	REDCapDependencies
}

// Server wires HTTP routes for the analysis API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	survivalHandler   *SurvivalHandler
	pcaHandler        *PCAHandler
	mleHandler        *MLEHandler
	sampleSizeHandler *SampleSizeHandler
	rescaleHandler    *RescaleHandler
	namesHandler      *NamesHandler
	redcapHandler     *REDCapHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		survivalHandler:   NewSurvivalHandler(deps),
		pcaHandler:        NewPCAHandler(deps),
		mleHandler:        NewMLEHandler(deps),
		sampleSizeHandler: NewSampleSizeHandler(deps),
		rescaleHandler:    NewRescaleHandler(deps),
		namesHandler:      NewNamesHandler(deps),
		redcapHandler:     NewREDCapHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/v1/survival", MetricsMiddleware(s.survivalHandler.HandleEstimate, "survival"))
	mux.HandleFunc("/v1/pca", MetricsMiddleware(s.pcaHandler.HandleApproximate, "pca"))
	mux.HandleFunc("/v1/mle/bernoulli", MetricsMiddleware(s.mleHandler.HandleBernoulli, "mle_bernoulli"))
	mux.HandleFunc("/v1/samplesize/ttest", MetricsMiddleware(s.sampleSizeHandler.HandleTTest, "samplesize_ttest"))
	mux.HandleFunc("/v1/rescale/reverse", MetricsMiddleware(s.rescaleHandler.HandleReverse, "rescale_reverse"))
	mux.HandleFunc("/v1/names/standardize", MetricsMiddleware(s.namesHandler.HandleStandardize, "names_standardize"))
	mux.HandleFunc("/v1/redcap/reports/", MetricsMiddleware(s.redcapHandler.HandleGetReport, "redcap_report"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError classifies err and writes the matching status and code.
func writeDomainError(w http.ResponseWriter, op string, err error) {
	status, code, kind := classify(err)
	writeError(w, status, code, WrapKind(op, kind, err))
}

// decodeJSON reads a JSON body into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}
