// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/biostat/internal/adapters/kmplot"
	"github.com/okian/biostat/internal/adapters/redcap"
	"github.com/okian/biostat/internal/domain/mle"
	"github.com/okian/biostat/internal/domain/names"
	"github.com/okian/biostat/internal/domain/pca"
	"github.com/okian/biostat/internal/domain/rescale"
	"github.com/okian/biostat/internal/domain/samplesize"
	"github.com/okian/biostat/internal/domain/survival"
	"github.com/okian/biostat/internal/domain/types"
	"github.com/okian/biostat/pkg/logger"
	"github.com/okian/biostat/pkg/metrics"
)

// Analysis names used for logging, metrics and stats.
const (
	AnalysisSurvival   = "survival"
	AnalysisPlot       = "plot"
	AnalysisPCA        = "pca"
	AnalysisMLE        = "mle"
	AnalysisSampleSize = "samplesize"
	AnalysisRescale    = "rescale"
	AnalysisNames      = "names"
	AnalysisREDCap     = "redcap"
)

var analyses = []string{
	AnalysisSurvival, AnalysisPlot, AnalysisPCA, AnalysisMLE,
	AnalysisSampleSize, AnalysisRescale, AnalysisNames, AnalysisREDCap,
}

type counters struct {
	calls  atomic.Int64
	errors atomic.Int64
}

// Service runs the statistical analyses behind the HTTP API and CLI.
type Service struct {
	mu sync.RWMutex

	// Configuration
	gridStep        float64
	plotWidth       float64
	plotHeight      float64
	maxObservations int
	reporter        redcap.Reporter

	// State
	started   bool
	startedAt time.Time
	counts    map[string]*counters

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		gridStep:        mle.DefaultGridStep,
		plotWidth:       6,
		plotHeight:      4,
		maxObservations: 1_000_000,
		counts:          make(map[string]*counters, len(analyses)),
	}
	for _, a := range analyses {
		s.counts[a] = &counters{}
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start marks the service as serving.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.started = true
	s.startedAt = time.Now()
	s.log().Info(ctx, "biostat service started",
		logger.Float64("gridStep", s.gridStep),
		logger.Int("maxObservations", s.maxObservations),
		logger.Bool("redcap", s.reporter != nil),
	)
	return nil
}

// Stop marks the service as stopped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.log().Info(context.Background(), "biostat service stopped",
		logger.Duration("uptime", time.Since(s.startedAt)),
	)
}

// REDCapEnabled reports whether report download is configured.
func (s *Service) REDCapEnabled() bool {
	return s.reporter != nil
}

// EstimateSurvival computes the Kaplan-Meier curve for status/time pairs.
func (s *Service) EstimateSurvival(ctx context.Context, status, times []float64) (curve *survival.Curve, err error) {
	defer s.track(ctx, AnalysisSurvival, len(times), time.Now(), &err)
	if err = s.checkSize(len(times)); err != nil {
		return nil, err
	}
	curve, err = survival.Estimate(status, times)
	if err != nil {
		return nil, err
	}
	metrics.RecordSurvivalPoints(curve.Len())
	return curve, nil
}

// RenderSurvival draws curve in format (png, svg, pdf, ...) to w.
func (s *Service) RenderSurvival(ctx context.Context, w io.Writer, curve *survival.Curve, format, title string) (err error) {
	size := 0
	if curve != nil {
		size = curve.Len()
	}
	defer s.track(ctx, AnalysisPlot, size, time.Now(), &err)
	r := kmplot.NewRenderer(
		kmplot.WithSize(s.plotWidth, s.plotHeight),
		kmplot.WithFormat(format),
		kmplot.WithTitle(title),
	)
	if err = r.Render(w, curve); err != nil {
		return err
	}
	metrics.RecordPlotRender(r.Format())
	return nil
}

// Approximate reconstructs x from its first k principal components.
func (s *Service) Approximate(ctx context.Context, x types.Matrix, k int) (out types.Matrix, err error) {
	defer s.track(ctx, AnalysisPCA, x.Cells(), time.Now(), &err)
	if err = s.checkSize(x.Cells()); err != nil {
		return nil, err
	}
	d, err := x.Dense()
	if err != nil {
		return nil, err
	}
	approx, err := pca.Approximate(d, k)
	if err != nil {
		return nil, err
	}
	return types.FromDense(approx), nil
}

// FitBernoulli returns the grid MLE of p for 0/1 data. A step of zero uses
// the configured default; any other step must lie in (0,1].
func (s *Service) FitBernoulli(ctx context.Context, data []float64, step float64) (p float64, err error) {
	defer s.track(ctx, AnalysisMLE, len(data), time.Now(), &err)
	if err = s.checkSize(len(data)); err != nil {
		return 0, err
	}
	if step == 0 {
		step = s.gridStep
	}
	if !(step > 0 && step <= 1) {
		err = fmt.Errorf("%w: grid step %v outside (0,1]", mle.ErrInvalidGrid, step)
		return 0, err
	}
	return mle.FitBernoulliOnGrid(data, mle.ProbabilityGrid(step))
}

// SampleSize computes the t-test sample size for params.
func (s *Service) SampleSize(ctx context.Context, params samplesize.Params) (res samplesize.Result, err error) {
	defer s.track(ctx, AnalysisSampleSize, 1, time.Now(), &err)
	return samplesize.TTest(params)
}

// ReverseScale reverses scale responses within [min, max].
func (s *Service) ReverseScale(ctx context.Context, x []float64, min, max float64) (out []float64, err error) {
	defer s.track(ctx, AnalysisRescale, len(x), time.Now(), &err)
	if err = s.checkSize(len(x)); err != nil {
		return nil, err
	}
	return rescale.Reverse(x, min, max)
}

// StandardizeNames cleans a list of column names.
func (s *Service) StandardizeNames(ctx context.Context, in []string) []string {
	var err error
	defer s.track(ctx, AnalysisNames, len(in), time.Now(), &err)
	return names.Standardize(in)
}

// FetchReport downloads a REDCap report.
func (s *Service) FetchReport(ctx context.Context, reportID string) (table *redcap.Table, err error) {
	start := time.Now()
	defer s.track(ctx, AnalysisREDCap, 1, start, &err)
	if s.reporter == nil {
		return nil, ErrREDCapDisabled
	}
	table, err = s.reporter.ExportReport(ctx, reportID)
	latency := msSince(start)
	if err != nil {
		metrics.RecordREDCapFetch("error", latency, -1)
		return nil, err
	}
	metrics.RecordREDCapFetch("ok", latency, len(table.Rows))
	return table, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	calls := make(map[string]int64, len(s.counts))
	errs := make(map[string]int64, len(s.counts))
	for name, c := range s.counts {
		calls[name] = c.calls.Load()
		errs[name] = c.errors.Load()
	}

	stats := map[string]interface{}{
		"started":         s.started,
		"gridStep":        s.gridStep,
		"maxObservations": s.maxObservations,
		"redcapEnabled":   s.reporter != nil,
		"calls":           calls,
		"errors":          errs,
	}
	if s.started {
		stats["uptimeSeconds"] = time.Since(s.startedAt).Seconds()
	}
	return stats
}

func (s *Service) checkSize(n int) error {
	if n > s.maxObservations {
		return fmt.Errorf("%w: %d > %d", ErrTooLarge, n, s.maxObservations)
	}
	return nil
}

// track records call counters, metrics and a debug line once the analysis returns.
func (s *Service) track(ctx context.Context, analysis string, size int, start time.Time, errp *error) {
	latency := msSince(start)
	c := s.counts[analysis]
	c.calls.Add(1)
	metrics.RecordInputSize(analysis, size)

	var err error
	if errp != nil {
		err = *errp
	}
	if err != nil {
		c.errors.Add(1)
		kind := errorKind(err)
		metrics.RecordAnalysis(analysis, "error", latency)
		metrics.RecordErrorByComponent(analysis, kind)
		s.log().Debug(ctx, "analysis failed",
			logger.String("analysis", analysis),
			logger.Int("size", size),
			logger.String("kind", kind),
			logger.Error(err),
		)
		return
	}
	metrics.RecordAnalysis(analysis, "ok", latency)
	s.log().Debug(ctx, "analysis completed",
		logger.String("analysis", analysis),
		logger.Int("size", size),
		logger.Float64("latencyMs", latency),
	)
}

func (s *Service) log() logger.Logger {
	if s.logger == nil {
		return logger.Named("service")
	}
	return s.logger
}

// errorKind buckets domain errors for metrics labels.
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrTooLarge):
		return "too_large"
	case errors.Is(err, mle.ErrDegenerateInput):
		return "degenerate_input"
	case errors.Is(err, pca.ErrDimension), errors.Is(err, types.ErrDimension):
		return "dimension"
	case errors.Is(err, redcap.ErrUpstream):
		return "upstream"
	case errors.Is(err, ErrREDCapDisabled):
		return "disabled"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "invalid_input"
	}
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
