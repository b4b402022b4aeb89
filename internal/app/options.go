package service

import (
	"github.com/okian/biostat/internal/adapters/redcap"
	"github.com/okian/biostat/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithGridStep sets the default probability resolution for Bernoulli fits.
func WithGridStep(step float64) Option {
	return func(s *Service) {
		if step > 0 && step <= 1 {
			s.gridStep = step
		}
	}
}

// WithPlotSize sets the default image size, in inches, for rendered curves.
func WithPlotSize(widthIn, heightIn float64) Option {
	return func(s *Service) {
		if widthIn > 0 && heightIn > 0 {
			s.plotWidth = widthIn
			s.plotHeight = heightIn
		}
	}
}

// WithMaxObservations caps the number of observations or matrix cells per call.
func WithMaxObservations(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxObservations = n
		}
	}
}

// WithREDCap enables report download through the given reporter.
func WithREDCap(r redcap.Reporter) Option {
	return func(s *Service) {
		s.reporter = r
	}
}
