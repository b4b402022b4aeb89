// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and environment variables over the defaults.
// - Validation errors wrap ErrInvalidConfig; loader failures wrap ErrLoadConfig.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// MaxObservations caps the number of observations (or matrix cells) per request.
	MaxObservations int `koanf:"max_observations"`

	// GridStep is the probability resolution of the Bernoulli grid search.
	GridStep float64 `koanf:"grid_step"`

	// PlotWidthIn and PlotHeightIn size rendered survival curves, in inches.
	PlotWidthIn  float64 `koanf:"plot_width_in"`
	PlotHeightIn float64 `koanf:"plot_height_in"`

	// REDCapURL and REDCapToken configure the REDCap API. Report download is
	// disabled while either is empty.
	REDCapURL   string `koanf:"redcap_url"`
	REDCapToken string `koanf:"redcap_token"`

	// REDCapTimeoutMS bounds each REDCap request.
	REDCapTimeoutMS int `koanf:"redcap_timeout_ms"`

	// CSVDelimiter is the single-character delimiter for REDCap and CLI CSV files.
	CSVDelimiter string `koanf:"csv_delimiter"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":9080",
		MaxObservations: 1_000_000,
		GridStep:        0.001,
		PlotWidthIn:     6,
		PlotHeightIn:    4,
		REDCapTimeoutMS: 30_000,
		CSVDelimiter:    ",",
	}
}

// REDCapEnabled reports whether both REDCap URL and token are set.
func (c *Config) REDCapEnabled() bool {
	return c.REDCapURL != "" && c.REDCapToken != ""
}

// Delimiter returns the CSV delimiter as a rune.
func (c *Config) Delimiter() rune {
	for _, r := range c.CSVDelimiter {
		return r
	}
	return ','
}
