package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variable names.
const (
	EnvPrefix = "BIOSTAT_"
	EnvConfig = EnvPrefix + "CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if BIOSTAT_CONFIG is set
//  3. env (prefix BIOSTAT_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(EnvConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Map env keys like BIOSTAT_GRID_STEP -> grid_step (flat keys).
	// Underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, strings.ToLower(EnvPrefix))
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case !(c.GridStep > 0 && c.GridStep <= 1):
		return fmt.Errorf("%w: grid_step must be in (0,1]", ErrInvalidConfig)
	case c.PlotWidthIn <= 0 || c.PlotHeightIn <= 0:
		return fmt.Errorf("%w: plot size must be positive", ErrInvalidConfig)
	case c.MaxObservations < 1:
		return fmt.Errorf("%w: max_observations must be positive", ErrInvalidConfig)
	case c.REDCapTimeoutMS < 1:
		return fmt.Errorf("%w: redcap_timeout_ms must be positive", ErrInvalidConfig)
	case utf8.RuneCountInString(c.CSVDelimiter) != 1:
		return fmt.Errorf("%w: csv_delimiter must be a single character", ErrInvalidConfig)
	}
	return nil
}
