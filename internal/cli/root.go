// Package cli implements the biostat command-line tool.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/biostat/internal/adapters/redcap"
	service "github.com/okian/biostat/internal/app"
	"github.com/okian/biostat/internal/config"
	"github.com/okian/biostat/pkg/logger"
	"github.com/spf13/cobra"
)

// app carries state shared by all subcommands of one invocation.
type app struct {
	configPath string
	logLevel   string
	delimiter  string
	jsonLogs   bool

	cfg *config.Config
	svc *service.Service
	log logger.Logger

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// NewRootCommand builds the biostat command tree.
func NewRootCommand() *cobra.Command {
	a := &app{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}

	rootCmd := &cobra.Command{
		Use:   "biostat",
		Short: "Biostatistics helpers for clinical study data",
		Long: `biostat estimates Kaplan-Meier survival curves, approximates data with
principal components, fits Bernoulli probabilities by grid search, sizes
t-test studies, reverses Likert scales, cleans column names and downloads
REDCap reports.

Configuration is read from BIOSTAT_* environment variables and an optional
YAML file; flags override both.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	rootCmd.SetIn(a.stdin)
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file (overrides "+config.EnvConfig+")")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVarP(&a.delimiter, "delimiter", "d", "", "CSV delimiter (default from config)")
	rootCmd.PersistentFlags().BoolVar(&a.jsonLogs, "json-logs", false, "Write logs as JSON")

	rootCmd.AddCommand(
		newKMCommand(a),
		newPCACommand(a),
		newMLECommand(a),
		newSampleSizeCommand(a),
		newReverseCommand(a),
		newNamesCommand(a),
		newREDCapCommand(a),
	)
	return rootCmd
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// setup loads configuration, initializes logging and builds the service.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	a.stdin = cmd.InOrStdin()
	a.stdout = cmd.OutOrStdout()
	a.stderr = cmd.ErrOrStderr()

	// Logs go to stderr so stdout stays machine-readable.
	if err := logger.InitWithWriter(a.stderr, a.jsonLogs); err != nil {
		return err
	}
	a.log = logger.Named("cli")

	if a.configPath != "" {
		if err := os.Setenv(config.EnvConfig, a.configPath); err != nil {
			return fmt.Errorf("set %s: %w", config.EnvConfig, err)
		}
	}
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.delimiter != "" {
		cfg.CSVDelimiter = a.delimiter
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return err
	}
	a.cfg = cfg
	a.svc = a.newService()

	a.log.Debug(cmd.Context(), "configuration loaded",
		logger.String("command", cmd.Name()),
		logger.Float64("gridStep", cfg.GridStep),
		logger.Bool("redcap", cfg.REDCapEnabled()),
	)
	return nil
}

func (a *app) newService() *service.Service {
	opts := []service.Option{
		service.WithLogger(a.log),
		service.WithGridStep(a.cfg.GridStep),
		service.WithPlotSize(a.cfg.PlotWidthIn, a.cfg.PlotHeightIn),
		service.WithMaxObservations(a.cfg.MaxObservations),
	}
	if a.cfg.REDCapEnabled() {
		opts = append(opts, service.WithREDCap(a.newREDCapClient(a.cfg.REDCapURL, a.cfg.REDCapToken)))
	}
	return service.New(opts...)
}

func (a *app) newREDCapClient(url, token string) *redcap.Client {
	return redcap.NewClient(url, token,
		redcap.WithTimeout(time.Duration(a.cfg.REDCapTimeoutMS)*time.Millisecond),
		redcap.WithDelimiter(a.cfg.Delimiter()),
	)
}
