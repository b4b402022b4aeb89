package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/okian/biostat/internal/domain/survival"
	"github.com/spf13/cobra"
)

type kmOptions struct {
	input     string
	statusCol string
	timeCol   string
	plot      string
	title     string
}

func newKMCommand(a *app) *cobra.Command {
	opts := &kmOptions{}
	cmd := &cobra.Command{
		Use:   "km",
		Short: "Kaplan-Meier survival table from a CSV file",
		Long: `Reads status (1 = event, 0 = censored) and time columns from CSV and
prints the survival table, one row per distinct time. With --plot the curve
is also drawn to an image whose format follows the file extension.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runKM(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.input, "input", "i", "-", "CSV input file (- for stdin)")
	cmd.Flags().StringVar(&opts.statusCol, "status", "status", "Status column name")
	cmd.Flags().StringVar(&opts.timeCol, "time", "time", "Time column name")
	cmd.Flags().StringVar(&opts.plot, "plot", "", "Write the curve to this image file (.png, .svg, .pdf)")
	cmd.Flags().StringVar(&opts.title, "title", "", "Plot title")
	return cmd
}

func (a *app) runKM(cmd *cobra.Command, opts *kmOptions) error {
	ctx := cmd.Context()
	table, err := a.readTable(opts.input)
	if err != nil {
		return err
	}
	status, err := table.Float64Column(opts.statusCol)
	if err != nil {
		return err
	}
	times, err := table.Float64Column(opts.timeCol)
	if err != nil {
		return err
	}

	curve, err := a.svc.EstimateSurvival(ctx, status, times)
	if err != nil {
		return err
	}
	if err := a.writeCSV(a.stdout, kmHeader, kmRows(curve)); err != nil {
		return err
	}

	if opts.plot == "" {
		return nil
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(opts.plot)), ".")
	f, err := os.Create(opts.plot)
	if err != nil {
		return fmt.Errorf("create plot file: %w", err)
	}
	if err := a.svc.RenderSurvival(ctx, f, curve, format, opts.title); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

var kmHeader = []string{"time", "n_events", "n_censored", "n_total", "n_at_risk", "hazard", "survival", "has_censoring"}

func kmRows(curve *survival.Curve) [][]string {
	rows := make([][]string, 0, curve.Len())
	for _, p := range curve.Points {
		rows = append(rows, []string{
			formatFloat(p.Time),
			strconv.Itoa(p.NEvents),
			strconv.Itoa(p.NCensored),
			strconv.Itoa(p.NTotal),
			strconv.Itoa(p.NAtRisk),
			formatFloat(p.Hazard),
			formatFloat(p.Survival),
			strconv.FormatBool(p.HasCensoring),
		})
	}
	return rows
}
