package cli

import (
	"fmt"

	"github.com/okian/biostat/internal/domain/samplesize"
	"github.com/spf13/cobra"
)

func newSampleSizeCommand(a *app) *cobra.Command {
	var (
		p      samplesize.Params
		design string
	)
	cmd := &cobra.Command{
		Use:   "samplesize",
		Short: "Sample size for a one-sample, two-sample or paired t-test",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p.Design = samplesize.Design(design)
			res, err := a.svc.SampleSize(cmd.Context(), p)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.stdout, "per_group=%d total=%d exact=%.4f iterations=%d\n",
				res.PerGroup, res.Total, res.Exact, res.Iterations)
			return err
		},
	}
	cmd.Flags().Float64Var(&p.Delta, "delta", 0, "True difference in means")
	cmd.Flags().Float64Var(&p.SD, "sd", 1, "Standard deviation")
	cmd.Flags().Float64Var(&p.Alpha, "alpha", 0.05, "Significance level")
	cmd.Flags().Float64Var(&p.Power, "power", 0.8, "Desired power")
	cmd.Flags().StringVar(&design, "design", string(samplesize.TwoSample), "one-sample, two-sample or paired")
	cmd.Flags().IntVar(&p.Sides, "sides", 2, "1 or 2 sided test")
	_ = cmd.MarkFlagRequired("delta")
	return cmd
}
