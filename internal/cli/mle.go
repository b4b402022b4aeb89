package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMLECommand(a *app) *cobra.Command {
	var (
		input  string
		column string
		step   float64
	)
	cmd := &cobra.Command{
		Use:   "mle",
		Short: "Grid-search MLE of a Bernoulli probability from a 0/1 CSV column",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := a.readTable(input)
			if err != nil {
				return err
			}
			data, err := table.Float64Column(column)
			if err != nil {
				return err
			}
			p, err := a.svc.FitBernoulli(cmd.Context(), data, step)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.stdout, formatFloat(p))
			return err
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "-", "CSV input file (- for stdin)")
	cmd.Flags().StringVarP(&column, "column", "c", "outcome", "0/1 column name")
	cmd.Flags().Float64Var(&step, "step", 0, "Grid step (default from config)")
	return cmd
}
