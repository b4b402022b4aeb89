package cli

import (
	"github.com/okian/biostat/internal/domain/types"
	"github.com/spf13/cobra"
)

func newPCACommand(a *app) *cobra.Command {
	var (
		input string
		k     int
	)
	cmd := &cobra.Command{
		Use:   "pca",
		Short: "Approximate numeric CSV columns with their first k principal components",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := a.readTable(input)
			if err != nil {
				return err
			}
			x := make(types.Matrix, len(table.Rows))
			for i := range x {
				x[i] = make([]float64, len(table.Header))
			}
			for j, name := range table.Header {
				col, err := table.Float64Column(name)
				if err != nil {
					return err
				}
				for i, v := range col {
					x[i][j] = v
				}
			}

			approx, err := a.svc.Approximate(cmd.Context(), x, k)
			if err != nil {
				return err
			}
			rows := make([][]string, len(approx))
			for i, row := range approx {
				rows[i] = make([]string, len(row))
				for j, v := range row {
					rows[i][j] = formatFloat(v)
				}
			}
			return a.writeCSV(a.stdout, table.Header, rows)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "-", "CSV input file (- for stdin)")
	cmd.Flags().IntVarP(&k, "components", "k", 1, "Number of principal components to keep")
	return cmd
}
