package cli

import (
	"github.com/spf13/cobra"
)

func newReverseCommand(a *app) *cobra.Command {
	var (
		input   string
		columns []string
		lo, hi  float64
	)
	cmd := &cobra.Command{
		Use:   "reverse",
		Short: "Reverse-code scale columns in a CSV file",
		Long: `Replaces every value v of the selected columns by min + max - v. Blank
cells are missing responses and stay blank. Other columns pass through.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := a.readTable(input)
			if err != nil {
				return err
			}
			for _, name := range columns {
				values, err := table.Float64Column(name)
				if err != nil {
					return err
				}
				reversed, err := a.svc.ReverseScale(cmd.Context(), values, lo, hi)
				if err != nil {
					return err
				}
				j := table.Index(name)
				for i, row := range table.Rows {
					if j < len(row) {
						row[j] = formatFloat(reversed[i])
					}
				}
			}
			return a.writeCSV(a.stdout, table.Header, table.Rows)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "-", "CSV input file (- for stdin)")
	cmd.Flags().StringSliceVarP(&columns, "columns", "c", nil, "Columns to reverse (comma separated)")
	cmd.Flags().Float64Var(&lo, "min", 1, "Lowest scale value")
	cmd.Flags().Float64Var(&hi, "max", 5, "Highest scale value")
	_ = cmd.MarkFlagRequired("columns")
	return cmd
}
