package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newNamesCommand(a *app) *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "names [name...]",
		Short: "Standardize column names into unique snake_case identifiers",
		Long: `Cleans the names given as arguments, or the header of the CSV input
when no arguments are given, and prints one name per line.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := args
			if len(in) == 0 {
				table, err := a.readTable(input)
				if err != nil {
					return err
				}
				in = table.Header
			}
			for _, name := range a.svc.StandardizeNames(cmd.Context(), in) {
				if _, err := fmt.Fprintln(a.stdout, name); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "-", "CSV input file whose header is cleaned (- for stdin)")
	return cmd
}
