package cli

import (
	"fmt"
	"io"
	"os"

	service "github.com/okian/biostat/internal/app"
	"github.com/spf13/cobra"
)

func newREDCapCommand(a *app) *cobra.Command {
	var (
		url    string
		token  string
		report string
		output string
	)
	cmd := &cobra.Command{
		Use:   "redcap",
		Short: "Download a REDCap report as CSV",
		Long: `Exports a report through the REDCap API using raw values and raw
headers. URL and token default to the redcap_url and redcap_token settings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := a.svc
			if url != "" || token != "" {
				if url == "" {
					url = a.cfg.REDCapURL
				}
				if token == "" {
					token = a.cfg.REDCapToken
				}
				svc = service.New(
					service.WithLogger(a.log),
					service.WithREDCap(a.newREDCapClient(url, token)),
				)
			}

			table, err := svc.FetchReport(cmd.Context(), report)
			if err != nil {
				return err
			}

			var w io.Writer = a.stdout
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer func() { _ = f.Close() }()
				w = f
			}
			return a.writeCSV(w, table.Header, table.Rows)
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "REDCap API URL")
	cmd.Flags().StringVar(&token, "token", "", "REDCap API token")
	cmd.Flags().StringVarP(&report, "report", "r", "", "Report ID")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "Output CSV file (- for stdout)")
	_ = cmd.MarkFlagRequired("report")
	return cmd
}
