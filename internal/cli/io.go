package cli

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/okian/biostat/internal/adapters/redcap"
)

// readTable parses a CSV file with a header row. An empty path or "-" reads stdin.
func (a *app) readTable(path string) (*redcap.Table, error) {
	var r io.Reader = a.stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}
	return redcap.ParseCSV(r, a.cfg.Delimiter())
}

// writeCSV writes a header and rows with the configured delimiter.
func (a *app) writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	cw.Comma = a.cfg.Delimiter()
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

// formatFloat renders v compactly; NaN becomes an empty cell.
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
