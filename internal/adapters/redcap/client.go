// Package redcap downloads reports from a REDCap project API as tables.
package redcap

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Default client configuration constants.
const (
	defaultTimeout   = 30 * time.Second
	defaultDelimiter = ','
	maxErrorBody     = 512
)

// Reporter fetches REDCap reports.
type Reporter interface {
	ExportReport(ctx context.Context, reportID string) (*Table, error)
}

// Client talks to one REDCap API endpoint with one project token.
type Client struct {
	url       string
	token     string
	delimiter rune
	http      *http.Client
}

// NewClient creates a REDCap client for the API URL and token.
func NewClient(apiURL, token string, opts ...Option) *Client {
	c := &Client{
		url:       apiURL,
		token:     token,
		delimiter: defaultDelimiter,
		http:      &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// reportForm builds the export-report form body.
func (c *Client) reportForm(reportID string) url.Values {
	form := url.Values{}
	form.Set("token", c.token)
	form.Set("content", "report")
	form.Set("format", "csv")
	form.Set("report_id", reportID)
	form.Set("csvDelimiter", delimiterParam(c.delimiter))
	form.Set("rawOrLabel", "raw")
	form.Set("rawOrLabelHeaders", "raw")
	form.Set("exportCheckboxLabel", "false")
	form.Set("returnFormat", "csv")
	return form
}

// delimiterParam renders a delimiter as REDCap's csvDelimiter value. Tab has
// to be spelled out.
func delimiterParam(r rune) string {
	if r == '\t' {
		return "tab"
	}
	return string(r)
}

// ExportReport downloads a report and parses it into a table. Requests are
// not retried.
func (c *Client) ExportReport(ctx context.Context, reportID string) (*Table, error) {
	switch {
	case strings.TrimSpace(c.url) == "":
		return nil, fmt.Errorf("%w: missing api url", ErrInvalidRequest)
	case strings.TrimSpace(c.token) == "":
		return nil, fmt.Errorf("%w: missing token", ErrInvalidRequest)
	case strings.TrimSpace(reportID) == "":
		return nil, fmt.Errorf("%w: missing report id", ErrInvalidRequest)
	}

	body := strings.NewReader(c.reportForm(reportID).Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/csv")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return ParseCSV(resp.Body, c.delimiter)
}

// ParseCSV reads a header row followed by data rows.
func ParseCSV(r io.Reader, delimiter rune) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrDecode, errors.New("empty response"))
	}
	return &Table{Header: records[0], Rows: records[1:]}, nil
}
