package redcap

import (
	"net/http"
	"time"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the request timeout on the HTTP client in use, including
// one supplied earlier through WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithDelimiter sets the CSV delimiter requested from and parsed out of REDCap.
func WithDelimiter(delim rune) Option {
	return func(c *Client) {
		if delim != 0 {
			c.delimiter = delim
		}
	}
}
