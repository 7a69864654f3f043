// Package logview retrieves the collector's log file over HTTP.
package logview

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rileyhilliard/hazmon/internal/errors"
)

// Text shown by the log viewer while a fetch is pending and after it fails.
const (
	LoadingText = "Loading..."
	FailedText  = "Failed to load log."
)

// MaxBodySize bounds how much of the log is kept in memory.
const MaxBodySize = 1 << 20

// DefaultTimeout applies when a Fetcher is created with a zero timeout.
const DefaultTimeout = 5 * time.Second

// Fetcher downloads the log from a fixed URL.
type Fetcher struct {
	url    string
	client *http.Client
}

// NewFetcher creates a fetcher for url with a per-request timeout.
func NewFetcher(url string, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// URL returns the address being fetched.
func (f *Fetcher) URL() string { return f.url }

// Fetch returns the log body verbatim. Bodies over MaxBodySize are cut off.
// Any transport failure or non-2xx status is an ErrFetch error.
func (f *Fetcher) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrFetch,
			"Invalid log URL "+f.url, "Check logs.host, logs.port and logs.path")
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrFetch,
			"Can't reach the log endpoint "+f.url,
			"Check the collector's log server is running")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", errors.New(errors.ErrFetch,
			fmt.Sprintf("Log endpoint returned %s", resp.Status), "")
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrFetch, "Couldn't read the log", "")
	}
	return string(body), nil
}
