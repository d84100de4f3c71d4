package gtfsrt

import (
	"context"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single feed fetch. Upstream feeds answer in
// sub-second to low-seconds latency; anything past this is treated as a
// transport failure.
const DefaultTimeout = 10 * time.Second

// Client is an HTTP client for fetching raw GTFS-RT protobuf bytes.
// It performs no retries; the consumer's polling cadence is the retry
// mechanism.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a client with the given per-request timeout.
// A non-positive timeout falls back to DefaultTimeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves a single feed payload. Connection errors, non-2xx
// responses and truncated bodies all surface as *FetchError carrying
// the URL and underlying cause.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode}
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	return b, nil
}
