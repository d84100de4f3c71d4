package gtfs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// Source produces one reader over the raw stop table.
type Source func(ctx context.Context) (io.ReadCloser, error)

// HTTPSource fetches the stop table from a URL.
func HTTPSource(client *http.Client, url string) Source {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return func(ctx context.Context) (io.ReadCloser, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			return nil, &LoadError{Err: &statusError{url: url, code: resp.StatusCode}}
		}
		return resp.Body, nil
	}
}

// FileSource reads the stop table from a local file.
func FileSource(path string) Source {
	return func(ctx context.Context) (io.ReadCloser, error) {
		return os.Open(path)
	}
}

type statusError struct {
	url  string
	code int
}

func (e *statusError) Error() string { return fmt.Sprintf("HTTP %d from %s", e.code, e.url) }

// Cache holds the current stop index behind an atomic pointer.
//
// Readers either see the previous complete index or the new complete
// one, never a partially populated one. A failed refresh leaves the
// previous index in place so in-flight joins keep working.
type Cache struct {
	source   Source
	index    atomic.Pointer[StopIndex]
	loadedAt atomic.Int64
}

// NewCache creates an empty cache; Index returns nil until the first
// successful Refresh.
func NewCache(source Source) *Cache {
	return &Cache{source: source}
}

// Index returns the current stop index, or nil if none has been loaded.
func (c *Cache) Index() *StopIndex { return c.index.Load() }

// LoadedAt returns the epoch of the last successful refresh, 0 if none.
func (c *Cache) LoadedAt() int64 { return c.loadedAt.Load() }

// Refresh loads the stop table and swaps the index in wholesale.
// Intended to be called from a single goroutine.
func (c *Cache) Refresh(ctx context.Context) error {
	rc, err := c.source(ctx)
	if err != nil {
		return &LoadError{Err: err}
	}
	defer func() { _ = rc.Close() }()

	idx, rowErrs, err := ParseStops(rc)
	if err != nil {
		return err
	}
	for _, re := range rowErrs {
		log.Warn().Int("line", re.Line).Err(re.Err).Msg("skipped malformed stops row")
	}
	c.index.Store(idx)
	c.loadedAt.Store(time.Now().Unix())
	log.Info().Int("stops", idx.Len()).Int("skipped_rows", len(rowErrs)).Msg("stop index refreshed")
	return nil
}
