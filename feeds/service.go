package feeds

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/theoremus-urban-solutions/mta-gtfsrt-gateway/gtfsrt"
)

// Fetcher retrieves a raw feed payload from a source URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Service resolves a feed key and runs the fetch+decode pipeline.
//
// It holds no mutable state: concurrent requests for the same or
// different keys are independent, and no decoded message is cached
// across requests. Errors are terminal for the request in which they
// occur; the caller's polling loop is the retry mechanism.
type Service struct {
	registry *Registry
	fetcher  Fetcher
}

// NewService creates a service over a registry and fetcher.
func NewService(registry *Registry, fetcher Fetcher) *Service {
	return &Service{registry: registry, fetcher: fetcher}
}

// Registry exposes the service's key table for surface-level listings.
func (s *Service) Registry() *Registry { return s.registry }

// Feed fetches and decodes the feed for a key.
//
// Distinct failures keep their type: an unknown key yields
// ErrInvalidFeedKey with no fetch attempted, transport failures yield
// *gtfsrt.FetchError and malformed payloads *gtfsrt.DecodeError.
func (s *Service) Feed(ctx context.Context, key string) (*gtfsrt.FeedMessage, error) {
	url, err := s.registry.Resolve(key)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	b, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		log.Warn().Str("feed", key).Str("url", url).Err(err).Msg("feed fetch failed")
		return nil, err
	}
	msg, err := gtfsrt.Decode(b)
	if err != nil {
		log.Warn().Str("feed", key).Str("url", url).Err(err).Msg("feed decode failed")
		return nil, err
	}
	log.Debug().
		Str("feed", key).
		Int("entities", len(msg.Entities)).
		Dur("elapsed", time.Since(start)).
		Msg("feed refreshed")
	return msg, nil
}
