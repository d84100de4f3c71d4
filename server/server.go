package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/theoremus-urban-solutions/mta-gtfsrt-gateway/feeds"
	"github.com/theoremus-urban-solutions/mta-gtfsrt-gateway/gtfs"
)

// Fixed keys for the two single-source commuter-rail domains.
const (
	KeyLIRR = "lirr"
	KeyMNR  = "mnr"
)

// Server wires the feed services, the stop reference cache and the
// metrics collector into one HTTP surface.
type Server struct {
	subway  *feeds.Service
	rail    *feeds.Service
	stops   *gtfs.Cache
	metrics *Metrics

	httpServer *http.Server
}

// New assembles a server listening on the given port. The stop cache
// may be empty; enrichment degrades to unknown placeholders until it
// loads.
func New(port int, subway, rail *feeds.Service, stops *gtfs.Cache, metrics *Metrics) *Server {
	s := &Server{
		subway:  subway,
		rail:    rail,
		stops:   stops,
		metrics: metrics,
	}
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler builds the route table. Exposed separately so tests can
// drive the mux without a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/lirr", s.handleRail(KeyLIRR))
	mux.HandleFunc("GET /api/mnr", s.handleRail(KeyMNR))
	mux.HandleFunc("GET /api/subways/{feed}", s.handleSubway)
	mux.HandleFunc("GET /api/subways", s.handleSubwayKeys)
	mux.HandleFunc("GET /api/stops", s.handleStops)
	mux.Handle("GET /metrics", s.metrics.Handler())
	return mux
}

// Start begins serving in a background goroutine.
func (s *Server) Start() {
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()
	log.Info().Str("addr", s.httpServer.Addr).Msg("server listening")
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
