package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/theoremus-urban-solutions/mta-gtfsrt-gateway/enrich"
	"github.com/theoremus-urban-solutions/mta-gtfsrt-gateway/feeds"
	"github.com/theoremus-urban-solutions/mta-gtfsrt-gateway/gtfsrt"
)

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status        string `json:"status"`
	StopsLoadedAt int64  `json:"stops_loaded_epoch"`
	StopCount     int    `json:"stop_count"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", StopsLoadedAt: s.stops.LoadedAt()}
	if idx := s.stops.Index(); idx != nil {
		resp.StopCount = idx.Len()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSubway(w http.ResponseWriter, r *http.Request) {
	s.serveFeed(w, r, s.subway, r.PathValue("feed"), "subway")
}

func (s *Server) handleRail(key string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.serveFeed(w, r, s.rail, key, key)
	}
}

// serveFeed runs one resolve+fetch+decode pipeline request and maps the
// error taxonomy onto the HTTP surface: unknown key is a client error
// issued before any fetch, upstream and format failures are 502s with
// distinct bodies.
func (s *Server) serveFeed(w http.ResponseWriter, r *http.Request, svc *feeds.Service, key, domain string) {
	start := time.Now()
	msg, err := svc.Feed(r.Context(), key)
	s.metrics.FetchDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		var fetchErr *gtfsrt.FetchError
		var decodeErr *gtfsrt.DecodeError
		switch {
		case errors.Is(err, feeds.ErrInvalidFeedKey):
			s.metrics.FeedRequests.WithLabelValues(key, OutcomeInvalidKey).Inc()
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid feed specified"})
		case errors.As(err, &fetchErr):
			s.metrics.FeedRequests.WithLabelValues(key, OutcomeFetchError).Inc()
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: "failed to fetch " + domain + " feed"})
		case errors.As(err, &decodeErr):
			s.metrics.FeedRequests.WithLabelValues(key, OutcomeDecodeError).Inc()
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: "failed to decode " + domain + " feed"})
		default:
			s.metrics.FeedRequests.WithLabelValues(key, OutcomeFetchError).Inc()
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to serve " + domain + " feed"})
		}
		return
	}

	s.metrics.FeedRequests.WithLabelValues(key, OutcomeOK).Inc()
	if wantEnrich(r) {
		writeJSON(w, http.StatusOK, enrich.Feed(msg, s.stops.Index()))
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func (s *Server) handleSubwayKeys(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"feeds": s.subway.Registry().Keys()})
}

func (s *Server) handleStops(w http.ResponseWriter, r *http.Request) {
	idx := s.stops.Index()
	if idx == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "stop reference data not loaded"})
		return
	}
	s.metrics.StopIndexSize.Set(float64(idx.Len()))
	writeJSON(w, http.StatusOK, idx.All())
}

func wantEnrich(r *http.Request) bool {
	switch r.URL.Query().Get("enrich") {
	case "1", "true":
		return true
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
