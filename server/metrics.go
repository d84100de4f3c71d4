package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects the gateway's operational counters on a private
// registry.
type Metrics struct {
	reg *prometheus.Registry

	FeedRequests  *prometheus.CounterVec // labels: feed, outcome
	FetchDuration prometheus.Histogram
	StopIndexSize prometheus.Gauge
}

// Request outcomes for the feed_requests_total counter.
const (
	OutcomeOK          = "ok"
	OutcomeInvalidKey  = "invalid_key"
	OutcomeFetchError  = "fetch_error"
	OutcomeDecodeError = "decode_error"
)

// NewMetrics creates and registers the gateway metrics.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		reg: reg,
		FeedRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_feed_requests_total",
			Help: "Feed requests by feed key and outcome.",
		}, []string{"feed", "outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gateway_feed_request_duration_seconds",
			Help:    "Wall time of one resolve+fetch+decode pipeline run.",
			Buckets: prometheus.DefBuckets,
		}),
		StopIndexSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gateway_stop_index_size",
			Help: "Number of stops in the current reference index.",
		}),
	}
	reg.MustRegister(m.FeedRequests, m.FetchDuration, m.StopIndexSize)
	reg.MustRegister(collectors.NewGoCollector())
	return m
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
