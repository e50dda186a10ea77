package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsRegistry holds the API-level Prometheus metrics.
type MetricsRegistry struct {
	registry *prometheus.Registry

	RequestDuration *prometheus.HistogramVec
	RequestsTotal   *prometheus.CounterVec
	TradeIdeas      *prometheus.GaugeVec
}

// NewMetricsRegistry creates and registers the API metrics on a dedicated
// registry so tests can build servers without duplicate-registration panics.
func NewMetricsRegistry() *MetricsRegistry {
	m := &MetricsRegistry{
		registry: prometheus.NewRegistry(),

		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dynastyscope_http_request_duration_seconds",
				Help:    "HTTP request duration by method and path",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
			},
			[]string{"method", "path"},
		),

		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dynastyscope_http_requests_total",
				Help: "Total HTTP requests by method, path, and status",
			},
			[]string{"method", "path", "status"},
		),

		TradeIdeas: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "dynastyscope_trade_ideas_returned",
				Help: "Trade ideas returned by the last matcher run per team",
			},
			[]string{"league_id", "team_id"},
		),
	}

	m.registry.MustRegister(
		m.RequestDuration,
		m.RequestsTotal,
		m.TradeIdeas,
	)

	return m
}

// RecordRequest records one completed request.
func (m *MetricsRegistry) RecordRequest(method, path string, status int, duration time.Duration) {
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

// RecordTradeIdeas records how many ideas the matcher produced for a team.
func (m *MetricsRegistry) RecordTradeIdeas(leagueID, teamID string, count int) {
	m.TradeIdeas.WithLabelValues(leagueID, teamID).Set(float64(count))
}

// Handler returns the scrape endpoint handler. It gathers the API registry
// together with the default registry, where package-level metrics such as
// the sync run counters live.
func (m *MetricsRegistry) Handler() http.Handler {
	gatherers := prometheus.Gatherers{m.registry, prometheus.DefaultGatherer}
	return promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{})
}
