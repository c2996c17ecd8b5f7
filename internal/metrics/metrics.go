// Package metrics provides Prometheus instrumentation for the relay.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Alert delivery results.
const (
	AlertDelivered = "delivered"
	AlertFailed    = "failed"
	AlertSkipped   = "skipped"
)

var (
	// RelayRequestsTotal counts relay attempts by route and outcome.
	RelayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_requests_total",
			Help: "Relay attempts by route and outcome",
		},
		[]string{"route", "outcome"},
	)

	// RelayDuration tracks upstream webhook latency.
	RelayDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "relay_upstream_duration_seconds",
			Help:    "Upstream webhook call duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2, 4, 8, 16},
		},
		[]string{"route", "outcome"},
	)

	// AlertsTotal counts operator alert attempts. There is no deduplication, so
	// a sustained outage shows up here as one alert per failing request.
	AlertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_alerts_total",
			Help: "Operator alert attempts by result",
		},
		[]string{"result"},
	)

	// HTTPResponsesTotal counts relay endpoint responses.
	HTTPResponsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_http_responses_total",
			Help: "Relay endpoint responses by route and status code",
		},
		[]string{"route", "status"},
	)
)

// RecordRelay records one upstream call.
func RecordRelay(route, outcome string, seconds float64) {
	RelayRequestsTotal.WithLabelValues(route, outcome).Inc()
	RelayDuration.WithLabelValues(route, outcome).Observe(seconds)
}

// RecordAlert records one alert attempt.
func RecordAlert(result string) {
	AlertsTotal.WithLabelValues(result).Inc()
}

// RecordResponse records the status returned by the relay endpoint.
func RecordResponse(route, status string) {
	HTTPResponsesTotal.WithLabelValues(route, status).Inc()
}
