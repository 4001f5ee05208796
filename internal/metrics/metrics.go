// Package metrics holds the Prometheus collectors exposed at /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeInvalid = "invalid"
	OutcomeEmpty   = "empty"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizgen_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quizgen_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	generationRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizgen_generation_requests_total",
			Help: "Generation requests by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	authEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizgen_auth_events_total",
			Help: "Signup, login and logout attempts by outcome",
		},
		[]string{"event", "outcome"},
	)
)

func ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordGeneration counts one call to a generation endpoint. kind is one of
// question, flashcards or check_answer.
func RecordGeneration(kind, outcome string) {
	generationRequestsTotal.WithLabelValues(kind, outcome).Inc()
}

func RecordAuthEvent(event, outcome string) {
	authEventsTotal.WithLabelValues(event, outcome).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
