// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for the session client:
// - auth state transitions and unauthorized handling
// - revocations by source
// - backend transport requests
// - event bus publishes
// - circuit breaker and push connection state
// - local status server requests

var (
	// Auth State Machine Metrics
	AuthTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lancache_session_transitions_total",
			Help: "Total number of auth mode transitions",
		},
		[]string{"from", "to"},
	)

	AuthMode = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "lancache_session_mode",
			Help: "Current auth mode (1 for the active mode, 0 otherwise)",
		},
		[]string{"mode"},
	)

	UnauthorizedHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lancache_session_unauthorized_total",
			Help: "Unauthorized signals by outcome",
		},
		[]string{"outcome"}, // "cleared", "zombie_cleared", "ignored_upgrading", "ignored_idle"
	)

	Revocations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lancache_session_revocations_total",
			Help: "Session revocations applied, by detection source",
		},
		[]string{"source", "session_type"},
	)

	UpgradeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lancache_session_upgrade_duration_seconds",
			Help:    "Duration of device registration including the settle wait",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	// Transport Metrics
	TransportRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lancache_transport_requests_total",
			Help: "Total backend requests by endpoint and status",
		},
		[]string{"endpoint", "status"}, // status: HTTP code or "network_error"
	)

	TransportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lancache_transport_request_duration_seconds",
			Help:    "Backend request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Event Bus Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lancache_events_published_total",
			Help: "Events offered to the bus by type and result",
		},
		[]string{"type", "result"}, // result: "published", "deduplicated", "failed"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Push Channel Metrics
	PushConnected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lancache_push_connected",
			Help: "1 while the revocation websocket is connected",
		},
	)

	PushMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lancache_push_messages_total",
			Help: "Push messages received by type",
		},
		[]string{"type"},
	)

	// Status Server Metrics
	StatusRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lancache_status_requests_total",
			Help: "Local status server requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	StatusRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lancache_status_request_duration_seconds",
			Help:    "Local status server request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	StatusActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lancache_status_active_requests",
			Help: "In-flight local status server requests",
		},
	)
)

// allModes lists every auth mode label for the AuthMode gauge.
var allModes = []string{"unauthenticated", "guest", "expired", "authenticated"}

// RecordTransition counts a mode transition and updates the mode gauge.
func RecordTransition(from, to string) {
	if from != to {
		AuthTransitions.WithLabelValues(from, to).Inc()
	}
	SetMode(to)
}

// SetMode sets the AuthMode gauge so exactly one mode reads 1.
func SetMode(mode string) {
	for _, m := range allModes {
		v := 0.0
		if m == mode {
			v = 1
		}
		AuthMode.WithLabelValues(m).Set(v)
	}
}

// RecordTransportRequest records a backend request; statusCode 0 means no response.
func RecordTransportRequest(endpoint string, statusCode int, duration time.Duration) {
	status := "network_error"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	TransportRequests.WithLabelValues(endpoint, status).Inc()
	TransportDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordStatusRequest records one status server request.
func RecordStatusRequest(method, route string, statusCode int, duration time.Duration) {
	StatusRequests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	StatusRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveStatusRequest adjusts the in-flight gauge.
func TrackActiveStatusRequest(start bool) {
	if start {
		StatusActiveRequests.Inc()
		return
	}
	StatusActiveRequests.Dec()
}
