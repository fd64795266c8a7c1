// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Sync Engine Metrics
	SyncCycles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_cycles_total",
			Help: "Total number of remote reconciliation cycles",
		},
		[]string{"result"}, // "success", "list_failed"
	)

	SyncCycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sync_cycle_duration_seconds",
			Help:    "Duration of remote reconciliation cycles in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	SyncFiles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_files_total",
			Help: "Total number of per-file sync operations",
		},
		[]string{"operation", "result"}, // operation: "download", "delete"; result: "success", "failure"
	)

	SyncValidRemoteFiles = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sync_valid_remote_files",
			Help: "Number of currently valid files in the last remote listing",
		},
	)

	SyncLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sync_last_success_timestamp",
			Help: "Unix timestamp of the last successful reconciliation cycle",
		},
	)

	// Catalog Metrics
	CatalogItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_items",
			Help: "Number of items in the current catalog snapshot, placeholder included",
		},
	)

	CatalogRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_refreshes_total",
			Help: "Total number of catalog refresh ticks",
		},
		[]string{"result"}, // "unchanged", "changed", "error"
	)

	CatalogSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_sessions",
			Help: "Current number of display client sessions",
		},
	)

	CatalogSessionsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_sessions_expired_total",
			Help: "Total number of sessions removed after inactivity",
		},
	)

	CatalogSessionsEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_sessions_evicted_total",
			Help: "Total number of sessions dropped because the store was full",
		},
	)

	CatalogNavigations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_navigations_total",
			Help: "Total number of cursor reads and moves",
		},
		[]string{"direction"}, // "current", "next", "previous"
	)

	// Power Controller Metrics
	PowerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "power_state",
			Help: "Idle controller state (1=active, 0=paused)",
		},
	)

	PowerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "power_transitions_total",
			Help: "Total number of idle controller state transitions",
		},
		[]string{"to"},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSMessagesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_dropped_total",
			Help: "Total number of broadcasts dropped because the hub buffer was full",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
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

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)
)

// RecordSyncCycle records the outcome of one reconciliation cycle.
func RecordSyncCycle(duration time.Duration, validFiles int, listed bool) {
	SyncCycleDuration.Observe(duration.Seconds())
	if !listed {
		SyncCycles.WithLabelValues("list_failed").Inc()
		return
	}
	SyncCycles.WithLabelValues("success").Inc()
	SyncValidRemoteFiles.Set(float64(validFiles))
	SyncLastSuccess.Set(float64(time.Now().Unix()))
}

// RecordSyncFile records a single download or delete.
func RecordSyncFile(operation string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	SyncFiles.WithLabelValues(operation, result).Inc()
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// SetPowerActive records the idle controller state.
func SetPowerActive(active bool) {
	if active {
		PowerState.Set(1)
		PowerTransitions.WithLabelValues("active").Inc()
		return
	}
	PowerState.Set(0)
	PowerTransitions.WithLabelValues("paused").Inc()
}
