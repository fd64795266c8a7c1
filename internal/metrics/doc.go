// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

/*
Package metrics registers the Prometheus collectors exported at /metrics.

# Available Metrics

Sync engine:
  - sync_cycles_total{result}: reconciliation cycles (success, list_failed)
  - sync_cycle_duration_seconds: histogram of cycle duration
  - sync_files_total{operation,result}: per-file downloads and deletions
  - sync_valid_remote_files: valid files in the last listing
  - sync_last_success_timestamp: unix time of the last successful cycle

Catalog:
  - catalog_items: items in the current snapshot, placeholder included
  - catalog_refreshes_total{result}: refresh ticks (unchanged, changed, error)
  - catalog_sessions: live display sessions
  - catalog_sessions_expired_total: sessions removed by the inactivity sweep
  - catalog_sessions_evicted_total: sessions dropped because the store was full
  - catalog_navigations_total{direction}: current, next, previous calls

Power controller:
  - power_state: 1 when active, 0 when paused
  - power_transitions_total{to}: state changes

Real-time fanout:
  - websocket_connections, websocket_messages_sent_total,
    websocket_messages_dropped_total, websocket_errors_total{error_type}

Remote source circuit breaker:
  - circuit_breaker_state{name}, circuit_breaker_requests_total{name,result},
    circuit_breaker_state_transitions_total{name,from_state,to_state}

HTTP:
  - api_requests_total{method,endpoint,status_code}
  - api_request_duration_seconds{method,endpoint}
  - api_active_requests
*/
package metrics
