// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

/*
Package middleware provides HTTP middleware components for the billboard server.

All middleware uses the http.HandlerFunc wrapping form; the api package
adapts them onto chi routes.

Key Components:

  - RequestID: UUID-based request tracking, propagated into the logging context
  - ClientID: display identity from X-Client-Id, generated and echoed when absent
  - Activity: notifies the power controller that a display is polling
  - SecurityHeaders / NoCache: fixed response headers
  - PrometheusMetrics: request count, latency, and in-flight gauge keyed by route pattern

Typical stack for a slideshow endpoint:

	middleware.PrometheusMetrics(
	    middleware.SecurityHeaders(
	        middleware.Activity(ctrl)(
	            middleware.ClientID(handler),
	        ),
	    ),
	)
*/
package middleware
