// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

/*
Package api provides the HTTP surface of the billboard server.

Routes are registered on a chi router by Router.SetupChi:

	GET    /api/v1/current-media    item at the caller's cursor
	GET    /api/v1/next-media       advance the cursor, then return the item
	GET    /api/v1/previous-media   step the cursor back, then return the item
	GET    /api/v1/session          the caller's cursor state, 404 if none
	DELETE /api/v1/session          forget the caller's cursor
	GET    /api/v1/media-list       full snapshot, placeholder included
	GET    /api/v1/server-status    200 once sync and catalog are ready, else 503
	GET    /api/v1/schedule         display on/off schedule and current verdict
	POST   /api/v1/sync             run a reconcile cycle now
	GET    /api/v1/health/live      liveness probe
	GET    /ws                      WebSocket: mediaList greeting, mediaUpdate broadcasts
	GET    /media/{name}            cached media bytes with weak ETag
	GET    /metrics                 Prometheus exposition

Displays identify themselves with the X-Client-Id header. A request without
one receives a generated ID in the response header and should send it back
on later calls to keep its slideshow position.

Every /api/v1 request except the health probes counts as display activity
and wakes the background services through the power controller.

All JSON responses use the APIResponse envelope:

	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "..."}}
	{"success": false, "error": {"code": "NOT_FOUND", "message": "No media available"}}
*/
package api
