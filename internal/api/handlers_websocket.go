// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

package api

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	gorillaws "github.com/gorilla/websocket"

	"github.com/tomtom215/billboard/internal/logging"
	"github.com/tomtom215/billboard/internal/metrics"
	"github.com/tomtom215/billboard/internal/websocket"
)

// getUpgrader creates a WebSocket upgrader with origin checking and a handshake timeout.
func (h *Handler) getUpgrader() gorillaws.Upgrader {
	return gorillaws.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins. Same-host
// origins are always accepted so displays served by this server connect
// without CORS configuration.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	if h.config == nil {
		return true
	}

	allowed := h.config.Security.CORSOrigins
	for _, o := range allowed {
		if o == "*" {
			return true
		}
	}

	// Browsers always send Origin; only non-browser clients omit it.
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	if u, err := url.Parse(origin); err == nil && strings.EqualFold(u.Host, r.Host) {
		return true
	}
	for _, o := range allowed {
		if o == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}

// WebSocket upgrades the connection, greets the display with the current
// media list, and hands the client to the hub for mediaUpdate broadcasts.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		NewResponseWriter(w, r).ServiceUnavailable("Real-time updates are not available", nil)
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		metrics.WSErrors.WithLabelValues("upgrade").Inc()
		logging.Ctx(r.Context()).Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := websocket.NewClient(h.hub, conn)
	greeting := func() websocket.Message {
		if h.catalog == nil {
			return websocket.MediaListMessage(nil)
		}
		return websocket.MediaListMessage(h.catalog.Items())
	}

	if !h.hub.Attach(r.Context(), client, greeting) {
		_ = conn.Close()
		return
	}
	client.Start()

	logging.Ctx(r.Context()).Debug().Uint64("client", client.ID()).Msg("WebSocket client connected")
}
