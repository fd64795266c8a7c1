// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

package api

import (
	"net/http"

	"github.com/tomtom215/billboard/internal/logging"
	"github.com/tomtom215/billboard/internal/middleware"
)

// SessionReset reports the outcome of DELETE /api/v1/session.
type SessionReset struct {
	ClientID string `json:"clientId"`
	Existed  bool   `json:"existed"`
}

// Session returns the caller's cursor state without creating or touching it.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	clientID := middleware.GetClientID(r.Context())
	sess, ok := h.catalog.Sessions().Get(clientID)
	if !ok {
		WriteNotFound(w, r, "No session for this client")
		return
	}
	WriteSuccess(w, r, sess)
}

// ResetSession forgets the caller's cursor so the next request starts at the
// first item.
func (h *Handler) ResetSession(w http.ResponseWriter, r *http.Request) {
	clientID := middleware.GetClientID(r.Context())
	existed := h.catalog.Sessions().Delete(clientID)

	logging.Ctx(r.Context()).Info().
		Str("client_id", sanitizeLogValue(clientID)).
		Bool("existed", existed).
		Msg("display session reset")

	WriteSuccess(w, r, SessionReset{ClientID: clientID, Existed: existed})
}
