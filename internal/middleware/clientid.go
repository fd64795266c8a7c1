// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/tomtom215/billboard/internal/logging"
)

const ClientIDKey contextKey = "client_id"

// ClientIDHeader identifies a display. Each display keeps its own slideshow cursor.
const ClientIDHeader = "X-Client-Id"

// maxClientIDLength bounds the header so a misbehaving client cannot
// inflate the session store keys.
const maxClientIDLength = 128

// ClientID resolves the display identity. When the request carries no
// usable X-Client-Id a fresh UUID is assigned and echoed in the response
// so the display can reuse it on its next call.
func ClientID(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID := strings.TrimSpace(r.Header.Get(ClientIDHeader))
		if clientID == "" || len(clientID) > maxClientIDLength {
			clientID = uuid.New().String()
		}

		w.Header().Set(ClientIDHeader, clientID)

		ctx := context.WithValue(r.Context(), ClientIDKey, clientID)
		ctx = logging.ContextWithClientID(ctx, clientID)

		next(w, r.WithContext(ctx))
	}
}

// GetClientID extracts the client ID from context
func GetClientID(ctx context.Context) string {
	if id, ok := ctx.Value(ClientIDKey).(string); ok {
		return id
	}
	return ""
}
