// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

package api

import (
	"net/http"

	"github.com/tomtom215/billboard/internal/catalog"
	"github.com/tomtom215/billboard/internal/logging"
	"github.com/tomtom215/billboard/internal/middleware"
)

// errNoMedia is returned when the catalog has nothing to show.
const errNoMedia = "No media available"

// CurrentMedia returns the item at the caller's cursor without moving it.
func (h *Handler) CurrentMedia(w http.ResponseWriter, r *http.Request) {
	h.respondMedia(w, r, h.catalog.Current)
}

// NextMedia advances the caller's cursor and returns the new item.
func (h *Handler) NextMedia(w http.ResponseWriter, r *http.Request) {
	h.respondMedia(w, r, h.catalog.Next)
}

// PreviousMedia moves the caller's cursor back and returns the new item.
func (h *Handler) PreviousMedia(w http.ResponseWriter, r *http.Request) {
	h.respondMedia(w, r, h.catalog.Previous)
}

func (h *Handler) respondMedia(w http.ResponseWriter, r *http.Request, pick func(string) (catalog.MediaItem, bool)) {
	clientID := middleware.GetClientID(r.Context())
	item, ok := pick(clientID)
	if !ok {
		WriteNotFound(w, r, errNoMedia)
		return
	}

	logging.Ctx(r.Context()).Debug().
		Str("item", item.Name).
		Str("path", r.URL.Path).
		Msg("served media item")

	WriteSuccess(w, r, item)
}

// MediaList returns the full current snapshot, placeholder included.
func (h *Handler) MediaList(w http.ResponseWriter, r *http.Request) {
	items := h.catalog.Items()
	if items == nil {
		items = []catalog.MediaItem{}
	}
	WriteSuccess(w, r, items)
}
