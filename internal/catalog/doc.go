// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

// Package catalog builds the slideshow from the local media cache and keeps
// an independent navigation cursor for every display.
//
// The snapshot is rebuilt from the directory on each refresh tick, ordered by
// filename, filtered through the validity rules, and gets the dynamic-view
// placeholder inserted at floor(N/2). A rebuilt snapshot that is structurally
// equal to the current one is discarded without notifying anyone.
//
// Cursors live in a bounded SessionStore. A cursor is wrapped into the
// current snapshot on every read, so shrinking catalogs never index out of
// range.
package catalog
