// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

package middleware

import "net/http"

// ActivityRecorder is notified about every request that counts as display
// activity. power.Controller satisfies it.
type ActivityRecorder interface {
	Activity()
}

// Activity signals the recorder before the request is handled, so the
// background services are resumed by the time the handler reads from them.
func Activity(recorder ActivityRecorder) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if recorder != nil {
				recorder.Activity()
			}
			next(w, r)
		}
	}
}
