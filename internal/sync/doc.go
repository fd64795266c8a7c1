// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

/*
Package sync mirrors the currently valid files of a remote source into the
local media cache.

Each reconciliation cycle:

 1. Lists the remote source, retrying with linear backoff. If every attempt
    fails the cycle ends with an empty result and local files stay untouched.
 2. Keeps the files whose names are valid today (see package validity).
 3. Downloads every valid file missing locally. Each download is retried with
    exponential backoff; a file that still fails is logged and skipped.
 4. Deletes every local file that is not in the valid listing, with the same
    per-file retry and skip semantics.

Downloads are written to a hidden temporary file and renamed into place, so
readers of the cache directory only ever see complete files.

The Engine starts paused. Resume starts the periodic timer and runs one cycle
immediately; Pause stops the timer. Both are called by the idle controller.
Cycles never overlap: a tick that arrives while a cycle runs is skipped.
*/
package sync
