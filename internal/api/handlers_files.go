// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

package api

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/billboard/internal/logging"
)

// defaultMediaMaxAge applies when no server config is present.
const defaultMediaMaxAge = 24 * time.Hour

// mediaETag is a weak validator built from size and modification time.
func mediaETag(info fs.FileInfo) string {
	return fmt.Sprintf(`W/"%d-%d"`, info.Size(), info.ModTime().UnixMilli())
}

// validMediaName accepts only a bare file name inside the cache directory.
func validMediaName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.HasPrefix(name, ".") {
		return false
	}
	return !strings.ContainsAny(name, "/\\\x00")
}

// ServeMedia streams a cached media file with long-lived caching headers.
// Conditional requests are answered with 304 when the ETag matches.
func (h *Handler) ServeMedia(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var err error
	if r.URL.RawPath != "" {
		// chi routes on the escaped path when one is present.
		name, err = url.PathUnescape(name)
	}
	if err != nil || !validMediaName(name) {
		WriteNotFound(w, r, "Media file not found")
		return
	}

	path := filepath.Join(h.catalog.Dir(), name)
	f, err := os.Open(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logging.Ctx(r.Context()).Warn().Err(err).Str("file", sanitizeLogValue(name)).Msg("failed to open media file")
		}
		WriteNotFound(w, r, "Media file not found")
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		WriteNotFound(w, r, "Media file not found")
		return
	}

	etag := mediaETag(info)
	header := w.Header()
	header.Set("ETag", etag)
	header.Set("Cache-Control", "public, max-age="+strconv.FormatInt(int64(h.mediaMaxAge().Seconds()), 10))
	header.Set("Last-Modified", info.ModTime().UTC().Format(http.TimeFormat))

	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	http.ServeContent(w, r, name, info.ModTime(), f)
}

func (h *Handler) mediaMaxAge() time.Duration {
	if h.config == nil {
		return defaultMediaMaxAge
	}
	return h.config.Server.MediaMaxAge
}

// etagMatches applies the weak comparison If-None-Match uses.
func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	want := strings.TrimPrefix(etag, "W/")
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == want {
			return true
		}
	}
	return false
}
