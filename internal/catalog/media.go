// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

package catalog

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tomtom215/billboard/internal/validity"
)

// PlaceholderName identifies the synthetic dynamic view.
const PlaceholderName = "dynamic-view"

// Media types reported to displays.
const (
	MediaTypeImage   = "image"
	MediaTypeVideo   = "video"
	MediaTypeDynamic = "dynamic"
)

// MediaItem is one entry of the slideshow.
type MediaItem struct {
	Name string `json:"name"`

	// Path is the absolute local path; empty for the placeholder. It is not
	// exposed to displays, which fetch media through URL.
	Path string `json:"-"`

	Validity *validity.Window `json:"validity,omitempty"`

	// Duration overrides the display time in milliseconds; zero means the
	// display default.
	Duration int64 `json:"duration,omitempty"`

	IsDynamicView bool   `json:"isDynamicView"`
	MediaType     string `json:"mediaType"`
	URL           string `json:"url,omitempty"`
}

// Placeholder returns the dynamic view item.
func Placeholder() MediaItem {
	return MediaItem{
		Name:          PlaceholderName,
		IsDynamicView: true,
		MediaType:     MediaTypeDynamic,
	}
}

// Equal reports whether two snapshots are structurally identical: same
// names in the same order with the same validity windows, durations and
// placeholder position.
func Equal(a, b []MediaItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].equal(b[i]) {
			return false
		}
	}
	return true
}

func (m MediaItem) equal(o MediaItem) bool {
	if m.Name != o.Name || m.IsDynamicView != o.IsDynamicView || m.Duration != o.Duration {
		return false
	}
	switch {
	case m.Validity == nil && o.Validity == nil:
		return true
	case m.Validity == nil || o.Validity == nil:
		return false
	default:
		return m.Validity.Equal(*o.Validity)
	}
}

// extensionSet maps lowercase extensions to their media type.
type extensionSet map[string]string

func newExtensionSet(images, videos []string) extensionSet {
	set := make(extensionSet, len(images)+len(videos))
	for _, ext := range images {
		set[normalizeExt(ext)] = MediaTypeImage
	}
	for _, ext := range videos {
		set[normalizeExt(ext)] = MediaTypeVideo
	}
	return set
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// build lists dir and returns the valid media items in name order with the
// placeholder spliced in at the middle.
func build(dir string, exts extensionSet, now time.Time, placeholderWhenEmpty bool) ([]MediaItem, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	media := make([]MediaItem, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		kind, ok := exts[strings.ToLower(filepath.Ext(name))]
		if !ok {
			continue
		}

		w, status := validity.Check(name, now)
		if status != validity.StatusValid {
			continue
		}

		media = append(media, MediaItem{
			Name:      name,
			Path:      filepath.Join(dir, name),
			Validity:  w,
			Duration:  w.Duration.Milliseconds(),
			MediaType: kind,
			URL:       "/media/" + url.PathEscape(name),
		})
	}

	return withPlaceholder(media, placeholderWhenEmpty), nil
}

// withPlaceholder inserts the placeholder at floor(len/2).
func withPlaceholder(media []MediaItem, whenEmpty bool) []MediaItem {
	if len(media) == 0 && !whenEmpty {
		return []MediaItem{}
	}

	mid := len(media) / 2
	out := make([]MediaItem, 0, len(media)+1)
	out = append(out, media[:mid]...)
	out = append(out, Placeholder())
	out = append(out, media[mid:]...)
	return out
}
