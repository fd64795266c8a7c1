// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

package api

import (
	"net/http"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/billboard/internal/catalog"
)

var twoFiles = []string{"a_10.03.2025.jpg", "b_01.03.2025@31.03.2025.png"}

func TestNavigationWrapsAroundPlaceholder(t *testing.T) {
	env := newTestEnv(t, twoFiles)
	h := clientHeader("lobby")

	steps := []struct {
		path string
		want string
	}{
		{"/api/v1/current-media", "a_10.03.2025.jpg"},
		{"/api/v1/next-media", catalog.PlaceholderName},
		{"/api/v1/next-media", "b_01.03.2025@31.03.2025.png"},
		{"/api/v1/next-media", "a_10.03.2025.jpg"},
		{"/api/v1/previous-media", "b_01.03.2025@31.03.2025.png"},
		{"/api/v1/current-media", "b_01.03.2025@31.03.2025.png"},
	}
	for i, step := range steps {
		rec := env.do(t, http.MethodGet, step.path, h)
		if rec.Code != http.StatusOK {
			t.Fatalf("step %d %s: status = %d, body %s", i, step.path, rec.Code, rec.Body.String())
		}
		if got := decodeItem(t, rec).Name; got != step.want {
			t.Fatalf("step %d %s: item = %q, want %q", i, step.path, got, step.want)
		}
	}
}

func TestNavigationCursorsAreIndependent(t *testing.T) {
	env := newTestEnv(t, twoFiles)

	env.do(t, http.MethodGet, "/api/v1/next-media", clientHeader("display-1"))

	rec := env.do(t, http.MethodGet, "/api/v1/current-media", clientHeader("display-2"))
	if got := decodeItem(t, rec).Name; got != "a_10.03.2025.jpg" {
		t.Errorf("display-2 current = %q, want first item", got)
	}
	rec = env.do(t, http.MethodGet, "/api/v1/current-media", clientHeader("display-1"))
	if got := decodeItem(t, rec); !got.IsDynamicView {
		t.Errorf("display-1 current = %q, want placeholder", got.Name)
	}
}

func TestMediaItemShape(t *testing.T) {
	env := newTestEnv(t, []string{"a_10.03.2025.jpg"})

	rec := env.do(t, http.MethodGet, "/api/v1/current-media", clientHeader("lobby"))
	item := decodeItem(t, rec)
	if item.MediaType != catalog.MediaTypeImage {
		t.Errorf("mediaType = %q, want %q", item.MediaType, catalog.MediaTypeImage)
	}
	if item.URL != "/media/a_10.03.2025.jpg" {
		t.Errorf("url = %q", item.URL)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", got)
	}
}

func TestMissingClientIDGetsGenerated(t *testing.T) {
	env := newTestEnv(t, twoFiles)

	rec := env.do(t, http.MethodGet, "/api/v1/next-media", nil)
	id := rec.Header().Get("X-Client-Id")
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("X-Client-Id %q is not a UUID: %v", id, err)
	}

	// Reusing the echoed ID continues the same cursor.
	rec = env.do(t, http.MethodGet, "/api/v1/current-media", clientHeader(id))
	if got := decodeItem(t, rec); !got.IsDynamicView {
		t.Errorf("current after next = %q, want placeholder", got.Name)
	}
}

func TestEmptyCatalogReturnsNotFound(t *testing.T) {
	env := newTestEnv(t, nil, withoutPlaceholder())

	for _, path := range []string{"/api/v1/current-media", "/api/v1/next-media", "/api/v1/previous-media"} {
		rec := env.do(t, http.MethodGet, path, clientHeader("lobby"))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s: status = %d, want 404", path, rec.Code)
		}
		resp := decode(t, rec)
		if resp.Success || resp.Error == nil {
			t.Fatalf("%s: expected error envelope, got %s", path, rec.Body.String())
		}
		if resp.Error.Code != ErrCodeNotFound || resp.Error.Message != "No media available" {
			t.Errorf("%s: error = %+v", path, resp.Error)
		}
	}
}

func TestEmptyCatalogShowsPlaceholder(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/api/v1/current-media", clientHeader("lobby"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := decodeItem(t, rec); !got.IsDynamicView {
		t.Errorf("item = %q, want placeholder", got.Name)
	}
}

func TestMediaList(t *testing.T) {
	env := newTestEnv(t, append([]string{"expired_01.01.2024.jpg"}, twoFiles...))

	rec := env.do(t, http.MethodGet, "/api/v1/media-list", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var items []itemView
	if err := json.Unmarshal(decode(t, rec).Data, &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []string{"a_10.03.2025.jpg", catalog.PlaceholderName, "b_01.03.2025@31.03.2025.png"}
	if len(items) != len(want) {
		t.Fatalf("items = %+v, want %v", items, want)
	}
	for i := range want {
		if items[i].Name != want[i] {
			t.Errorf("items[%d] = %q, want %q", i, items[i].Name, want[i])
		}
	}
}

func TestMediaListEmpty(t *testing.T) {
	env := newTestEnv(t, nil, withoutPlaceholder())

	rec := env.do(t, http.MethodGet, "/api/v1/media-list", nil)
	if got := string(decode(t, rec).Data); got != "[]" {
		t.Errorf("data = %s, want []", got)
	}
}
