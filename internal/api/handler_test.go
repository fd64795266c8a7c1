// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/billboard/internal/catalog"
	"github.com/tomtom215/billboard/internal/config"
	"github.com/tomtom215/billboard/internal/logging"
	"github.com/tomtom215/billboard/internal/power"
	"github.com/tomtom215/billboard/internal/remote"
	syncpkg "github.com/tomtom215/billboard/internal/sync"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{
		Level:  "info",
		Format: "console",
		Output: io.Discard,
	})
}

var testNow = time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)

type fakeSync struct {
	mu          sync.Mutex
	initialized bool
	paused      bool
	last        syncpkg.Result
	triggers    int
}

func (f *fakeSync) IsInitialized() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.initialized
}

func (f *fakeSync) IsPaused() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.paused
}

func (f *fakeSync) LastSync() syncpkg.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

func (f *fakeSync) TriggerSync(ctx context.Context) []remote.FileDescriptor {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.triggers++
	f.last = syncpkg.Result{StartedAt: testNow, Duration: 1500 * time.Millisecond, Listed: true, Valid: 2, Downloaded: 1}
	return []remote.FileDescriptor{{Name: "a_10.03.2025.jpg"}, {Name: "b_10.03.2025.jpg"}}
}

type fakePower struct {
	mu    sync.Mutex
	calls int
}

func (f *fakePower) Activity() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
}

func (f *fakePower) State() power.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls > 0 {
		return power.StateActive
	}
	return power.StatePaused
}

func (f *fakePower) LastActivity() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls > 0 {
		return testNow
	}
	return time.Time{}
}

func (f *fakePower) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type testEnv struct {
	dir     string
	catalog *catalog.Catalog
	sync    *fakeSync
	power   *fakePower
	handler *Handler
	server  http.Handler
}

type envOption func(*config.Config, *catalog.Options)

func withoutPlaceholder() envOption {
	return func(_ *config.Config, o *catalog.Options) { o.PlaceholderWhenEmpty = false }
}

func withRateLimit(reqs int) envOption {
	return func(c *config.Config, _ *catalog.Options) {
		c.Security.RateLimitReqs = reqs
		c.Security.RateLimitDisabled = false
	}
}

func newTestEnv(t *testing.T, files []string, opts ...envOption) *testEnv {
	t.Helper()
	dir := t.TempDir()
	for _, name := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("data:"+name), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	cfg := &config.Config{
		Server: config.ServerConfig{MediaMaxAge: 24 * time.Hour},
		Security: config.SecurityConfig{
			RateLimitReqs:     1000,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: true,
		},
	}
	catOpts := catalog.Options{
		Dir:                  dir,
		ImageExtensions:      []string{".jpg", ".png"},
		VideoExtensions:      []string{".mp4"},
		RefreshInterval:      time.Hour,
		SessionTTL:           time.Hour,
		MaxSessions:          100,
		PlaceholderWhenEmpty: true,
		Clock:                func() time.Time { return testNow },
	}
	for _, o := range opts {
		o(cfg, &catOpts)
	}

	cat := catalog.New(catOpts, nil)
	if err := cat.Start(context.Background()); err != nil {
		t.Fatalf("catalog start: %v", err)
	}
	t.Cleanup(func() { _ = cat.Stop() })

	env := &testEnv{
		dir:     dir,
		catalog: cat,
		sync:    &fakeSync{initialized: true, paused: true},
		power:   &fakePower{},
	}
	env.handler = NewHandler(cfg, Services{
		Catalog: cat,
		Sync:    env.sync,
		Power:   env.power,
	})
	env.handler.now = func() time.Time { return testNow }
	env.server = NewRouter(env.handler, ChiMiddlewareConfigFrom(cfg.Security)).SetupChi()
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return env
}

// itemView is the subset of a media item the display relies on.
type itemView struct {
	Name          string `json:"name"`
	IsDynamicView bool   `json:"isDynamicView"`
	MediaType     string `json:"mediaType"`
	URL           string `json:"url"`
}

func decodeItem(t *testing.T, rec *httptest.ResponseRecorder) itemView {
	t.Helper()
	env := decode(t, rec)
	if !env.Success {
		t.Fatalf("unexpected error response: %s", rec.Body.String())
	}
	var item itemView
	if err := json.Unmarshal(env.Data, &item); err != nil {
		t.Fatalf("decode item %s: %v", env.Data, err)
	}
	return item
}

func clientHeader(id string) http.Header {
	h := http.Header{}
	h.Set("X-Client-Id", id)
	return h
}
