// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/billboard/internal/schedule"
	syncpkg "github.com/tomtom215/billboard/internal/sync"
)

func TestServerStatusReady(t *testing.T) {
	env := newTestEnv(t, twoFiles)
	env.sync.last = syncpkg.Result{StartedAt: testNow, Duration: 2 * time.Second, Listed: true, Valid: 2, Downloaded: 2}

	rec := env.do(t, http.MethodGet, "/api/v1/server-status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var st ServerStatus
	if err := json.Unmarshal(decode(t, rec).Data, &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.Status != "ok" {
		t.Errorf("status = %q, want ok", st.Status)
	}
	if !st.Sync.Initialized || !st.Catalog.Initialized {
		t.Errorf("initialized flags = %+v / %+v", st.Sync, st.Catalog)
	}
	if st.Catalog.Items != 3 {
		t.Errorf("catalog items = %d, want 3", st.Catalog.Items)
	}
	if st.Sync.LastSync == nil || st.Sync.LastSync.DurationMs != 2000 || st.Sync.LastSync.Downloaded != 2 {
		t.Errorf("last sync = %+v", st.Sync.LastSync)
	}
	// The status request itself counts as activity.
	if st.Power.State != "active" {
		t.Errorf("power state = %q, want active", st.Power.State)
	}
}

func TestServerStatusUnavailableUntilSyncInitialized(t *testing.T) {
	env := newTestEnv(t, twoFiles)
	env.sync.initialized = false

	rec := env.do(t, http.MethodGet, "/api/v1/server-status", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	resp := decode(t, rec)
	if resp.Error == nil || resp.Error.Code != ErrCodeServiceUnavailable {
		t.Fatalf("error = %+v", resp.Error)
	}

	raw, err := json.Marshal(resp.Error.Details)
	if err != nil {
		t.Fatalf("marshal details: %v", err)
	}
	var st ServerStatus
	if err := json.Unmarshal(raw, &st); err != nil {
		t.Fatalf("decode details: %v", err)
	}
	if st.Status != "initializing" || st.Sync.Initialized || !st.Catalog.Initialized {
		t.Errorf("details = %+v", st)
	}
	if st.Sync.LastSync != nil {
		t.Errorf("last sync = %+v, want none before the first cycle", st.Sync.LastSync)
	}
}

func TestServerStatusUnavailableWithoutCatalog(t *testing.T) {
	h := NewHandler(nil, Services{Sync: &fakeSync{initialized: true}})
	st, ready := h.serverStatus()
	if ready || st.Catalog.Initialized {
		t.Errorf("ready = %v, catalog = %+v", ready, st.Catalog)
	}
}

func TestHealthLiveIsNotActivity(t *testing.T) {
	env := newTestEnv(t, twoFiles)

	rec := env.do(t, http.MethodGet, "/api/v1/health/live", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if env.power.count() != 0 {
		t.Errorf("activity calls = %d, want 0", env.power.count())
	}

	env.do(t, http.MethodGet, "/api/v1/media-list", nil)
	env.do(t, http.MethodGet, "/api/v1/next-media", clientHeader("lobby"))
	if env.power.count() != 2 {
		t.Errorf("activity calls = %d, want 2", env.power.count())
	}
}

func TestScheduleDisabled(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/api/v1/schedule", nil)
	var resp ScheduleResponse
	if err := json.Unmarshal(decode(t, rec).Data, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Enabled || !resp.Active || resp.Reason != schedule.ReasonDisabled {
		t.Errorf("schedule = %+v", resp)
	}
}

func TestScheduleEnabled(t *testing.T) {
	env := newTestEnv(t, nil)
	env.handler.schedule = &schedule.Schedule{
		Enabled:  true,
		Days:     []time.Weekday{time.Monday, time.Tuesday},
		OnTime:   7*time.Hour + 30*time.Minute,
		OffTime:  18 * time.Hour,
		Location: time.UTC,
		Vacation: []schedule.Period{{
			Start: time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2025, time.August, 15, 0, 0, 0, 0, time.UTC),
		}},
	}

	rec := env.do(t, http.MethodGet, "/api/v1/schedule", nil)
	var resp ScheduleResponse
	if err := json.Unmarshal(decode(t, rec).Data, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// testNow is Monday 09:30 UTC.
	if !resp.Enabled || !resp.Active || resp.Reason != schedule.ReasonOnAir {
		t.Errorf("schedule = %+v", resp)
	}
	if resp.OnTime != "07:30" || resp.OffTime != "18:00" {
		t.Errorf("times = %s-%s", resp.OnTime, resp.OffTime)
	}
	if len(resp.Days) != 2 || resp.Days[0] != 1 || resp.Days[1] != 2 {
		t.Errorf("days = %v", resp.Days)
	}
	if len(resp.Vacation) != 1 || resp.Vacation[0].Start != "2025-08-01" || resp.Vacation[0].End != "2025-08-15" {
		t.Errorf("vacation = %+v", resp.Vacation)
	}
	if resp.Timezone != "UTC" {
		t.Errorf("timezone = %q", resp.Timezone)
	}
}

func TestTriggerSync(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/api/v1/sync", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if env.sync.triggers != 1 {
		t.Errorf("triggers = %d, want 1", env.sync.triggers)
	}
	var report SyncReport
	if err := json.Unmarshal(decode(t, rec).Data, &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Valid != 2 || report.DurationMs != 1500 || !report.Listed {
		t.Errorf("report = %+v", report)
	}
}

func TestTriggerSyncBeforeInitialization(t *testing.T) {
	env := newTestEnv(t, nil)
	env.sync.initialized = false

	rec := env.do(t, http.MethodPost, "/api/v1/sync", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if env.sync.triggers != 0 {
		t.Errorf("triggers = %d, want 0", env.sync.triggers)
	}
}

func TestTriggerSyncRequiresPost(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/api/v1/sync", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00"},
		{7*time.Hour + 5*time.Minute, "07:05"},
		{23*time.Hour + 59*time.Minute, "23:59"},
	}
	for _, tt := range tests {
		if got := formatClock(tt.in); got != tt.want {
			t.Errorf("formatClock(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
