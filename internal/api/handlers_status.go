// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/billboard/internal/logging"
	syncpkg "github.com/tomtom215/billboard/internal/sync"
)

// ServerStatus is the body of /api/v1/server-status.
type ServerStatus struct {
	Status        string        `json:"status"`
	UptimeSeconds float64       `json:"uptime_seconds"`
	Sync          SyncStatus    `json:"sync"`
	Catalog       CatalogStatus `json:"catalog"`
	Power         PowerStatus   `json:"power"`
	WebSocket     HubStatus     `json:"websocket"`
}

// SyncStatus describes the reconcile loop.
type SyncStatus struct {
	Initialized bool        `json:"initialized"`
	Paused      bool        `json:"paused"`
	LastSync    *SyncReport `json:"last_sync,omitempty"`
}

// SyncReport is one reconcile cycle as reported over HTTP.
type SyncReport struct {
	StartedAt  time.Time `json:"started_at"`
	DurationMs int64     `json:"duration_ms"`
	Listed     bool      `json:"listed"`
	Valid      int       `json:"valid"`
	Downloaded int       `json:"downloaded"`
	Deleted    int       `json:"deleted"`
	Failed     int       `json:"failed"`
}

// CatalogStatus describes the slideshow snapshot.
type CatalogStatus struct {
	Initialized     bool  `json:"initialized"`
	Items           int   `json:"items"`
	Sessions        int   `json:"sessions"`
	SessionsEvicted int64 `json:"sessions_evicted"`
}

// PowerStatus describes the idle controller.
type PowerStatus struct {
	State        string     `json:"state"`
	LastActivity *time.Time `json:"last_activity,omitempty"`
}

// HubStatus describes the WebSocket fanout.
type HubStatus struct {
	Clients int `json:"clients"`
}

// newSyncReport converts a cycle result; the zero Result means no cycle has run yet.
func newSyncReport(res syncpkg.Result) *SyncReport {
	if res.StartedAt.IsZero() {
		return nil
	}
	return &SyncReport{
		StartedAt:  res.StartedAt,
		DurationMs: res.Duration.Milliseconds(),
		Listed:     res.Listed,
		Valid:      res.Valid,
		Downloaded: res.Downloaded,
		Deleted:    res.Deleted,
		Failed:     res.Failed,
	}
}

func (h *Handler) serverStatus() (ServerStatus, bool) {
	st := ServerStatus{
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}

	if h.sync != nil {
		st.Sync = SyncStatus{
			Initialized: h.sync.IsInitialized(),
			Paused:      h.sync.IsPaused(),
			LastSync:    newSyncReport(h.sync.LastSync()),
		}
	}
	if h.catalog != nil {
		st.Catalog = CatalogStatus{
			Initialized: h.catalog.IsInitialized(),
			Items:       len(h.catalog.Items()),
		}
		if sessions := h.catalog.Sessions(); sessions != nil {
			st.Catalog.Sessions = sessions.Len()
			st.Catalog.SessionsEvicted = sessions.Evicted()
		}
	}
	if h.power != nil {
		st.Power.State = h.power.State().String()
		if last := h.power.LastActivity(); !last.IsZero() {
			st.Power.LastActivity = &last
		}
	}
	if h.hub != nil {
		st.WebSocket.Clients = h.hub.GetClientCount()
	}

	ready := st.Sync.Initialized && st.Catalog.Initialized
	if ready {
		st.Status = "ok"
	} else {
		st.Status = "initializing"
	}
	return st, ready
}

// ServerStatusHandler reports readiness: 200 once both the sync engine and
// the catalog have initialized, 503 before that.
func (h *Handler) ServerStatusHandler(w http.ResponseWriter, r *http.Request) {
	st, ready := h.serverStatus()
	if !ready {
		NewResponseWriter(w, r).ServiceUnavailable("Services are still initializing", st)
		return
	}
	WriteSuccess(w, r, st)
}

// HealthLive handles liveness probe requests.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// ScheduleResponse is the body of /api/v1/schedule.
type ScheduleResponse struct {
	Enabled  bool             `json:"enabled"`
	Active   bool             `json:"active"`
	Reason   string           `json:"reason"`
	OnTime   string           `json:"on_time,omitempty"`
	OffTime  string           `json:"off_time,omitempty"`
	Days     []int            `json:"days,omitempty"`
	Timezone string           `json:"timezone,omitempty"`
	Vacation []VacationPeriod `json:"vacation_periods,omitempty"`
	Now      time.Time        `json:"now"`
}

// VacationPeriod is an inclusive day range.
type VacationPeriod struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Schedule reports the configured display schedule and whether displays
// should be on right now.
func (h *Handler) Schedule(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	status := h.schedule.Evaluate(now)

	resp := ScheduleResponse{
		Active: status.Active,
		Reason: status.Reason,
		Now:    now,
	}
	if s := h.schedule; s != nil && s.Enabled {
		resp.Enabled = true
		resp.OnTime = formatClock(s.OnTime)
		resp.OffTime = formatClock(s.OffTime)
		for _, d := range s.Days {
			resp.Days = append(resp.Days, int(d))
		}
		if s.Location != nil {
			resp.Timezone = s.Location.String()
			resp.Now = now.In(s.Location)
		}
		for _, p := range s.Vacation {
			resp.Vacation = append(resp.Vacation, VacationPeriod{
				Start: p.Start.Format(isoDate),
				End:   p.End.Format(isoDate),
			})
		}
	}

	WriteSuccess(w, r, resp)
}

const isoDate = "2006-01-02"

func formatClock(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d/time.Hour), int(d%time.Hour/time.Minute))
}

// TriggerSync runs a reconcile cycle immediately and returns its outcome.
func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	if h.sync == nil || !h.sync.IsInitialized() {
		NewResponseWriter(w, r).ServiceUnavailable("Sync engine is not initialized", nil)
		return
	}

	valid := h.sync.TriggerSync(r.Context())
	logging.Ctx(r.Context()).Info().Int("valid", len(valid)).Msg("manual sync completed")

	WriteSuccess(w, r, newSyncReport(h.sync.LastSync()))
}
