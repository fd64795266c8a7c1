// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordSyncCycle(t *testing.T) {
	beforeOK := testutil.ToFloat64(SyncCycles.WithLabelValues("success"))
	beforeFail := testutil.ToFloat64(SyncCycles.WithLabelValues("list_failed"))

	RecordSyncCycle(200*time.Millisecond, 4, true)
	RecordSyncCycle(time.Second, 0, false)

	if got := testutil.ToFloat64(SyncCycles.WithLabelValues("success")) - beforeOK; got != 1 {
		t.Errorf("success cycles delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(SyncCycles.WithLabelValues("list_failed")) - beforeFail; got != 1 {
		t.Errorf("list_failed cycles delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(SyncValidRemoteFiles); got != 4 {
		t.Errorf("valid remote files = %v, want 4 (failed cycle must not reset it)", got)
	}
	if testutil.ToFloat64(SyncLastSuccess) == 0 {
		t.Error("last success timestamp not set")
	}
}

func TestRecordSyncFile(t *testing.T) {
	tests := []struct {
		operation string
		err       error
		result    string
	}{
		{"download", nil, "success"},
		{"download", errors.New("timeout"), "failure"},
		{"delete", nil, "success"},
		{"delete", errors.New("permission denied"), "failure"},
	}

	for _, tt := range tests {
		t.Run(tt.operation+"_"+tt.result, func(t *testing.T) {
			c := SyncFiles.WithLabelValues(tt.operation, tt.result)
			before := testutil.ToFloat64(c)
			RecordSyncFile(tt.operation, tt.err)
			if got := testutil.ToFloat64(c) - before; got != 1 {
				t.Errorf("delta = %v, want 1", got)
			}
		})
	}
}

func TestRecordAPIRequest(t *testing.T) {
	c := APIRequestsTotal.WithLabelValues("GET", "/api/v1/current-media", "200")
	before := testutil.ToFloat64(c)

	RecordAPIRequest("GET", "/api/v1/current-media", "200", 3*time.Millisecond)

	if got := testutil.ToFloat64(c) - before; got != 1 {
		t.Errorf("delta = %v, want 1", got)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("active = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active = %v, want %v", got, before)
	}
}

func TestSetPowerActive(t *testing.T) {
	SetPowerActive(true)
	if testutil.ToFloat64(PowerState) != 1 {
		t.Error("expected power_state 1")
	}
	SetPowerActive(false)
	if testutil.ToFloat64(PowerState) != 0 {
		t.Error("expected power_state 0")
	}
}
