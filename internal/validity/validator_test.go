// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

package validity

import (
	"testing"
	"time"
)

func TestIsCurrentlyValidSingleDay(t *testing.T) {
	t.Parallel()

	const name = "25.03.2024.jpg"

	tests := []struct {
		now  time.Time
		want bool
	}{
		{time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2024, 3, 25, 12, 0, 0, 0, time.UTC), true},
		{time.Date(2024, 3, 25, 23, 59, 59, 0, time.UTC), true},
		{time.Date(2024, 3, 24, 23, 59, 59, 0, time.UTC), false},
		{time.Date(2024, 3, 26, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		if got := IsCurrentlyValid(name, tt.now); got != tt.want {
			t.Errorf("IsCurrentlyValid(%q, %v) = %v, want %v", name, tt.now, got, tt.want)
		}
	}
}

func TestIsCurrentlyValidRange(t *testing.T) {
	t.Parallel()

	const name = "01.01.2024@31.12.2024.jpg"

	for d := date(2024, 1, 1); d.Year() == 2024; d = d.AddDate(0, 0, 1) {
		if !IsCurrentlyValid(name, d.Add(13*time.Hour)) {
			t.Fatalf("range file invalid on %v", d)
		}
	}

	if IsCurrentlyValid(name, time.Date(2023, 12, 31, 23, 0, 0, 0, time.UTC)) {
		t.Error("range file valid on 2023-12-31")
	}
	if IsCurrentlyValid(name, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("range file valid on 2025-01-01")
	}
}

func TestIsCurrentlyValidUsesUTCDay(t *testing.T) {
	t.Parallel()

	// 00:30 on the 26th in UTC+2 is still the 25th in UTC.
	loc := time.FixedZone("UTC+2", 2*60*60)
	now := time.Date(2024, 3, 26, 0, 30, 0, 0, loc)
	if !IsCurrentlyValid("25.03.2024.jpg", now) {
		t.Error("expected file valid on UTC day 2024-03-25")
	}
}

func TestIsCurrentlyValidDeterministic(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	names := []string{"01.06.2024.jpg", "nodate.png", "01.05@30.06.mp4", "31.04.2024.jpg"}
	for _, n := range names {
		if IsCurrentlyValid(n, now) != IsCurrentlyValid(n, now) {
			t.Errorf("IsCurrentlyValid(%q) not deterministic", n)
		}
	}
}

func TestCheckStatus(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		want Status
	}{
		{"15.06.2024.jpg", StatusValid},
		{"01.06.2024@30.06.2024.jpg", StatusValid},
		{"16.06.2024.jpg", StatusNotYetValid},
		{"16.06.2024@20.06.2024.jpg", StatusNotYetValid},
		{"01.06.2024@14.06.2024.jpg", StatusExpired},
		{"14.06.2024.jpg", StatusWrongDay},
		{"poster.jpg", StatusUnparseable},
		{"31.06.2024.jpg", StatusUnparseable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w, got := Check(tt.name, now)
			if got != tt.want {
				t.Errorf("Check(%q) = %v, want %v", tt.name, got, tt.want)
			}
			if (got == StatusUnparseable) != (w == nil) {
				t.Errorf("window presence mismatch for %v: %+v", got, w)
			}
		})
	}
}

func TestStatusString(t *testing.T) {
	t.Parallel()

	if StatusExpired.String() != "expired" {
		t.Errorf("got %q", StatusExpired.String())
	}
	if Status(99).String() != "unknown" {
		t.Errorf("got %q", Status(99).String())
	}
}
