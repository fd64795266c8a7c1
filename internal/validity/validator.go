// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

package validity

import "time"

// Status is the outcome of checking a filename against a day.
type Status int

const (
	StatusValid Status = iota
	StatusUnparseable
	StatusNotYetValid
	StatusExpired
	StatusWrongDay
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusUnparseable:
		return "unparseable"
	case StatusNotYetValid:
		return "not_yet_valid"
	case StatusExpired:
		return "expired"
	case StatusWrongDay:
		return "wrong_day"
	default:
		return "unknown"
	}
}

// Check parses name and classifies it against the UTC calendar day of now.
// The returned window is nil when the name is unparseable.
func Check(name string, now time.Time) (*Window, Status) {
	w, err := ParseFilename(name, now)
	if err != nil {
		return nil, StatusUnparseable
	}
	return w, w.StatusOn(now)
}

// StatusOn classifies the window against the UTC calendar day of now.
func (w Window) StatusOn(now time.Time) Status {
	today := dayNumber(now)
	start := dayNumber(w.Start)

	if start > today {
		return StatusNotYetValid
	}
	if !w.HasEnd() {
		if start != today {
			return StatusWrongDay
		}
		return StatusValid
	}
	if dayNumber(w.End) < today {
		return StatusExpired
	}
	return StatusValid
}

// IsCurrentlyValid reports whether the file named name should be shown on
// the UTC calendar day of now.
func IsCurrentlyValid(name string, now time.Time) bool {
	_, s := Check(name, now)
	return s == StatusValid
}

// dayNumber compares calendar days by their components, ignoring time of day.
func dayNumber(t time.Time) int {
	y, m, d := t.UTC().Date()
	return y*10000 + int(m)*100 + d
}
