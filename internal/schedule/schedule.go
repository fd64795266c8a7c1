// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

// Package schedule decides whether displays should be showing content at a
// given moment: weekday list, daily on/off window and vacation periods.
package schedule

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/billboard/internal/config"
	"github.com/tomtom215/billboard/internal/validity"
)

// Reasons reported by Evaluate.
const (
	ReasonDisabled = "schedule_disabled"
	ReasonOnAir    = "within_schedule"
	ReasonVacation = "vacation"
	ReasonDayOff   = "day_not_scheduled"
	ReasonOffHours = "outside_hours"
)

// Status is the outcome of evaluating the schedule.
type Status struct {
	Active bool   `json:"active"`
	Reason string `json:"reason"`
}

// Period is an inclusive range of calendar days.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Schedule is an evaluated display schedule.
type Schedule struct {
	Enabled  bool
	Days     []time.Weekday
	OnTime   time.Duration // offset from midnight
	OffTime  time.Duration
	Vacation []Period
	Location *time.Location
}

// FromConfig parses the schedule configuration section.
func FromConfig(cfg config.ScheduleConfig) (*Schedule, error) {
	s := &Schedule{Enabled: cfg.Enabled, Location: time.Local}

	if cfg.Timezone != "" {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("timezone: %w", err)
		}
		s.Location = loc
	}

	var err error
	if s.OnTime, err = parseClock(cfg.OnTime); err != nil {
		return nil, fmt.Errorf("on_time: %w", err)
	}
	if s.OffTime, err = parseClock(cfg.OffTime); err != nil {
		return nil, fmt.Errorf("off_time: %w", err)
	}

	for _, d := range cfg.Days {
		if d < 0 || d > 6 {
			return nil, fmt.Errorf("day %d out of range 0-6", d)
		}
		s.Days = append(s.Days, time.Weekday(d))
	}

	for i, p := range cfg.VacationPeriods {
		start, err := validity.ParseDate(p.Start)
		if err != nil {
			return nil, fmt.Errorf("vacation_periods[%d].start: %w", i, err)
		}
		end, err := validity.ParseDate(p.End)
		if err != nil {
			return nil, fmt.Errorf("vacation_periods[%d].end: %w", i, err)
		}
		s.Vacation = append(s.Vacation, Period{Start: start, End: end})
	}

	return s, nil
}

// parseClock parses HH:MM into an offset from midnight.
func parseClock(v string) (time.Duration, error) {
	h, m, ok := strings.Cut(v, ":")
	if !ok {
		return 0, fmt.Errorf("invalid time %q, want HH:MM", v)
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", v)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", v)
	}
	return time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute, nil
}

// Evaluate reports whether displays should be on at now. Vacation wins over
// the weekly schedule. An off time earlier than the on time spans midnight.
func (s *Schedule) Evaluate(now time.Time) Status {
	if s == nil || !s.Enabled {
		return Status{Active: true, Reason: ReasonDisabled}
	}

	loc := s.Location
	if loc == nil {
		loc = time.Local
	}
	local := now.In(loc)

	if s.onVacation(local) {
		return Status{Active: false, Reason: ReasonVacation}
	}
	if !slices.Contains(s.Days, local.Weekday()) {
		return Status{Active: false, Reason: ReasonDayOff}
	}

	y, mo, d := local.Date()
	sinceMidnight := local.Sub(time.Date(y, mo, d, 0, 0, 0, 0, loc))

	var on bool
	if s.OffTime < s.OnTime {
		on = sinceMidnight >= s.OnTime || sinceMidnight < s.OffTime
	} else {
		on = sinceMidnight >= s.OnTime && sinceMidnight < s.OffTime
	}
	if !on {
		return Status{Active: false, Reason: ReasonOffHours}
	}
	return Status{Active: true, Reason: ReasonOnAir}
}

// onVacation compares calendar days in the schedule's zone.
func (s *Schedule) onVacation(local time.Time) bool {
	today := dayNumber(local.Date())
	for _, p := range s.Vacation {
		start := dayNumber(p.Start.Date())
		end := dayNumber(p.End.Date())
		if today >= start && today <= end {
			return true
		}
	}
	return false
}

func dayNumber(y int, m time.Month, d int) int {
	return y*10000 + int(m)*100 + d
}
