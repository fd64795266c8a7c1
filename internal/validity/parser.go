// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

// Package validity derives display windows from media filenames and decides
// whether a file should be shown on a given day.
//
// A filename carries its own schedule. Recognized tokens, tried in order:
//
//	DD.MM.YYYY@DD.MM.YYYY   explicit range (2 or 4 digit years)
//	DD.MM.YYYY[T<millis>]   single day, optional display duration
//	DD.MM@DD.MM             range in the current year
//	DD.MM                   single day in the current year
//
// The separators '.', '-' and '_' are interchangeable. All dates are UTC
// midnight so comparisons happen on calendar days.
package validity

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

// maxDurationMillis is the largest duration suffix that fits a time.Duration.
const maxDurationMillis = math.MaxInt64 / int64(time.Millisecond)

// ErrNoDate is returned when a filename contains no recognizable date token.
var ErrNoDate = errors.New("no date token in filename")

// ParseError reports a date token that does not form a real calendar date.
type ParseError struct {
	Name  string
	Token string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid date %q in %q: %v", e.Token, e.Name, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Window is the validity of a single media file.
type Window struct {
	// Start is the first calendar day the file is shown.
	Start time.Time

	// End is the last calendar day, inclusive. Zero means the file is shown
	// on Start only.
	End time.Time

	// Duration overrides the display time of the file. Zero means default.
	Duration time.Duration
}

const dateLayout = "2006-01-02"

// MarshalJSON encodes the window as calendar dates, with a null endDate for
// single-day windows.
func (w Window) MarshalJSON() ([]byte, error) {
	out := struct {
		Start string  `json:"startDate"`
		End   *string `json:"endDate"`
	}{Start: w.Start.Format(dateLayout)}
	if w.HasEnd() {
		end := w.End.Format(dateLayout)
		out.End = &end
	}
	return json.Marshal(out)
}

// HasEnd reports whether the window is a range rather than a single day.
func (w Window) HasEnd() bool {
	return !w.End.IsZero()
}

// Equal reports whether two windows cover the same days with the same duration.
func (w Window) Equal(o Window) bool {
	return w.Start.Equal(o.Start) && w.End.Equal(o.End) && w.Duration == o.Duration
}

type pattern struct {
	re       *regexp.Regexp
	hasYear  bool
	hasRange bool
}

const sep = `[-._]`

var patterns = []pattern{
	{
		re:       regexp.MustCompile(`(\d{1,2})` + sep + `(\d{1,2})` + sep + `(\d{2,4})@(\d{1,2})` + sep + `(\d{1,2})` + sep + `(\d{2,4})`),
		hasYear:  true,
		hasRange: true,
	},
	{
		re:      regexp.MustCompile(`(\d{1,2})` + sep + `(\d{1,2})` + sep + `(\d{2,4})(?:T(\d+))?`),
		hasYear: true,
	},
	{
		re:       regexp.MustCompile(`(\d{1,2})` + sep + `(\d{1,2})@(\d{1,2})` + sep + `(\d{1,2})`),
		hasRange: true,
	},
	{
		re: regexp.MustCompile(`(\d{1,2})` + sep + `(\d{1,2})`),
	},
}

// ParseFilename extracts the validity window encoded in name. Tokens without a
// year take the UTC year of now. A token that matches a pattern but names an
// impossible date is skipped and the next pattern is tried; if none yields a
// date the last *ParseError is returned, or ErrNoDate if nothing matched.
func ParseFilename(name string, now time.Time) (*Window, error) {
	currentYear := strconv.Itoa(now.UTC().Year())

	var lastErr error
	for _, p := range patterns {
		m := p.re.FindStringSubmatch(name)
		if m == nil {
			continue
		}

		w, err := p.window(m, currentYear)
		if err != nil {
			lastErr = &ParseError{Name: name, Token: m[0], Err: err}
			continue
		}
		return w, nil
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrNoDate
}

func (p pattern) window(m []string, currentYear string) (*Window, error) {
	switch {
	case p.hasYear && p.hasRange:
		start, err := newDate(m[1], m[2], m[3])
		if err != nil {
			return nil, err
		}
		end, err := newDate(m[4], m[5], m[6])
		if err != nil {
			return nil, err
		}
		return &Window{Start: start, End: end}, nil

	case p.hasYear:
		start, err := newDate(m[1], m[2], m[3])
		if err != nil {
			return nil, err
		}
		w := &Window{Start: start}
		if m[4] != "" {
			if ms, err := strconv.ParseInt(m[4], 10, 64); err == nil && ms <= maxDurationMillis {
				w.Duration = time.Duration(ms) * time.Millisecond
			}
		}
		return w, nil

	case p.hasRange:
		start, err := newDate(m[1], m[2], currentYear)
		if err != nil {
			return nil, err
		}
		end, err := newDate(m[3], m[4], currentYear)
		if err != nil {
			return nil, err
		}
		return &Window{Start: start, End: end}, nil

	default:
		start, err := newDate(m[1], m[2], currentYear)
		if err != nil {
			return nil, err
		}
		return &Window{Start: start}, nil
	}
}

// ParseDate parses a single DD.MM.YYYY (or DD.MM.YY) date using the filename
// separators. It is used for configured dates such as vacation periods.
func ParseDate(s string) (time.Time, error) {
	m := patterns[1].re.FindStringSubmatch(s)
	if m == nil || m[0] != s || m[4] != "" {
		return time.Time{}, fmt.Errorf("date %q: expected DD.MM.YYYY", s)
	}
	return newDate(m[1], m[2], m[3])
}

var (
	errMonth = errors.New("month out of range")
	errDay   = errors.New("day out of range for month")
)

// newDate builds a UTC midnight date and rejects values time.Date would normalize.
func newDate(day, month, year string) (time.Time, error) {
	if len(year) == 2 {
		year = "20" + year
	}
	d, err := strconv.Atoi(day)
	if err != nil {
		return time.Time{}, err
	}
	mo, err := strconv.Atoi(month)
	if err != nil {
		return time.Time{}, err
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return time.Time{}, err
	}
	if mo < 1 || mo > 12 {
		return time.Time{}, errMonth
	}

	t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
	if d < 1 || t.Day() != d || t.Month() != time.Month(mo) {
		return time.Time{}, errDay
	}
	return t, nil
}
