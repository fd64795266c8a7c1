// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

package validation

import (
	"errors"
	"strings"
	"testing"
	"time"
)

type sample struct {
	Name     string        `koanf:"name" validate:"required"`
	Kind     string        `koanf:"kind" validate:"oneof=s3 directory"`
	Interval time.Duration `koanf:"interval" validate:"gt=0"`
	OnTime   string        `koanf:"on_time" validate:"clock"`
	Nested   nested        `koanf:"nested"`
}

type nested struct {
	Port int `koanf:"port" validate:"min=1,max=65535"`
}

func valid() sample {
	return sample{
		Name:     "lobby",
		Kind:     "s3",
		Interval: time.Second,
		OnTime:   "07:30",
		Nested:   nested{Port: 3000},
	}
}

func TestStructValid(t *testing.T) {
	t.Parallel()

	s := valid()
	if err := Struct(&s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStructErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		mut   func(*sample)
		field string
		msg   string
	}{
		{"required", func(s *sample) { s.Name = "" }, "name", "name is required"},
		{"oneof", func(s *sample) { s.Kind = "ftp" }, "kind", "kind must be one of: s3 directory"},
		{"gt duration", func(s *sample) { s.Interval = 0 }, "interval", "interval must be greater than 0"},
		{"clock", func(s *sample) { s.OnTime = "25:00" }, "on_time", "on_time must be a time of day in HH:MM format"},
		{"nested max", func(s *sample) { s.Nested.Port = 70000 }, "nested.port", "nested.port must be at most 65535"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := valid()
			tt.mut(&s)

			err := Struct(&s)
			var ve Errors
			if !errors.As(err, &ve) {
				t.Fatalf("expected Errors, got %v", err)
			}
			if len(ve) != 1 {
				t.Fatalf("expected 1 error, got %d: %v", len(ve), ve)
			}
			if ve[0].Field != tt.field {
				t.Errorf("field = %q, want %q", ve[0].Field, tt.field)
			}
			if ve[0].Message != tt.msg {
				t.Errorf("message = %q, want %q", ve[0].Message, tt.msg)
			}
		})
	}
}

func TestErrorsJoined(t *testing.T) {
	t.Parallel()

	s := valid()
	s.Name = ""
	s.Kind = "ftp"

	err := Struct(&s)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "name is required") || !strings.Contains(err.Error(), "kind must be one of") {
		t.Errorf("joined message = %q", err.Error())
	}
}
