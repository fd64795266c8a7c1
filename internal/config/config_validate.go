// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/billboard/internal/validation"
	"github.com/tomtom215/billboard/internal/validity"
)

// Validate checks field rules first, then the rules that span fields.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}

	if err := c.validateRemote(); err != nil {
		return err
	}

	if err := c.validateWebSocket(); err != nil {
		return err
	}

	return c.validateSchedule()
}

// validateRemote checks the settings required by the selected source.
func (c *Config) validateRemote() error {
	switch c.Remote.Type {
	case "directory":
		if c.Remote.Directory == "" {
			return fmt.Errorf("remote.directory is required when remote.type=directory")
		}
	case "s3":
		if c.Remote.S3.Bucket == "" {
			return fmt.Errorf("remote.s3.bucket is required when remote.type=s3")
		}
		if (c.Remote.S3.AccessKeyID == "") != (c.Remote.S3.SecretAccessKey == "") {
			return fmt.Errorf("remote.s3.access_key_id and remote.s3.secret_access_key must be set together")
		}
	}
	return nil
}

// validateWebSocket ensures pings are sent before the read deadline expires.
func (c *Config) validateWebSocket() error {
	if c.WebSocket.PingInterval >= c.WebSocket.PongWait {
		return fmt.Errorf("websocket.ping_interval (%v) must be shorter than websocket.pong_wait (%v)",
			c.WebSocket.PingInterval, c.WebSocket.PongWait)
	}
	return nil
}

// validateSchedule checks the timezone and vacation period dates.
func (c *Config) validateSchedule() error {
	if c.Schedule.Timezone != "" {
		if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
			return fmt.Errorf("schedule.timezone: %w", err)
		}
	}

	for i, p := range c.Schedule.VacationPeriods {
		start, err := validity.ParseDate(p.Start)
		if err != nil {
			return fmt.Errorf("schedule.vacation_periods[%d].start: %w", i, err)
		}
		end, err := validity.ParseDate(p.End)
		if err != nil {
			return fmt.Errorf("schedule.vacation_periods[%d].end: %w", i, err)
		}
		if end.Before(start) {
			return fmt.Errorf("schedule.vacation_periods[%d]: end %s is before start %s", i, p.End, p.Start)
		}
	}
	return nil
}
