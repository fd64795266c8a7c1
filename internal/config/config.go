// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

// Package config loads Billboard configuration from defaults, an optional
// YAML file, and environment variables, in that order of precedence.
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Invalid configuration")
//	}
package config

import (
	"net"
	"strconv"
	"time"
)

// Config is the complete application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Remote    RemoteConfig    `koanf:"remote"`
	Sync      SyncConfig      `koanf:"sync"`
	Slideshow SlideshowConfig `koanf:"slideshow"`
	Power     PowerConfig     `koanf:"power"`
	Schedule  ScheduleConfig  `koanf:"schedule"`
	WebSocket WebSocketConfig `koanf:"websocket"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`

	// MediaMaxAge is the Cache-Control max-age sent with media files.
	MediaMaxAge time.Duration `koanf:"media_max_age" validate:"gte=0"`
}

// RemoteConfig selects and configures the remote file source.
type RemoteConfig struct {
	// Type is "s3" or "directory".
	Type string `koanf:"type" validate:"oneof=s3 directory"`

	// Directory is the folder mirrored when Type is "directory".
	Directory string `koanf:"directory"`

	S3      S3Config      `koanf:"s3"`
	Breaker BreakerConfig `koanf:"breaker"`
}

// S3Config configures an S3-compatible bucket source.
type S3Config struct {
	Bucket          string `koanf:"bucket"`
	Prefix          string `koanf:"prefix"`
	Region          string `koanf:"region"`
	Endpoint        string `koanf:"endpoint"`
	AccessKeyID     string `koanf:"access_key_id"`
	SecretAccessKey string `koanf:"secret_access_key"`
	UsePathStyle    bool   `koanf:"use_path_style"`
}

// BreakerConfig configures the circuit breaker in front of the remote source.
type BreakerConfig struct {
	Enabled bool `koanf:"enabled"`

	// MaxFailures consecutive failures open the circuit.
	MaxFailures uint32 `koanf:"max_failures" validate:"min=1"`

	// Timeout is how long the circuit stays open before probing again.
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`
}

// SyncConfig controls the reconciliation loop.
type SyncConfig struct {
	Interval time.Duration `koanf:"interval" validate:"gt=0"`

	// RetryAttempts and RetryDelay apply to single downloads and deletions,
	// with the delay doubling after each failure.
	RetryAttempts int           `koanf:"retry_attempts" validate:"min=1,max=10"`
	RetryDelay    time.Duration `koanf:"retry_delay" validate:"gte=0"`

	// ListRetryAttempts and ListRetryDelay apply to the remote listing, with
	// the delay growing linearly.
	ListRetryAttempts int           `koanf:"list_retry_attempts" validate:"min=1,max=10"`
	ListRetryDelay    time.Duration `koanf:"list_retry_delay" validate:"gte=0"`
}

// SlideshowConfig controls the media catalog.
type SlideshowConfig struct {
	// MediaDir is the local cache the sync engine writes and the catalog reads.
	MediaDir string `koanf:"media_dir" validate:"required"`

	RefreshInterval time.Duration `koanf:"refresh_interval" validate:"gt=0"`
	SessionTTL      time.Duration `koanf:"session_ttl" validate:"gt=0"`
	MaxSessions     int           `koanf:"max_sessions" validate:"min=1"`

	// PlaceholderWhenEmpty keeps the dynamic view in the catalog when no
	// media file is currently valid.
	PlaceholderWhenEmpty bool `koanf:"placeholder_when_empty"`

	ImageExtensions []string `koanf:"image_extensions" validate:"min=1"`
	VideoExtensions []string `koanf:"video_extensions"`
}

// PowerConfig controls the idle controller.
type PowerConfig struct {
	// Enabled false keeps services running permanently.
	Enabled           bool          `koanf:"enabled"`
	InactivityTimeout time.Duration `koanf:"inactivity_timeout" validate:"gt=0"`
}

// ScheduleConfig describes when the displays should be showing content.
type ScheduleConfig struct {
	Enabled         bool             `koanf:"enabled"`
	OnTime          string           `koanf:"on_time" validate:"clock"`
	OffTime         string           `koanf:"off_time" validate:"clock"`
	Days            []int            `koanf:"days" validate:"dive,min=0,max=6"`
	VacationPeriods []VacationPeriod `koanf:"vacation_periods" validate:"dive"`

	// Timezone is an IANA name used to evaluate on/off times; "Local" uses
	// the host zone.
	Timezone string `koanf:"timezone"`
}

// VacationPeriod is an inclusive DD.MM.YYYY range during which displays stay off.
type VacationPeriod struct {
	Start string `koanf:"start" validate:"required"`
	End   string `koanf:"end" validate:"required"`
}

// WebSocketConfig holds heartbeat timing for display connections.
type WebSocketConfig struct {
	PingInterval time.Duration `koanf:"ping_interval" validate:"gt=0"`
	PongWait     time.Duration `koanf:"pong_wait" validate:"gt=0"`
	WriteWait    time.Duration `koanf:"write_wait" validate:"gt=0"`
}

// SecurityConfig holds CORS and rate limiting.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"min=1"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gt=0"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
