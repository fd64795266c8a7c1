// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/billboard/config.yaml",
	"/etc/billboard/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the built-in defaults, applied before file and env.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            3000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MediaMaxAge:     24 * time.Hour,
		},
		Remote: RemoteConfig{
			Type:      "directory",
			Directory: "./remote",
			S3: S3Config{
				Region: "us-east-1",
			},
			Breaker: BreakerConfig{
				Enabled:     true,
				MaxFailures: 5,
				Timeout:     2 * time.Minute,
			},
		},
		Sync: SyncConfig{
			Interval:          time.Minute,
			RetryAttempts:     3,
			RetryDelay:        time.Second,
			ListRetryAttempts: 3,
			ListRetryDelay:    time.Second,
		},
		Slideshow: SlideshowConfig{
			MediaDir:             "./downloads",
			RefreshInterval:      time.Second,
			SessionTTL:           24 * time.Hour,
			MaxSessions:          10000,
			PlaceholderWhenEmpty: true,
			ImageExtensions:      []string{".jpg", ".jpeg", ".png", ".gif"},
			VideoExtensions:      []string{".mp4", ".webm", ".ogg"},
		},
		Power: PowerConfig{
			Enabled:           true,
			InactivityTimeout: 5 * time.Minute,
		},
		Schedule: ScheduleConfig{
			Enabled:  false,
			OnTime:   "07:30",
			OffTime:  "20:00",
			Days:     []int{1, 2, 3, 4, 5},
			Timezone: "Local",
		},
		WebSocket: WebSocketConfig{
			PingInterval: 30 * time.Second,
			PongWait:     60 * time.Second,
			WriteWait:    10 * time.Second,
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   600,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from layered sources:
//  1. Defaults: built-in values from defaultConfig
//  2. Config file: optional YAML file (CONFIG_PATH or DefaultConfigPaths)
//  3. Environment variables: the names listed in envMappings
//
// The result is validated before it is returned.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	normalize(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first config file found, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are parsed as comma-separated lists when set from env.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"slideshow.image_extensions",
	"slideshow.video_extensions",
	"schedule.days",
}

// processSliceFields converts comma-separated env values to slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_host":             "server.host",
	"http_port":             "server.port",
	"port":                  "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"media_max_age":         "server.media_max_age",

	// Remote source
	"remote_type":             "remote.type",
	"remote_directory":        "remote.directory",
	"s3_bucket":               "remote.s3.bucket",
	"s3_prefix":               "remote.s3.prefix",
	"s3_region":               "remote.s3.region",
	"s3_endpoint":             "remote.s3.endpoint",
	"s3_access_key_id":        "remote.s3.access_key_id",
	"s3_secret_access_key":    "remote.s3.secret_access_key",
	"s3_use_path_style":       "remote.s3.use_path_style",
	"remote_breaker_enabled":  "remote.breaker.enabled",
	"remote_breaker_failures": "remote.breaker.max_failures",
	"remote_breaker_timeout":  "remote.breaker.timeout",

	// Sync
	"sync_interval":            "sync.interval",
	"sync_retry_attempts":      "sync.retry_attempts",
	"sync_retry_delay":         "sync.retry_delay",
	"sync_list_retry_attempts": "sync.list_retry_attempts",
	"sync_list_retry_delay":    "sync.list_retry_delay",

	// Slideshow
	"download_path":          "slideshow.media_dir",
	"media_dir":              "slideshow.media_dir",
	"refresh_interval":       "slideshow.refresh_interval",
	"session_ttl":            "slideshow.session_ttl",
	"max_sessions":           "slideshow.max_sessions",
	"placeholder_when_empty": "slideshow.placeholder_when_empty",
	"image_extensions":       "slideshow.image_extensions",
	"video_extensions":       "slideshow.video_extensions",

	// Power
	"power_enabled":      "power.enabled",
	"inactivity_timeout": "power.inactivity_timeout",

	// Schedule
	"schedule_enabled":  "schedule.enabled",
	"schedule_on_time":  "schedule.on_time",
	"schedule_off_time": "schedule.off_time",
	"schedule_days":     "schedule.days",
	"schedule_timezone": "schedule.timezone",

	// WebSocket
	"ws_ping_interval": "websocket.ping_interval",
	"ws_pong_wait":     "websocket.pong_wait",
	"ws_write_wait":    "websocket.write_wait",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to its koanf path.
// Unmapped variables return "" and are ignored.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// normalize lowercases extensions and guarantees a leading dot.
func normalize(cfg *Config) {
	cfg.Slideshow.ImageExtensions = normalizeExtensions(cfg.Slideshow.ImageExtensions)
	cfg.Slideshow.VideoExtensions = normalizeExtensions(cfg.Slideshow.VideoExtensions)
	cfg.Logging.Level = strings.ToLower(cfg.Logging.Level)
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}
