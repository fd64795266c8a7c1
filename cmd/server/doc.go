// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

/*
Package main is the entry point for the Billboard server.

Billboard mirrors a remote folder of date-tagged media files into a local
cache and serves a per-display slideshow over HTTP and WebSocket. Files are
only shown while the date encoded in their name is current.

# Application Architecture

	RootSupervisor ("billboard")
	├── MessagingSupervisor ("messaging-layer")
	│   ├── WebSocket Hub
	│   ├── Sync Engine (remote -> local cache)
	│   ├── Catalog (local cache -> slideshow)
	│   └── Power Controller
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Startup order:

 1. Configuration: koanf v2 with defaults, optional YAML file, environment
 2. Logging: zerolog, JSON or console
 3. Remote source: S3 bucket or directory, optionally behind a circuit breaker
 4. Sync engine, WebSocket hub, catalog and display schedule
 5. Power controller, which pauses sync and catalog refresh while idle
 6. Supervisor tree; the HTTP server is added once sync and catalog are ready

# Signals

SIGINT and SIGTERM shut down gracefully. SIGHUP runs a sync cycle
immediately.

# Configuration

See package config for every option. Common environment variables:

	REMOTE_TYPE          s3 or directory
	S3_BUCKET            bucket name
	MEDIA_DIR            local cache directory
	SYNC_INTERVAL        remote reconcile interval
	POWER_ENABLED        pause background work while idle
	INACTIVITY_TIMEOUT   idle time before pausing
	HTTP_PORT            listen port
*/
package main
