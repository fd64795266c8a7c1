// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

/*
Package supervisor provides process supervision for billboard using suture v4.

The tree organizes services into two layers:

	RootSupervisor ("billboard")
	├── MessagingSupervisor ("messaging-layer")
	│   ├── websocket-hub
	│   ├── sync-engine
	│   ├── catalog
	│   └── power-controller
	└── APISupervisor ("api-layer")
	    └── http-server

Crashed services are restarted with suture's backoff. Supervisor events are
logged through sutureslog, which main wires to zerolog via
logging.NewSlogLogger.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	errCh := tree.ServeBackground(ctx)
*/
package supervisor
