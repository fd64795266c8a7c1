// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

/*
Package services adapts billboard components to suture.Service.

  - HTTPServerService: ListenAndServe until canceled, then graceful Shutdown
  - WebSocketHubService: RunWithContext components such as websocket.Hub
  - LifecycleService: Start/Stop components such as sync.Engine and catalog.Catalog
  - RunnerService: components that already implement Serve, such as power.Controller,
    given a stable name for supervisor logs

Every adapter returns ctx.Err() on cancellation and wraps startup failures
so suture restarts the service with backoff.
*/
package services
