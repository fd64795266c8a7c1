// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

package api

import (
	"context"
	"time"

	"github.com/tomtom215/billboard/internal/catalog"
	"github.com/tomtom215/billboard/internal/config"
	"github.com/tomtom215/billboard/internal/power"
	"github.com/tomtom215/billboard/internal/remote"
	"github.com/tomtom215/billboard/internal/schedule"
	syncpkg "github.com/tomtom215/billboard/internal/sync"
	"github.com/tomtom215/billboard/internal/websocket"
)

// MediaCatalog is the slideshow state the handlers read from.
// *catalog.Catalog satisfies it.
type MediaCatalog interface {
	Current(clientID string) (catalog.MediaItem, bool)
	Next(clientID string) (catalog.MediaItem, bool)
	Previous(clientID string) (catalog.MediaItem, bool)
	Items() []catalog.MediaItem
	IsInitialized() bool
	Dir() string
	Sessions() *catalog.SessionStore
}

// SyncEngine is the reconcile loop as seen by the status endpoints.
// *sync.Engine satisfies it.
type SyncEngine interface {
	IsInitialized() bool
	IsPaused() bool
	LastSync() syncpkg.Result
	TriggerSync(ctx context.Context) []remote.FileDescriptor
}

// PowerController reports and receives display activity.
// *power.Controller satisfies it.
type PowerController interface {
	Activity()
	State() power.State
	LastActivity() time.Time
}

// Services bundles the components the HTTP layer depends on.
type Services struct {
	Catalog  MediaCatalog
	Sync     SyncEngine
	Power    PowerController
	Schedule *schedule.Schedule
	Hub      *websocket.Hub
}

// Handler holds the dependencies for all HTTP handlers.
type Handler struct {
	catalog  MediaCatalog
	sync     SyncEngine
	power    PowerController
	schedule *schedule.Schedule
	hub      *websocket.Hub
	config   *config.Config

	startTime time.Time
	now       func() time.Time
}

// NewHandler creates the handler set. cfg may be nil in tests, which
// disables the WebSocket origin allow-list.
func NewHandler(cfg *config.Config, svc Services) *Handler {
	return &Handler{
		catalog:   svc.Catalog,
		sync:      svc.Sync,
		power:     svc.Power,
		schedule:  svc.Schedule,
		hub:       svc.Hub,
		config:    cfg,
		startTime: time.Now(),
		now:       time.Now,
	}
}
