// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/billboard/internal/api"
	"github.com/tomtom215/billboard/internal/catalog"
	"github.com/tomtom215/billboard/internal/config"
	"github.com/tomtom215/billboard/internal/logging"
	"github.com/tomtom215/billboard/internal/power"
	"github.com/tomtom215/billboard/internal/remote"
	"github.com/tomtom215/billboard/internal/schedule"
	"github.com/tomtom215/billboard/internal/supervisor"
	"github.com/tomtom215/billboard/internal/supervisor/services"
	syncpkg "github.com/tomtom215/billboard/internal/sync"
	"github.com/tomtom215/billboard/internal/websocket"
)

// readyPollInterval is how often startup checks whether the sync engine and
// catalog have finished Start.
const readyPollInterval = 50 * time.Millisecond

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("remote", cfg.Remote.Type).
		Str("media_dir", cfg.Slideshow.MediaDir).
		Str("addr", cfg.Server.Addr()).
		Msg("Starting Billboard")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	slogLogger := logging.NewSlogLogger()
	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	source, err := newSource(ctx, cfg.Remote)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize remote source")
	}

	engine := syncpkg.NewEngine(source, cfg.Slideshow.MediaDir, syncpkg.OptionsFromConfig(cfg.Sync))
	hub := websocket.NewHub(websocket.TimingFromConfig(cfg.WebSocket))
	media := catalog.New(catalog.OptionsFromConfig(cfg.Slideshow), hub)

	sched, err := schedule.FromConfig(cfg.Schedule)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to parse display schedule")
	}

	timeout := cfg.Power.InactivityTimeout
	if !cfg.Power.Enabled {
		timeout = 0
	}
	powerCtl := power.NewController(timeout)
	if err := powerCtl.Register("sync-engine", engine); err != nil {
		logging.Fatal().Err(err).Msg("Failed to register sync engine with power controller")
	}
	if err := powerCtl.Register("catalog", media); err != nil {
		logging.Fatal().Err(err).Msg("Failed to register catalog with power controller")
	}

	handler := api.NewHandler(cfg, api.Services{
		Catalog:  media,
		Sync:     engine,
		Power:    powerCtl,
		Schedule: sched,
		Hub:      hub,
	})
	router := api.NewRouter(handler, api.ChiMiddlewareConfigFrom(cfg.Security))

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddMessagingService(services.NewLifecycleService("sync-engine", engine))
	tree.AddMessagingService(services.NewLifecycleService("catalog", media))
	tree.AddMessagingService(services.NewRunnerService("power-controller", powerCtl))
	logging.Info().Msg("Hub, sync engine, catalog and power controller added to supervisor tree")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		for sig := range sigCh {
			if sig == syscall.SIGHUP {
				logging.Info().Msg("Received SIGHUP, triggering sync")
				go engine.TriggerSync(ctx)
				continue
			}
			logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
			cancel()
			return
		}
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// The HTTP layer only comes up once both paused services can honor a
	// Resume triggered by the first request.
	if waitReady(ctx, engine, media) {
		if !cfg.Power.Enabled {
			logging.Info().Msg("Power management disabled, services stay active")
			powerCtl.Activity()
		}
		tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
		logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")
	}

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

// newSource builds the configured remote source, wrapped in a circuit
// breaker when enabled.
func newSource(ctx context.Context, cfg config.RemoteConfig) (remote.Source, error) {
	var source remote.Source
	switch cfg.Type {
	case "s3":
		s3Source, err := remote.NewS3Source(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		source = s3Source
	case "directory":
		source = remote.NewDirectorySource(cfg.Directory)
	default:
		return nil, fmt.Errorf("unknown remote type %q", cfg.Type)
	}

	if cfg.Breaker.Enabled {
		return remote.NewBreakerSource(source, cfg.Breaker), nil
	}
	return source, nil
}

type initializer interface {
	IsInitialized() bool
}

// waitReady blocks until every component reports initialized or ctx is done.
func waitReady(ctx context.Context, components ...initializer) bool {
	ticker := time.NewTicker(readyPollInterval)
	defer ticker.Stop()

	for {
		ready := true
		for _, c := range components {
			if !c.IsInitialized() {
				ready = false
				break
			}
		}
		if ready {
			return true
		}

		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
}
