// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/billboard/internal/config"
	"github.com/tomtom215/billboard/internal/logging"
	"github.com/tomtom215/billboard/internal/remote"
	"github.com/tomtom215/billboard/internal/retry"
)

// Options configures an Engine.
type Options struct {
	// Interval between reconciliation cycles while resumed.
	Interval time.Duration

	// FileRetry governs single downloads and deletions.
	FileRetry retry.Policy

	// ListRetry governs the remote listing.
	ListRetry retry.Policy

	// Now returns the current time; validity is evaluated against it.
	Now func() time.Time
}

// OptionsFromConfig builds Options from the sync configuration section.
func OptionsFromConfig(cfg config.SyncConfig) Options {
	return Options{
		Interval:  cfg.Interval,
		FileRetry: retry.Exponential(cfg.RetryAttempts, cfg.RetryDelay),
		ListRetry: retry.Linear(cfg.ListRetryAttempts, cfg.ListRetryDelay),
		Now:       time.Now,
	}
}

// Result summarizes one reconciliation cycle.
type Result struct {
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"-"`
	Listed     bool          `json:"listed"`
	Valid      int           `json:"valid"`
	Downloaded int           `json:"downloaded"`
	Deleted    int           `json:"deleted"`
	Failed     int           `json:"failed"`
}

// Engine reconciles a local cache directory with a remote source.
type Engine struct {
	source remote.Source
	dir    string
	opts   Options
	log    zerolog.Logger

	mu          sync.Mutex
	initialized bool
	running     bool
	paused      bool
	ctx         context.Context
	cancel      context.CancelFunc
	stopTick    chan struct{}
	last        Result

	cycle chan struct{} // holds a token for the duration of a cycle
	wg    sync.WaitGroup
}

// NewEngine creates an engine that mirrors source into dir.
func NewEngine(source remote.Source, dir string, opts Options) *Engine {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Minute
	}
	return &Engine{
		source: source,
		dir:    dir,
		opts:   opts,
		log:    logging.WithComponent("sync"),
		paused: true,
		cycle:  make(chan struct{}, 1),
	}
}

// Start prepares the cache directory and marks the engine initialized. The
// engine stays paused until Resume is called.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return fmt.Errorf("sync engine is already running")
	}
	if err := ensureDir(e.dir); err != nil {
		return fmt.Errorf("prepare media dir: %w", err)
	}

	e.ctx, e.cancel = context.WithCancel(ctx)
	e.running = true
	e.initialized = true

	e.log.Info().
		Str("source", e.source.Name()).
		Str("dir", e.dir).
		Dur("interval", e.opts.Interval).
		Msg("Sync engine started (paused)")
	return nil
}

// Stop halts the timer, cancels in-flight work, and waits for it to finish.
func (e *Engine) Stop() error {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return fmt.Errorf("sync engine is not running")
	}
	e.running = false
	e.stopTickerLocked()
	e.cancel()
	e.mu.Unlock()

	e.wg.Wait()
	e.log.Info().Msg("Sync engine stopped")
	return nil
}

// Pause stops the periodic timer. A cycle already in progress completes.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.paused {
		return
	}
	e.paused = true
	e.stopTickerLocked()
	e.log.Info().Msg("Sync paused")
}

// Resume restarts the periodic timer and triggers one cycle immediately.
func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.paused {
		return
	}
	if !e.running {
		e.log.Warn().Msg("Resume called before Start; ignoring")
		return
	}

	e.paused = false
	e.stopTick = make(chan struct{})
	e.wg.Add(1)
	go e.loop(e.ctx, e.stopTick)
	e.log.Info().Msg("Sync resumed")
}

// stopTickerLocked must be called with mu held.
func (e *Engine) stopTickerLocked() {
	if e.stopTick != nil {
		close(e.stopTick)
		e.stopTick = nil
	}
}

// IsInitialized reports whether Start has completed.
func (e *Engine) IsInitialized() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initialized
}

// IsPaused reports whether the periodic timer is stopped.
func (e *Engine) IsPaused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// LastSync returns the summary of the most recent cycle.
func (e *Engine) LastSync() Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

// TriggerSync runs one cycle now, waiting for any cycle in progress.
// It returns nil if ctx is done before the cycle could start.
func (e *Engine) TriggerSync(ctx context.Context) []remote.FileDescriptor {
	select {
	case e.cycle <- struct{}{}:
	case <-ctx.Done():
		return nil
	}
	defer e.release()
	return e.Reconcile(ctx)
}

func (e *Engine) release() {
	<-e.cycle
}

func (e *Engine) loop(ctx context.Context, stop <-chan struct{}) {
	defer e.wg.Done()

	e.resumeTick(ctx, stop)

	ticker := time.NewTicker(e.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			e.tick(ctx, stop)
		}
	}
}

// resumeTick runs the cycle owed to a Resume. A cycle still in flight from
// before the last Pause is waited for rather than skipped.
func (e *Engine) resumeTick(ctx context.Context, stop <-chan struct{}) {
	select {
	case e.cycle <- struct{}{}:
	case <-stop:
		return
	case <-ctx.Done():
		return
	}
	defer e.release()

	select {
	case <-stop:
		return
	default:
	}
	e.Reconcile(ctx)
}

// tick runs a cycle unless the engine was paused or a cycle is in progress.
func (e *Engine) tick(ctx context.Context, stop <-chan struct{}) {
	select {
	case <-stop:
		return
	default:
	}

	select {
	case e.cycle <- struct{}{}:
	default:
		e.log.Debug().Msg("Previous sync cycle still running; skipping tick")
		return
	}
	defer e.release()

	e.Reconcile(ctx)
}

// Reconcile performs one reconciliation cycle and returns the remote files
// considered valid. It never returns an error: listing failures yield an
// empty result, per-file failures are logged and skipped. Callers must not
// run Reconcile concurrently with itself; TriggerSync serializes for them.
func (e *Engine) Reconcile(ctx context.Context) []remote.FileDescriptor {
	wall := time.Now()
	res := Result{StartedAt: e.opts.Now()}
	defer func() {
		res.Duration = time.Since(wall)
		e.record(res)
	}()

	listing, err := retry.DoValue(ctx, e.opts.ListRetry.WithNotify(e.notify("list", "")), e.source.List)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			e.log.Error().Err(err).Msg("Remote listing failed; skipping cycle")
		}
		return nil
	}
	res.Listed = true

	valid := filterValid(listing, e.opts.Now(), e.log)
	res.Valid = len(valid)

	for _, f := range valid {
		if ctx.Err() != nil {
			return valid
		}
		if exists(e.dir, f.Name) {
			continue
		}
		if e.download(ctx, f) {
			res.Downloaded++
		} else {
			res.Failed++
		}
	}

	deleted, failed := e.prune(ctx, valid)
	res.Deleted += deleted
	res.Failed += failed

	e.log.Info().
		Int("valid", res.Valid).
		Int("downloaded", res.Downloaded).
		Int("deleted", res.Deleted).
		Int("failed", res.Failed).
		Msg("Sync cycle complete")

	return valid
}

func (e *Engine) notify(op, name string) func(err error, attempt int, wait time.Duration) {
	return func(err error, attempt int, wait time.Duration) {
		e.log.Warn().Err(err).Str("op", op).Str("file", name).Int("attempt", attempt).Dur("delay", wait).Msg("Retry attempt")
	}
}
