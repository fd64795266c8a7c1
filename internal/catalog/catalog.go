// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/billboard/internal/config"
	"github.com/tomtom215/billboard/internal/logging"
	"github.com/tomtom215/billboard/internal/metrics"
)

// Clock returns the current time.
type Clock func() time.Time

// Broadcaster receives every changed snapshot. Implementations must not block.
type Broadcaster interface {
	BroadcastMediaList(items []MediaItem)
}

// Options configures a Catalog.
type Options struct {
	Dir                  string
	ImageExtensions      []string
	VideoExtensions      []string
	RefreshInterval      time.Duration
	SessionTTL           time.Duration
	MaxSessions          int
	PlaceholderWhenEmpty bool
	Clock                Clock
}

// OptionsFromConfig builds Options from the slideshow configuration section.
func OptionsFromConfig(cfg config.SlideshowConfig) Options {
	return Options{
		Dir:                  cfg.MediaDir,
		ImageExtensions:      cfg.ImageExtensions,
		VideoExtensions:      cfg.VideoExtensions,
		RefreshInterval:      cfg.RefreshInterval,
		SessionTTL:           cfg.SessionTTL,
		MaxSessions:          cfg.MaxSessions,
		PlaceholderWhenEmpty: cfg.PlaceholderWhenEmpty,
		Clock:                time.Now,
	}
}

// Catalog holds the ordered, validity-filtered media snapshot and the
// per-client cursors over it.
type Catalog struct {
	dir         string
	exts        extensionSet
	interval    time.Duration
	placeholder bool
	clock       Clock
	broadcaster Broadcaster
	sessions    *SessionStore
	log         zerolog.Logger

	snapMu sync.RWMutex
	items  []MediaItem // immutable once published

	mu          sync.Mutex
	initialized bool
	running     bool
	paused      bool
	ctx         context.Context
	cancel      context.CancelFunc
	stopTick    chan struct{}
	wg          sync.WaitGroup

	refreshMu sync.Mutex
}

// New creates a catalog over opts.Dir. b may be nil.
func New(opts Options, b Broadcaster) *Catalog {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = time.Second
	}
	dir := opts.Dir
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}

	return &Catalog{
		dir:         dir,
		exts:        newExtensionSet(opts.ImageExtensions, opts.VideoExtensions),
		interval:    opts.RefreshInterval,
		placeholder: opts.PlaceholderWhenEmpty,
		clock:       opts.Clock,
		broadcaster: b,
		sessions:    NewSessionStore(opts.MaxSessions, opts.SessionTTL),
		log:         logging.WithComponent("catalog"),
		items:       []MediaItem{},
		paused:      true,
	}
}

// Dir returns the absolute media directory.
func (c *Catalog) Dir() string {
	return c.dir
}

// Sessions exposes the session store.
func (c *Catalog) Sessions() *SessionStore {
	return c.sessions
}

// Start creates the media directory, builds the first snapshot and marks the
// catalog initialized. The refresh timer stays stopped until Resume.
func (c *Catalog) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return fmt.Errorf("catalog is already running")
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("prepare media dir: %w", err)
	}

	c.ctx, c.cancel = context.WithCancel(ctx)
	c.running = true

	_, _ = c.Refresh(c.ctx)
	c.initialized = true

	c.log.Info().
		Str("dir", c.dir).
		Int("items", len(c.Items())).
		Dur("interval", c.interval).
		Msg("Catalog started (paused)")
	return nil
}

// Stop halts the refresh timer and waits for the loop to exit.
func (c *Catalog) Stop() error {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return fmt.Errorf("catalog is not running")
	}
	c.running = false
	c.stopTickerLocked()
	c.cancel()
	c.mu.Unlock()

	c.wg.Wait()
	c.log.Info().Msg("Catalog stopped")
	return nil
}

// Pause halts the refresh timer.
func (c *Catalog) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.paused {
		return
	}
	c.paused = true
	c.stopTickerLocked()
	c.log.Info().Msg("Catalog paused")
}

// Resume refreshes once immediately and restarts the refresh timer.
func (c *Catalog) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.paused {
		return
	}
	if !c.running {
		c.log.Warn().Msg("Resume called before Start; ignoring")
		return
	}

	c.paused = false
	_, _ = c.Refresh(c.ctx)

	c.stopTick = make(chan struct{})
	c.wg.Add(1)
	go c.loop(c.ctx, c.stopTick)
	c.log.Info().Msg("Catalog resumed")
}

func (c *Catalog) stopTickerLocked() {
	if c.stopTick != nil {
		close(c.stopTick)
		c.stopTick = nil
	}
}

// IsInitialized reports whether the first snapshot has been built.
func (c *Catalog) IsInitialized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initialized
}

// IsPaused reports whether the refresh timer is stopped.
func (c *Catalog) IsPaused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

func (c *Catalog) loop(ctx context.Context, stop <-chan struct{}) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			select {
			case <-stop:
				return
			default:
			}
			_, _ = c.Refresh(ctx)
			c.SweepSessions(c.clock())
		}
	}
}

// Refresh rebuilds the snapshot from the media directory. When the result
// differs from the current snapshot it is published and broadcast. On a
// directory error the previous snapshot is kept.
func (c *Catalog) Refresh(ctx context.Context) (changed bool, err error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	next, err := build(c.dir, c.exts, c.clock(), c.placeholder)
	if err != nil {
		metrics.CatalogRefreshes.WithLabelValues("error").Inc()
		c.log.Error().Err(err).Str("dir", c.dir).Msg("Failed to update media list")
		return false, fmt.Errorf("read media dir: %w", err)
	}

	c.snapMu.Lock()
	if Equal(c.items, next) {
		c.snapMu.Unlock()
		metrics.CatalogRefreshes.WithLabelValues("unchanged").Inc()
		return false, nil
	}
	c.items = next
	c.snapMu.Unlock()

	metrics.CatalogRefreshes.WithLabelValues("changed").Inc()
	metrics.CatalogItems.Set(float64(len(next)))
	c.log.Info().Int("items", len(next)).Msg("Updated media list")

	if c.broadcaster != nil {
		c.broadcaster.BroadcastMediaList(cloneItems(next))
	}
	return true, nil
}

// Items returns a copy of the current snapshot.
func (c *Catalog) Items() []MediaItem {
	return cloneItems(c.snapshot())
}

func (c *Catalog) snapshot() []MediaItem {
	c.snapMu.RLock()
	defer c.snapMu.RUnlock()
	return c.items
}

func cloneItems(items []MediaItem) []MediaItem {
	out := make([]MediaItem, len(items))
	copy(out, items)
	return out
}

// Current returns the item at the client's cursor, creating the session at
// cursor 0 on first use. It returns false when the catalog is empty.
func (c *Catalog) Current(clientID string) (MediaItem, bool) {
	return c.move(clientID, 0, "current")
}

// Next advances the client's cursor, wrapping at the end.
func (c *Catalog) Next(clientID string) (MediaItem, bool) {
	return c.move(clientID, 1, "next")
}

// Previous moves the client's cursor back, wrapping at the start.
func (c *Catalog) Previous(clientID string) (MediaItem, bool) {
	return c.move(clientID, -1, "previous")
}

// move shifts the cursor by delta and returns the item under it. The cursor
// is first clamped into the current snapshot; snapshots of one item or less
// never move it.
func (c *Catalog) move(clientID string, delta int, direction string) (MediaItem, bool) {
	items := c.snapshot()

	var (
		item MediaItem
		ok   bool
	)
	c.sessions.Update(clientID, c.clock(), func(s *Session) {
		n := len(items)
		if n == 0 {
			s.CursorIndex = 0
			return
		}
		idx := wrap(s.CursorIndex, n)
		if n > 1 {
			idx = wrap(idx+delta, n)
		}
		s.CursorIndex = idx
		item, ok = items[idx], true
	})

	metrics.CatalogNavigations.WithLabelValues(direction).Inc()
	metrics.CatalogSessions.Set(float64(c.sessions.Len()))
	return item, ok
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}

// SweepSessions removes sessions idle longer than the TTL as of now.
func (c *Catalog) SweepSessions(now time.Time) int {
	removed := c.sessions.Sweep(now)
	if removed > 0 {
		metrics.CatalogSessionsExpired.Add(float64(removed))
		c.log.Debug().Int("removed", removed).Msg("Expired client sessions")
	}
	metrics.CatalogSessions.Set(float64(c.sessions.Len()))
	return removed
}
