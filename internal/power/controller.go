// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

// Package power pauses background work while no display is talking to the
// server and resumes it on the next request.
package power

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/billboard/internal/logging"
	"github.com/tomtom215/billboard/internal/metrics"
)

var (
	// ErrCapability is returned when a registered service cannot be paused
	// and resumed.
	ErrCapability = errors.New("service must implement Pause and Resume")

	// ErrDuplicateService is returned when a name is registered twice.
	ErrDuplicateService = errors.New("service already registered")
)

// Service is anything the controller can pause and resume.
type Service interface {
	Pause()
	Resume()
}

// State is the controller's power state.
type State int

const (
	StatePaused State = iota
	StateActive
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

type timer interface {
	Stop() bool
}

type namedService struct {
	name string
	svc  Service
}

// Controller moves registered services between active and paused. It starts
// paused; the first Activity resumes everything.
type Controller struct {
	timeout time.Duration
	log     zerolog.Logger

	// afterFunc schedules the inactivity callback.
	afterFunc func(d time.Duration, f func()) timer

	// mu serializes transitions and guards the fields below.
	mu           sync.Mutex
	state        State
	services     []namedService
	names        map[string]struct{}
	timer        timer
	generation   uint64
	lastActivity time.Time
	stopped      bool
}

// NewController creates a paused controller that pauses its services after
// timeout without activity. A timeout of zero or less never pauses once
// active.
func NewController(timeout time.Duration) *Controller {
	return &Controller{
		timeout: timeout,
		log:     logging.WithComponent("power"),
		afterFunc: func(d time.Duration, f func()) timer {
			return time.AfterFunc(d, f)
		},
		state: StatePaused,
		names: make(map[string]struct{}),
	}
}

// Register adds a service. Services resume in registration order and pause
// in reverse order.
func (c *Controller) Register(name string, svc Service) error {
	if isNil(svc) {
		return fmt.Errorf("register %q: %w", name, ErrCapability)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, dup := c.names[name]; dup {
		return fmt.Errorf("register %q: %w", name, ErrDuplicateService)
	}
	c.names[name] = struct{}{}
	c.services = append(c.services, namedService{name: name, svc: svc})

	c.log.Info().Str("service", name).Msg("Registered service")
	return nil
}

func isNil(svc Service) bool {
	if svc == nil {
		return true
	}
	v := reflect.ValueOf(svc)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Func, reflect.Interface, reflect.Slice, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// Activity records a client request. While paused every service is resumed;
// while active the inactivity timer restarts.
func (c *Controller) Activity() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return
	}
	c.lastActivity = time.Now()

	if c.state == StatePaused {
		c.state = StateActive
		metrics.SetPowerActive(true)
		c.log.Info().Msg("Resuming from power-saving mode")
		for _, s := range c.services {
			c.call(s, "resume", s.svc.Resume)
		}
	}
	c.armLocked()
}

// armLocked must be called with mu held.
func (c *Controller) armLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.timeout <= 0 {
		return
	}

	c.generation++
	gen := c.generation
	c.timer = c.afterFunc(c.timeout, func() { c.expire(gen) })
}

// expire pauses the services if no activity arrived since timer gen was armed.
func (c *Controller) expire(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped || gen != c.generation || c.state != StateActive {
		return
	}

	c.state = StatePaused
	c.timer = nil
	metrics.SetPowerActive(false)
	c.log.Info().Dur("idle", c.timeout).Msg("Entering power-saving mode")
	for i := len(c.services) - 1; i >= 0; i-- {
		s := c.services[i]
		c.call(s, "pause", s.svc.Pause)
	}
}

// call runs fn and logs instead of propagating a panic.
func (c *Controller) call(s namedService, op string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error().Str("service", s.name).Str("op", op).Interface("panic", r).Msg("Service transition failed")
		}
	}()
	fn()
	c.log.Debug().Str("service", s.name).Str("op", op).Msg("Service transitioned")
}

// State returns the current power state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastActivity returns when Activity was last called.
func (c *Controller) LastActivity() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActivity
}

// Stop cancels the inactivity timer. Services are left in their current
// state and later activity is ignored.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopped = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// Serve blocks until ctx is done, then stops the controller.
func (c *Controller) Serve(ctx context.Context) error {
	<-ctx.Done()
	c.Stop()
	return ctx.Err()
}
