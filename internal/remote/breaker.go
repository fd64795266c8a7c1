// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

package remote

import (
	"context"
	"errors"
	"io"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/billboard/internal/config"
	"github.com/tomtom215/billboard/internal/logging"
	"github.com/tomtom215/billboard/internal/metrics"
)

// BreakerSource wraps a Source with a circuit breaker. Once the remote has
// failed MaxFailures times in a row, calls fail fast with
// gobreaker.ErrOpenState until the open timeout elapses.
//
// Cancellation and ErrNotFound do not count as failures: neither says
// anything about the health of the remote.
type BreakerSource struct {
	source Source
	cb     *gobreaker.CircuitBreaker[any]
	name   string
}

// NewBreakerSource wraps source according to cfg.
func NewBreakerSource(source Source, cfg config.BreakerConfig) *BreakerSource {
	name := "remote-" + source.Name()

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cfg.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			trip := counts.ConsecutiveFailures >= cfg.MaxFailures
			if trip {
				logging.Warn().Str("breaker", name).Uint32("failures", counts.ConsecutiveFailures).Msg("Opening circuit")
			}
			return trip
		},

		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, context.Canceled) ||
				errors.Is(err, ErrNotFound)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return &BreakerSource{source: source, cb: cb, name: name}
}

// Name implements Source.
func (b *BreakerSource) Name() string {
	return b.source.Name()
}

// State returns the current breaker state.
func (b *BreakerSource) State() gobreaker.State {
	return b.cb.State()
}

// List implements Source.
func (b *BreakerSource) List(ctx context.Context) ([]FileDescriptor, error) {
	res, err := b.execute(func() (any, error) {
		return b.source.List(ctx)
	})
	if err != nil {
		return nil, err
	}
	files, _ := res.([]FileDescriptor)
	return files, nil
}

// Download implements Source.
func (b *BreakerSource) Download(ctx context.Context, f FileDescriptor, w io.Writer) error {
	_, err := b.execute(func() (any, error) {
		return nil, b.source.Download(ctx, f, w)
	})
	return err
}

func (b *BreakerSource) execute(fn func() (any, error)) (any, error) {
	res, err := b.cb.Execute(fn)
	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
	}
	return res, err
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
