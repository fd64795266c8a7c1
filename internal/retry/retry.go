// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

// Package retry runs operations under a bounded attempt count with a
// pluggable backoff, on top of cenkalti/backoff.
//
//	p := retry.Exponential(3, time.Second)
//	err := p.Do(ctx, func(ctx context.Context) error {
//	    return source.Download(ctx, id, w)
//	})
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ErrExhausted wraps the last error once every attempt has failed.
var ErrExhausted = errors.New("max retry attempts reached")

// BackoffFunc returns the wait after the given failed attempt (1-based).
type BackoffFunc func(attempt int) time.Duration

// Policy describes how often and how patiently an operation is retried.
type Policy struct {
	// MaxAttempts is the total number of tries, including the first. Values
	// below 1 are treated as 1.
	MaxAttempts int

	// Backoff computes the pause between attempts. Nil means no pause.
	Backoff BackoffFunc

	// OnRetry, when set, is called before each pause.
	OnRetry func(err error, attempt int, wait time.Duration)
}

// Exponential doubles the wait after each failure, starting at base.
func Exponential(attempts int, base time.Duration) Policy {
	return Policy{
		MaxAttempts: attempts,
		Backoff: func(attempt int) time.Duration {
			return base << (attempt - 1)
		},
	}
}

// Linear grows the wait by step after each failure.
func Linear(attempts int, step time.Duration) Policy {
	return Policy{
		MaxAttempts: attempts,
		Backoff: func(attempt int) time.Duration {
			return step * time.Duration(attempt)
		},
	}
}

// WithNotify returns a copy of p that reports each retry to fn.
func (p Policy) WithNotify(fn func(err error, attempt int, wait time.Duration)) Policy {
	p.OnRetry = fn
	return p
}

// Permanent marks err as not worth retrying. Do returns it unwrapped.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do calls op until it succeeds, returns a Permanent error, ctx is done, or
// the attempt budget is spent. On exhaustion the returned error wraps both
// ErrExhausted and the last failure.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	b := &policyBackOff{policy: p}

	attempts := 0
	err := backoff.RetryNotify(func() error {
		attempts++
		return op(ctx)
	}, backoff.WithContext(b, ctx), func(err error, wait time.Duration) {
		if p.OnRetry != nil {
			p.OnRetry(err, attempts, wait)
		}
	})

	if err == nil {
		return nil
	}
	if ctx.Err() != nil || attempts < p.maxAttempts() {
		return err
	}
	return fmt.Errorf("%w (%d attempts): %w", ErrExhausted, attempts, err)
}

// DoValue is Do for operations that produce a value.
func DoValue[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := p.Do(ctx, func(ctx context.Context) error {
		v, err := op(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

func (p Policy) maxAttempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// policyBackOff adapts a Policy to backoff.BackOff.
type policyBackOff struct {
	policy Policy
	failed int
}

func (b *policyBackOff) NextBackOff() time.Duration {
	b.failed++
	if b.failed >= b.policy.maxAttempts() {
		return backoff.Stop
	}
	if b.policy.Backoff == nil {
		return 0
	}
	return b.policy.Backoff(b.failed)
}

func (b *policyBackOff) Reset() {
	b.failed = 0
}
