// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errBoom = errors.New("boom")

func TestExponentialBackoff(t *testing.T) {
	t.Parallel()

	p := Exponential(5, 100*time.Millisecond)
	want := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond, 800 * time.Millisecond}
	for i, w := range want {
		if got := p.Backoff(i + 1); got != w {
			t.Errorf("attempt %d: got %v, want %v", i+1, got, w)
		}
	}
}

func TestLinearBackoff(t *testing.T) {
	t.Parallel()

	p := Linear(3, time.Second)
	if p.Backoff(1) != time.Second || p.Backoff(2) != 2*time.Second {
		t.Errorf("linear backoff = %v, %v", p.Backoff(1), p.Backoff(2))
	}
}

func TestDoSucceedsFirstTry(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Policy{MaxAttempts: 3}.Do(context.Background(), func(context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	t.Parallel()

	calls := 0
	var notified []int
	p := Policy{MaxAttempts: 3}.WithNotify(func(_ error, attempt int, _ time.Duration) {
		notified = append(notified, attempt)
	})

	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errBoom
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if len(notified) != 2 || notified[0] != 1 || notified[1] != 2 {
		t.Errorf("notified attempts = %v, want [1 2]", notified)
	}
}

func TestDoExhausted(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Policy{MaxAttempts: 3}.Do(context.Background(), func(context.Context) error {
		calls++
		return errBoom
	})
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if !errors.Is(err, ErrExhausted) {
		t.Errorf("expected ErrExhausted, got %v", err)
	}
	if !errors.Is(err, errBoom) {
		t.Errorf("expected wrapped cause, got %v", err)
	}
}

func TestDoPermanentStopsImmediately(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Policy{MaxAttempts: 5}.Do(context.Background(), func(context.Context) error {
		calls++
		return Permanent(errBoom)
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if !errors.Is(err, errBoom) || errors.Is(err, ErrExhausted) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDoZeroAttemptsRunsOnce(t *testing.T) {
	t.Parallel()

	calls := 0
	_ = Policy{}.Do(context.Background(), func(context.Context) error {
		calls++
		return errBoom
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDoContextCanceledDuringWait(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	p := Exponential(3, time.Hour)

	done := make(chan error, 1)
	go func() {
		done <- p.Do(ctx, func(context.Context) error {
			return errBoom
		})
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Do did not return after cancel")
	}
}

func TestDoValue(t *testing.T) {
	t.Parallel()

	calls := 0
	v, err := DoValue(context.Background(), Policy{MaxAttempts: 2}, func(context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", errBoom
		}
		return "ok", nil
	})
	if err != nil || v != "ok" {
		t.Errorf("DoValue = %q, %v", v, err)
	}
}
