// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

package main

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/billboard/internal/config"
	"github.com/tomtom215/billboard/internal/remote"
)

type flagInit struct {
	ready atomic.Bool
}

func (f *flagInit) IsInitialized() bool { return f.ready.Load() }

func TestWaitReady(t *testing.T) {
	a, b := &flagInit{}, &flagInit{}
	a.ready.Store(true)

	go func() {
		time.Sleep(2 * readyPollInterval)
		b.ready.Store(true)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if !waitReady(ctx, a, b) {
		t.Fatal("waitReady returned false before the deadline")
	}
}

func TestWaitReadyCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if waitReady(ctx, &flagInit{}) {
		t.Error("waitReady should give up once the context is done")
	}
}

func TestNewSource(t *testing.T) {
	dir := t.TempDir()

	t.Run("directory", func(t *testing.T) {
		src, err := newSource(context.Background(), config.RemoteConfig{Type: "directory", Directory: dir})
		if err != nil {
			t.Fatalf("newSource: %v", err)
		}
		if _, ok := src.(*remote.DirectorySource); !ok {
			t.Errorf("got %T, want *remote.DirectorySource", src)
		}
	})

	t.Run("breaker", func(t *testing.T) {
		src, err := newSource(context.Background(), config.RemoteConfig{
			Type:      "directory",
			Directory: dir,
			Breaker:   config.BreakerConfig{Enabled: true, MaxFailures: 3, Timeout: time.Second},
		})
		if err != nil {
			t.Fatalf("newSource: %v", err)
		}
		if _, ok := src.(*remote.BreakerSource); !ok {
			t.Errorf("got %T, want *remote.BreakerSource", src)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if _, err := newSource(context.Background(), config.RemoteConfig{Type: "ftp"}); err == nil {
			t.Error("expected an error for an unknown remote type")
		}
	})
}
