// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

package sync

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/billboard/internal/metrics"
	"github.com/tomtom215/billboard/internal/remote"
	"github.com/tomtom215/billboard/internal/retry"
	"github.com/tomtom215/billboard/internal/validity"
)

const partSuffix = ".part"

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// safeName rejects names that would escape the cache directory.
func safeName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

// filterValid keeps files valid on now, dropping unsafe names and duplicate
// names after the first occurrence.
func filterValid(files []remote.FileDescriptor, now time.Time, log zerolog.Logger) []remote.FileDescriptor {
	seen := make(map[string]struct{}, len(files))
	valid := make([]remote.FileDescriptor, 0, len(files))

	for _, f := range files {
		if !safeName(f.Name) {
			log.Warn().Str("id", f.ID).Msg("Skipping remote file with unsafe name")
			continue
		}
		if !validity.IsCurrentlyValid(f.Name, now) {
			continue
		}
		if _, dup := seen[f.Name]; dup {
			log.Warn().Str("file", f.Name).Str("id", f.ID).Msg("Duplicate remote filename; keeping first")
			continue
		}
		seen[f.Name] = struct{}{}
		valid = append(valid, f)
	}
	return valid
}

func exists(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}

// download fetches f into the cache. It reports whether the file is now
// present locally.
func (e *Engine) download(ctx context.Context, f remote.FileDescriptor) bool {
	policy := e.opts.FileRetry.WithNotify(e.notify("download", f.Name))
	err := policy.Do(ctx, func(ctx context.Context) error {
		err := e.fetch(ctx, f)
		if errors.Is(err, remote.ErrNotFound) {
			return retry.Permanent(err)
		}
		return err
	})
	metrics.RecordSyncFile("download", err)

	if err != nil {
		if ctx.Err() == nil {
			e.log.Error().Err(err).Str("file", f.Name).Msg("Download failed; skipping file")
		}
		return false
	}
	e.log.Info().Str("file", f.Name).Int64("size", f.Size).Msg("Downloaded")
	return true
}

// fetch writes f to a temporary file and renames it into place.
func (e *Engine) fetch(ctx context.Context, f remote.FileDescriptor) (err error) {
	tmp, err := os.CreateTemp(e.dir, "."+f.Name+".*"+partSuffix)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = e.source.Download(ctx, f, tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), filepath.Join(e.dir, f.Name)); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// prune removes local files that are not in valid, including leftover
// temporary files. It returns the number of deletions and failures.
func (e *Engine) prune(ctx context.Context, valid []remote.FileDescriptor) (deleted, failed int) {
	keep := make(map[string]struct{}, len(valid))
	for _, f := range valid {
		keep[f.Name] = struct{}{}
	}

	entries, err := os.ReadDir(e.dir)
	if err != nil {
		e.log.Error().Err(err).Str("dir", e.dir).Msg("Cannot read media dir; skipping cleanup")
		return 0, 0
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			return deleted, failed
		}
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		if _, ok := keep[name]; ok {
			continue
		}

		target := filepath.Join(e.dir, name)
		policy := e.opts.FileRetry.WithNotify(e.notify("delete", name))
		err := policy.Do(ctx, func(context.Context) error {
			if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			return nil
		})
		metrics.RecordSyncFile("delete", err)

		if err != nil {
			e.log.Error().Err(err).Str("file", name).Msg("Delete failed; skipping file")
			failed++
			continue
		}
		e.log.Info().Str("file", name).Msg("Removed local file")
		deleted++
	}
	return deleted, failed
}

func (e *Engine) record(res Result) {
	metrics.RecordSyncCycle(res.Duration, res.Valid, res.Listed)

	e.mu.Lock()
	e.last = res
	e.mu.Unlock()
}
