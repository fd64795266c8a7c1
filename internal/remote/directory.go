// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DirectorySource mirrors a folder on the local filesystem, typically a
// network share or a synced cloud-drive folder.
type DirectorySource struct {
	root string
}

// NewDirectorySource returns a source rooted at dir.
func NewDirectorySource(dir string) *DirectorySource {
	return &DirectorySource{root: dir}
}

// Name implements Source.
func (d *DirectorySource) Name() string {
	return "directory"
}

// List walks the root recursively. Hidden files and folders are skipped.
func (d *DirectorySource) List(ctx context.Context) ([]FileDescriptor, error) {
	var files []FileDescriptor

	err := filepath.WalkDir(d.root, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if p != d.root && strings.HasPrefix(entry.Name(), ".") {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !entry.Type().IsRegular() {
			return nil
		}

		info, err := entry.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(d.root, p)
		if err != nil {
			return err
		}
		files = append(files, newDescriptor(filepath.ToSlash(rel), info.Size(), info.ModTime()))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", d.root, err)
	}
	return files, nil
}

// Download copies the file to w.
func (d *DirectorySource) Download(ctx context.Context, f FileDescriptor, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	src, err := os.Open(filepath.Join(d.root, filepath.FromSlash(f.ID)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", f.ID, ErrNotFound)
		}
		return fmt.Errorf("open %s: %w", f.ID, err)
	}
	defer src.Close()

	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("copy %s: %w", f.ID, err)
	}
	return nil
}
