// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

// Package remote provides the file sources the sync engine mirrors from.
//
// A Source lists every file below its root, descending into sub-folders, and
// streams a single file on request. Implementations:
//   - S3Source: an S3-compatible bucket and key prefix
//   - DirectorySource: a local or mounted folder
//   - BreakerSource: wraps any Source with a circuit breaker
package remote

import (
	"context"
	"errors"
	"io"
	"mime"
	"path"
	"time"
)

// ErrNotFound is returned by Download when the file no longer exists remotely.
var ErrNotFound = errors.New("remote file not found")

// FileDescriptor describes one remote file. It is only used for the duration
// of a sync cycle.
type FileDescriptor struct {
	// ID locates the file within the source (object key or relative path).
	ID string

	// Name is the base filename; it is the file's identity in the local cache.
	Name string

	MimeType string

	// ParentID is the containing folder, empty at the root.
	ParentID string

	Size       int64
	ModifiedAt time.Time
}

// Source is a remote store of media files.
type Source interface {
	// Name identifies the source in logs and metrics.
	Name() string

	// List returns every file under the source root.
	List(ctx context.Context) ([]FileDescriptor, error)

	// Download writes the contents of f to w.
	Download(ctx context.Context, f FileDescriptor, w io.Writer) error
}

// newDescriptor derives Name, ParentID and MimeType from a slash-separated id.
func newDescriptor(id string, size int64, modified time.Time) FileDescriptor {
	parent := path.Dir(id)
	if parent == "." || parent == "/" {
		parent = ""
	}
	return FileDescriptor{
		ID:         id,
		Name:       path.Base(id),
		MimeType:   mimeType(id),
		ParentID:   parent,
		Size:       size,
		ModifiedAt: modified,
	}
}

func mimeType(name string) string {
	if t := mime.TypeByExtension(path.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}
