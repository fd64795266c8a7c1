// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

package remote

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// fakeS3 serves a fixed object set, pageSize objects per ListObjectsV2 call.
type fakeS3 struct {
	keys     []string
	bodies   map[string]string
	pageSize int
	listErr  error
	prefixes []string
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.prefixes = append(f.prefixes, aws.ToString(in.Prefix))

	start := 0
	if in.ContinuationToken != nil {
		for i, k := range f.keys {
			if k == *in.ContinuationToken {
				start = i
			}
		}
	}
	end := start + f.pageSize
	if end > len(f.keys) {
		end = len(f.keys)
	}

	out := &s3.ListObjectsV2Output{}
	modified := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for _, k := range f.keys[start:end] {
		out.Contents = append(out.Contents, types.Object{
			Key:          aws.String(k),
			Size:         aws.Int64(int64(len(f.bodies[k]))),
			LastModified: &modified,
		})
	}
	if end < len(f.keys) {
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String(f.keys[end])
	}
	return out, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := f.bodies[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func newFakeS3() *fakeS3 {
	bodies := map[string]string{
		"signage/":                          "",
		"signage/01.01.2024@31.12.2024.jpg": "one",
		"signage/lobby/":                    "",
		"signage/lobby/15.06.2024.mp4":      "two",
		"signage/lobby/menu_1.6.png":        "three",
	}
	return &fakeS3{
		keys: []string{
			"signage/",
			"signage/01.01.2024@31.12.2024.jpg",
			"signage/lobby/",
			"signage/lobby/15.06.2024.mp4",
			"signage/lobby/menu_1.6.png",
		},
		bodies:   bodies,
		pageSize: 2,
	}
}

func TestS3SourceListPaginatesAndSkipsFolders(t *testing.T) {
	t.Parallel()

	fake := newFakeS3()
	src := newS3Source(fake, "bucket", "/signage")

	files, err := src.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	if len(fake.prefixes) != 3 {
		t.Errorf("expected 3 pages, got %d", len(fake.prefixes))
	}
	if fake.prefixes[0] != "signage/" {
		t.Errorf("prefix = %q, want signage/", fake.prefixes[0])
	}

	if len(files) != 3 {
		t.Fatalf("got %d files: %+v", len(files), files)
	}
	lobby := files[1]
	if lobby.ID != "signage/lobby/15.06.2024.mp4" || lobby.Name != "15.06.2024.mp4" {
		t.Errorf("descriptor = %+v", lobby)
	}
	if lobby.ParentID != "lobby" {
		t.Errorf("ParentID = %q, want lobby", lobby.ParentID)
	}
	if lobby.Size != 3 {
		t.Errorf("size = %d, want 3", lobby.Size)
	}
	if files[2].MimeType != "image/png" {
		t.Errorf("mime = %q, want image/png", files[2].MimeType)
	}
	if files[0].ParentID != "" {
		t.Errorf("root ParentID = %q", files[0].ParentID)
	}
}

func TestS3SourceListError(t *testing.T) {
	t.Parallel()

	fake := newFakeS3()
	fake.listErr = errors.New("access denied")

	if _, err := newS3Source(fake, "bucket", "").List(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestS3SourceDownload(t *testing.T) {
	t.Parallel()

	src := newS3Source(newFakeS3(), "bucket", "signage")

	var buf bytes.Buffer
	if err := src.Download(context.Background(), FileDescriptor{ID: "signage/lobby/menu_1.6.png"}, &buf); err != nil {
		t.Fatalf("Download: %v", err)
	}
	if buf.String() != "three" {
		t.Errorf("body = %q", buf.String())
	}

	err := src.Download(context.Background(), FileDescriptor{ID: "signage/missing.jpg"}, &buf)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
