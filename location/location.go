//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Copyright (C) 2025 Aaron Mathis aaron.mathis@gmail.com
//
// This file is part of Tabular.
//
// Tabular is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Tabular is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Tabular. If not, see https://www.gnu.org/licenses/.

// Package location resolves input and output paths to byte streams.
// A path is either a local filesystem path or an s3://bucket/key URI;
// S3 credentials come from the default AWS configuration chain.
package location

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	s3manager "github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const s3Scheme = "s3://"

// Error wraps location failures with the operation and path.
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("location %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsS3 reports whether the path is an s3:// URI.
func IsS3(path string) bool {
	return strings.HasPrefix(path, s3Scheme)
}

// splitS3 splits s3://bucket/key into bucket and key.
func splitS3(path string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(path, s3Scheme)
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("expected s3://bucket/key, got %q", path)
	}
	return bucket, key, nil
}

// Open returns a reader for the path.
func Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if !IsS3(path) {
		f, err := os.Open(path)
		if err != nil {
			return nil, &Error{Op: "open", Path: path, Err: err}
		}
		return f, nil
	}

	bucket, key, err := splitS3(path)
	if err != nil {
		return nil, &Error{Op: "open", Path: path, Err: err}
	}
	client, err := newS3Client(ctx)
	if err != nil {
		return nil, &Error{Op: "open", Path: path, Err: err}
	}
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, &Error{Op: "open", Path: path, Err: err}
	}
	return out.Body, nil
}

// Create returns a writer for the path. S3 writes are buffered in
// memory and uploaded when the writer is closed.
func Create(ctx context.Context, path string) (io.WriteCloser, error) {
	if !IsS3(path) {
		f, err := os.Create(path)
		if err != nil {
			return nil, &Error{Op: "create", Path: path, Err: err}
		}
		return f, nil
	}

	bucket, key, err := splitS3(path)
	if err != nil {
		return nil, &Error{Op: "create", Path: path, Err: err}
	}
	client, err := newS3Client(ctx)
	if err != nil {
		return nil, &Error{Op: "create", Path: path, Err: err}
	}
	return &s3WriteCloser{
		ctx:      ctx,
		buf:      &bytes.Buffer{},
		uploader: s3manager.NewUploader(client),
		bucket:   bucket,
		key:      key,
	}, nil
}

// EnsureParent creates the parent directory of a local output path.
// S3 paths need no preparation.
func EnsureParent(path string) error {
	if IsS3(path) {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &Error{Op: "mkdir", Path: dir, Err: err}
	}
	return nil
}

func newS3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(cfg), nil
}

type s3WriteCloser struct {
	ctx      context.Context
	buf      *bytes.Buffer
	uploader *s3manager.Uploader
	bucket   string
	key      string
}

func (s *s3WriteCloser) Write(p []byte) (int, error) {
	return s.buf.Write(p)
}

func (s *s3WriteCloser) Close() error {
	_, err := s.uploader.Upload(s.ctx, &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &s.key,
		Body:   bytes.NewReader(s.buf.Bytes()),
	})
	if err != nil {
		return &Error{Op: "upload", Path: s3Scheme + s.bucket + "/" + s.key, Err: err}
	}
	return nil
}
