// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0

// Package blob reads and writes whole objects addressed either by a local
// path or by an s3://bucket/key URL.
package blob

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrNotFound is wrapped by Get when the object does not exist.
var ErrNotFound = errors.New("object not found")

// Store reads and writes whole objects.
type Store interface {
	Get(ctx context.Context, loc string) ([]byte, error)
	Put(ctx context.Context, loc string, data []byte) error
}

// Location is a parsed object address.
type Location struct {
	Scheme string // "s3" or "file"
	Bucket string
	Key    string // object key, or filesystem path for "file"
}

func (l Location) String() string {
	if l.Scheme == "s3" {
		return "s3://" + l.Bucket + "/" + l.Key
	}
	return l.Key
}

// Parse splits loc into a Location. Anything that is not an s3:// URL is a
// local path.
func Parse(loc string) (Location, error) {
	if !strings.HasPrefix(loc, "s3://") {
		if loc == "" {
			return Location{}, errors.New("empty location")
		}
		return Location{Scheme: "file", Key: loc}, nil
	}
	u, err := url.Parse(loc)
	if err != nil {
		return Location{}, fmt.Errorf("bad s3 url %q: %w", loc, err)
	}
	if u.Host == "" {
		return Location{}, fmt.Errorf("bad s3 url %q: missing bucket", loc)
	}
	return Location{Scheme: "s3", Bucket: u.Host, Key: strings.TrimPrefix(u.Path, "/")}, nil
}

// Join appends name to a directory-like location.
func Join(base, name string) string {
	if strings.HasPrefix(base, "s3://") {
		return strings.TrimSuffix(base, "/") + "/" + path.Clean(name)
	}
	return filepath.Join(base, name)
}

// Router dispatches on the location scheme.
type Router struct {
	Local Store
	S3    Store
}

// NewRouter returns a Router with a Local store and the given S3 store,
// which may be nil when no AWS session is available.
func NewRouter(s3 Store) *Router {
	return &Router{Local: Local{}, S3: s3}
}

func (r *Router) pick(loc string) (Store, error) {
	l, err := Parse(loc)
	if err != nil {
		return nil, err
	}
	if l.Scheme == "s3" {
		if r.S3 == nil {
			return nil, fmt.Errorf("%s: s3 locations need an AWS session", loc)
		}
		return r.S3, nil
	}
	return r.Local, nil
}

func (r *Router) Get(ctx context.Context, loc string) ([]byte, error) {
	s, err := r.pick(loc)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, loc)
}

func (r *Router) Put(ctx context.Context, loc string, data []byte) error {
	s, err := r.pick(loc)
	if err != nil {
		return err
	}
	return s.Put(ctx, loc, data)
}

// Local reads and writes files, creating parent directories on Put.
type Local struct{}

func (Local) Get(_ context.Context, loc string) ([]byte, error) {
	b, err := os.ReadFile(loc)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, loc)
	}
	return b, err
}

func (Local) Put(_ context.Context, loc string, data []byte) error {
	if dir := filepath.Dir(loc); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(loc, data, 0o644); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write %s: %w", loc, err)
	}
	return nil
}
