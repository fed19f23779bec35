// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"context"
	"io"
	"time"

	"github.com/fsctl/fsctl/internal/config"
)

// Meta contains runtime metadata shared by commands. It carries CLI
// arguments, loaded configuration, the settings defaults resolved from the
// environment and config file, context, where results are printed, the
// clock used to stamp events and reports, and the sleep between readiness
// polls.
type Meta struct {
	Args     []string
	Config   config.Type
	Defaults config.Settings
	Context  context.Context
	Stdout   io.Writer
	Now      func() time.Time
	Sleep    func(ctx context.Context, d time.Duration) error
}

// Clock returns m.Now, or time.Now when unset.
func (m Meta) Clock() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}
