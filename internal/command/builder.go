// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/fsctl/fsctl/internal/meta"
)

// CommandBuilder constructs a cli.Command for the job subcommands (wait,
// ingest, prep, run, report, objprep) using a consistent pattern. The
// builder wires metadata, appends the global output flags and, when
// Settings is true, the ingestion settings flags. Validate additionally
// checks those settings before the action runs.
type CommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Settings  bool
	Validate  bool
	Action    func(context.Context, *cli.Command) error
	Meta      meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (cb *CommandBuilder) Build() *cli.Command {
	flags := append(append([]cli.Flag{}, cb.Flags...), NewGlobalFlags()...)
	if cb.Settings {
		flags = append(flags, NewSettingsFlags(cb.Name, cb.Meta.Config.Source, cb.Meta.Defaults)...)
	}

	return &cli.Command{
		Name:      cb.Name,
		Usage:     cb.Usage,
		UsageText: cb.UsageText,
		Metadata: map[string]any{
			"meta": cb.Meta,
		},
		Flags: flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if err := GlobalFlagsValidator(ctx, c); err != nil {
				return ctx, err
			}
			if cb.Settings && cb.Validate {
				return ctx, SettingsValidator(ctx, c)
			}
			return ctx, nil
		},
		Action: cb.Action,
	}
}
