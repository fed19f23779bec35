// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/fsctl/fsctl/internal/config"
	"github.com/fsctl/fsctl/internal/meta"
	"github.com/fsctl/fsctl/internal/version"
)

// InitApp builds the fsctl command tree. The subcommand name doubles as the
// config namespace, so "ingest.max_attempts" overrides "max_attempts" for
// fsctl ingest.
func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	// The arg[1] immediately following the binary (arg[0]) is the fsctl
	// subcommand and also represents the namespace key to be used when retrieving
	// config values. arg[1] could be -h/--help, so ignore it if it appears to be
	// a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	// A missing config file is fine; a broken one is not.
	cfg, err := config.Load()
	if err != nil && config.Path() != "" {
		return nil, err
	}
	cfg.Namespace = ns
	config.Config.Namespace = ns

	defaults, err := config.SettingsFromEnv()
	if err != nil {
		return nil, fmt.Errorf("invalid settings in environment: %w", err)
	}

	return NewApp(meta.Meta{
		Args:     args,
		Config:   cfg,
		Defaults: defaults,
		Context:  ctx,
	}), nil
}

// NewApp assembles the root command around m.
func NewApp(m meta.Meta) *cli.Command {
	app := &cli.Command{
		Name:  "fsctl",
		Usage: "Feature Store Control " + version.Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "fsctl version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		waitCommandBuilder(m),
		ingestCommandBuilder(m),
		prepCommandBuilder(m),
		runCommandBuilder(m),
		reportCommandBuilder(m),
		objprepCommandBuilder(m),
		completionCommandBuilder(m),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app
}
