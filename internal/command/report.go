// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/fsctl/fsctl/internal/meta"
	"github.com/fsctl/fsctl/internal/output"
	"github.com/fsctl/fsctl/internal/report"
)

var reportListColumns = []output.Column{
	{Key: "run", Title: "Run"},
	{Key: "saved", Title: "Saved"},
	{Key: "state", Title: "State"},
	{Key: "ingested", Title: "Ingested"},
	{Key: "attempted", Title: "Attempted"},
	{Key: "failed", Title: "Failed"},
}

// reportCommandAction shows saved run reports for a feature group.
func reportCommandAction(_ context.Context, cmd *cli.Command) error {
	if hours := cmd.Int("purge"); hours > 0 {
		return report.Purge(hours)
	}

	resource := cmd.String("resource")
	if resource == "" {
		return errors.New("--resource is required")
	}

	if !cmd.Bool("all") {
		rep, err := report.Latest(resource)
		if err != nil {
			return err
		}
		return output.Report(stdout(cmd), rep, output.OptionsFrom(cmd))
	}

	all, err := report.List(resource)
	if err != nil {
		return err
	}
	opts := output.OptionsFrom(cmd)
	if b, ok, err := output.Marshal(all, opts.Format); ok {
		if err != nil {
			return err
		}
		_, err = stdout(cmd).Write(b)
		return err
	}

	rows := make([]map[string]interface{}, 0, len(all))
	for _, r := range all {
		rows = append(rows, map[string]interface{}{
			"run":       shortID(r.RunID),
			"saved":     humanize.Time(r.CreatedAt),
			"state":     r.State,
			"ingested":  r.Ingested,
			"attempted": r.Attempted,
			"failed":    len(r.Failures),
		})
	}
	return output.Spit(stdout(cmd), rows, reportListColumns, opts)
}

// reportCommandBuilder constructs the cli.Command for "report".
func reportCommandBuilder(meta meta.Meta) *cli.Command {
	resource := NewResourceFlag("report", meta.Config.Source)
	resource.Value = meta.Defaults.ResourceName

	return (&CommandBuilder{
		Name:      "report",
		Usage:     "show saved ingestion reports",
		UsageText: "fsctl report --resource NAME [--all] [options]",
		Flags: []cli.Flag{
			resource,
			&cli.BoolFlag{
				Name:    "all",
				Aliases: []string{"a"},
				Usage:   "list every saved report, newest first",
			},
			&cli.IntFlag{
				Name:  "purge",
				Usage: "delete reports older than this many hours and exit",
			},
		},
		Action: reportCommandAction,
		Meta:   meta,
	}).Build()
}

// shortID is the first block of a run id, enough to tell runs apart.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
