// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"

	"github.com/urfave/cli/v3"

	"github.com/fsctl/fsctl/internal/blob"
	"github.com/fsctl/fsctl/internal/meta"
	"github.com/fsctl/fsctl/internal/objectprep"
	"github.com/fsctl/fsctl/internal/output"
)

var objprepColumns = []output.Column{
	{Key: "input", Title: "Input"},
	{Key: "output", Title: "Output"},
}

// objprepCommandAction runs the per-object preprocessing on each argument,
// which may be an s3:// URL or a local path containing "raw".
func objprepCommandAction(ctx context.Context, cmd *cli.Command) error {
	locs := cmd.Args().Slice()
	if len(locs) == 0 {
		return errors.New("at least one object location is required")
	}

	e, err := newEnv(ctx, cmd, SettingsFromFlags(cmd), false, locs...)
	if err != nil {
		return err
	}
	p := &objectprep.Processor{Store: e.store}

	rows := make([]map[string]interface{}, 0, len(locs))
	for _, in := range locs {
		l, err := blob.Parse(in)
		if err != nil {
			return err
		}
		var out string
		if l.Scheme == "s3" {
			out, err = p.Object(ctx, l.Bucket, l.Key)
		} else if out, err = objectprep.OutputKey(in); err == nil {
			err = p.Process(ctx, in, out)
		}
		if err != nil {
			return err
		}
		rows = append(rows, map[string]interface{}{"input": in, "output": out})
	}
	return output.Spit(stdout(cmd), rows, objprepColumns, output.OptionsFrom(cmd))
}

// objprepCommandBuilder constructs the cli.Command for "objprep".
func objprepCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "objprep",
		Usage:     "forward fill a raw CSV object and derive new_feature",
		UsageText: "fsctl objprep s3://bucket/raw/file.csv [...]",
		Settings:  true,
		Action:    objprepCommandAction,
		Meta:      meta,
	}).Build()
}
