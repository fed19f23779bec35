// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/fsctl/fsctl/internal/meta"
	"github.com/fsctl/fsctl/internal/output"
)

// runCommandAction is the whole processing job: preprocess, write the
// result files, then ingest into the feature group. An ingestion that times
// out or loses rows is reported but does not fail the job.
func runCommandAction(ctx context.Context, cmd *cli.Command) error {
	s := SettingsFromFlags(cmd)
	outDir := cmd.String("output-dir")
	e, err := newEnv(ctx, cmd, s, true, cmd.String("input"), outDir)
	if err != nil {
		return err
	}

	out, err := runPrep(ctx, cmd, e)
	if err != nil {
		return err
	}

	rep, _, err := ingestEmployees(ctx, cmd, e, out.Employees, outDir)
	if err != nil {
		return err
	}
	rep.Quality = &out.Quality
	rep.Departments = out.Departments
	rep.Files = append(append([]string{}, out.Files...), rep.Files...)

	saveReport(rep)
	return output.Report(stdout(cmd), rep, output.OptionsFrom(cmd))
}

// runCommandBuilder constructs the cli.Command for "run".
func runCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "run",
		Usage:     "preprocess the dataset and ingest it into the feature group",
		UsageText: "fsctl run --input data.csv --output-dir out/ --resource NAME [options]",
		Flags: []cli.Flag{
			newInputFlag(),
			newOutputDirFlag(),
			newDryRunFlag(),
			newFailFastFlag(),
		},
		Settings: true,
		Validate: true,
		Action:   runCommandAction,
		Meta:     meta,
	}).Build()
}
