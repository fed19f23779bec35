// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/fsctl/fsctl/internal/dataset"
	"github.com/fsctl/fsctl/internal/meta"
	"github.com/fsctl/fsctl/internal/output"
)

// prepSummary is the json/yaml shape of a preprocessing run.
type prepSummary struct {
	Fills       dataset.Fills            `json:"filled" yaml:"filled"`
	Quality     dataset.Quality          `json:"quality" yaml:"quality"`
	Departments []dataset.DepartmentStat `json:"departments" yaml:"departments"`
	Files       []string                 `json:"files" yaml:"files"`
}

// runPrep runs the preprocessing job against e's store.
func runPrep(ctx context.Context, cmd *cli.Command, e *env) (*dataset.Output, error) {
	job := &dataset.Job{
		Store:     e.store,
		Input:     cmd.String("input"),
		OutputDir: cmd.String("output-dir"),
		Now:       GetMeta(cmd).Now,
	}
	return job.Run(ctx)
}

func printPrep(w io.Writer, out *dataset.Output, opts output.Options) error {
	summary := prepSummary{Fills: out.Fills, Quality: out.Quality, Departments: out.Departments, Files: out.Files}
	if b, ok, err := output.Marshal(summary, opts.Format); ok {
		if err != nil {
			return fmt.Errorf("failed to encode summary: %w", err)
		}
		_, err = w.Write(b)
		return err
	}
	output.QualityTable(w, out.Quality, opts)
	fmt.Fprintln(w)
	output.DepartmentTable(w, out.Departments, opts)
	return nil
}

// prepCommandAction cleans and transforms the dataset without ingesting it.
func prepCommandAction(ctx context.Context, cmd *cli.Command) error {
	s := SettingsFromFlags(cmd)
	e, err := newEnv(ctx, cmd, s, false, cmd.String("input"), cmd.String("output-dir"))
	if err != nil {
		return err
	}
	out, err := runPrep(ctx, cmd, e)
	if err != nil {
		return err
	}
	if cmd.Bool("rows") {
		rows, cols := output.FrameRows(out.Transformed)
		return output.Spit(stdout(cmd), rows, cols, output.OptionsFrom(cmd))
	}
	return printPrep(stdout(cmd), out, output.OptionsFrom(cmd))
}

// prepCommandBuilder constructs the cli.Command for "prep".
func prepCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "prep",
		Usage:     "clean and transform the employee dataset",
		UsageText: "fsctl prep --input data.csv --output-dir out/ [options]",
		Flags: []cli.Flag{
			newInputFlag(),
			newOutputDirFlag(),
			&cli.BoolFlag{
				Name:  "rows",
				Usage: "print the transformed records instead of the summary",
			},
		},
		Settings: true,
		Action:   prepCommandAction,
		Meta:     meta,
	}).Build()
}
