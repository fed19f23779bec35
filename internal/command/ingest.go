// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/fsctl/fsctl/internal/blob"
	"github.com/fsctl/fsctl/internal/dataset"
	"github.com/fsctl/fsctl/internal/featurestore"
	"github.com/fsctl/fsctl/internal/ingest"
	"github.com/fsctl/fsctl/internal/log"
	"github.com/fsctl/fsctl/internal/meta"
	"github.com/fsctl/fsctl/internal/output"
	"github.com/fsctl/fsctl/internal/report"
)

// ingestEmployees turns employees into feature records, waits for the
// feature group and ingests them. Timeouts and row failures are logged and
// returned on the outcome; only invalid input or cancellation is an error.
// With a non-empty outDir the records of a completed ingestion are also
// written as feature_store_data.csv.
func ingestEmployees(ctx context.Context, cmd *cli.Command, e *env, employees []dataset.Employee, outDir string) (*report.Report, ingest.Outcome, error) {
	now := GetMeta(cmd).Clock()
	batch := featurestore.ToBatch(employees, now)
	if err := featurestore.ValidateBatch(batch); err != nil {
		return nil, ingest.Outcome{}, err
	}

	s := e.settings
	outcome, err := e.ingestor(cmd).Run(ctx, ingest.FeatureGroup(s.ResourceName), batch, ingest.FlowConfig{
		PollInterval:       s.PollInterval,
		MaxAttempts:        s.MaxAttempts,
		MaxParallelWriters: s.MaxParallelWriters,
	})
	if err != nil {
		return nil, outcome, err
	}

	rep := report.FromOutcome(outcome, now)
	if outcome.Err != nil {
		log.WithError(outcome.Err).Warnf("ingestion into %s ended %s", s.ResourceName, outcome.State)
	} else {
		log.Infof("ingested %d record(s) into %s", rep.Ingested, s.ResourceName)
	}

	if outDir != "" && outcome.State == ingest.StateCompleted {
		frame := featurestore.BatchFrame(batch)
		if e.local != nil {
			frame = e.local.Frame()
		}
		loc, err := (&dataset.Job{Store: e.store, OutputDir: outDir}).Save(ctx, dataset.FeatureStoreFile, frame)
		if err != nil {
			return rep, outcome, err
		}
		rep.Files = append(rep.Files, loc)
	}
	return rep, outcome, nil
}

// saveReport persists rep. Failing to save is not fatal.
func saveReport(rep *report.Report) {
	p, err := report.Write(rep)
	if err != nil {
		log.WithError(err).Warn("failed to save report")
		return
	}
	if p != "" {
		log.Debugf("report saved: path=%s", p)
	}
}

// ingestCommandAction ingests an already transformed dataset.
func ingestCommandAction(ctx context.Context, cmd *cli.Command) error {
	s := SettingsFromFlags(cmd)
	input := cmd.String("input")
	outDir := cmd.String("output-dir")

	e, err := newEnv(ctx, cmd, s, true, input, outDir)
	if err != nil {
		return err
	}

	raw, err := e.store.Get(ctx, input)
	if err != nil {
		return err
	}
	frame, err := dataset.ReadCSV(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", input, err)
	}

	rep, outcome, err := ingestEmployees(ctx, cmd, e, dataset.Employees(frame), outDir)
	if err != nil {
		return err
	}
	saveReport(rep)
	if err := output.Report(stdout(cmd), rep, output.OptionsFrom(cmd)); err != nil {
		return err
	}
	return outcome.Err
}

// ingestCommandBuilder constructs the cli.Command for "ingest".
func ingestCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "ingest",
		Usage:     "ingest a transformed dataset into a feature group",
		UsageText: "fsctl ingest --input transformed_data.csv --resource NAME [options]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "transformed CSV path or s3:// URL",
				Value:   blob.Join("/opt/ml/processing/output", dataset.TransformedFile),
				Sources: cli.NewValueSourceChain(
					cli.EnvVar("FSCTL_INPUT"),
				),
			},
			&cli.StringFlag{
				Name:    "output-dir",
				Aliases: []string{"d"},
				Usage:   "where to write feature_store_data.csv; empty to skip",
			},
			newDryRunFlag(),
			newFailFastFlag(),
		},
		Settings: true,
		Validate: true,
		Action:   ingestCommandAction,
		Meta:     meta,
	}).Build()
}
