// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/fsctl/fsctl/internal/ingest"
	"github.com/fsctl/fsctl/internal/log"
	"github.com/fsctl/fsctl/internal/meta"
	"github.com/fsctl/fsctl/internal/output"
)

var waitColumns = []output.Column{
	{Key: "resource", Title: "Resource"},
	{Key: "status", Title: "Status"},
	{Key: "ready", Title: "Ready"},
}

// waitCommandAction polls the feature group until it is Created or the
// attempt budget runs out.
func waitCommandAction(ctx context.Context, cmd *cli.Command) error {
	s := SettingsFromFlags(cmd)
	e, err := newEnv(ctx, cmd, s, true)
	if err != nil {
		return err
	}

	log.Infof("waiting for %s: up to %d attempts, %s worst case", s.ResourceName, s.MaxAttempts, s.Budget())
	status, waitErr := e.ingestor(cmd).AwaitReady(ctx, ingest.FeatureGroup(s.ResourceName), s.PollInterval, s.MaxAttempts)
	row := map[string]interface{}{
		"resource": s.ResourceName,
		"status":   status.String(),
		"ready":    waitErr == nil,
	}
	if err := output.Spit(stdout(cmd), []map[string]interface{}{row}, waitColumns, output.OptionsFrom(cmd)); err != nil {
		return err
	}
	return waitErr
}

// waitCommandBuilder constructs the cli.Command for "wait".
func waitCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "wait",
		Usage:     "wait for a feature group to become ready",
		UsageText: "fsctl wait --resource NAME [options]",
		Flags: []cli.Flag{
			newDryRunFlag(),
			newFailFastFlag(),
		},
		Settings: true,
		Validate: true,
		Action:   waitCommandAction,
		Meta:     meta,
	}).Build()
}
