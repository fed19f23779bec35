// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/urfave/cli/v3"

	"github.com/fsctl/fsctl/internal/aws"
	"github.com/fsctl/fsctl/internal/blob"
	"github.com/fsctl/fsctl/internal/config"
	"github.com/fsctl/fsctl/internal/featurestore"
	"github.com/fsctl/fsctl/internal/ingest"
	"github.com/fsctl/fsctl/internal/log"
	"github.com/fsctl/fsctl/internal/meta"
)

// dryRunResource names the feature group when --dry-run is given without
// one.
const dryRunResource = "dry-run"

// sdkMaxAttempts bounds SDK-level retries of a single API call, mostly
// PutRecord throttling.
const sdkMaxAttempts = 5

// newSession is swapped by tests.
var newSession = aws.NewSession

// newFeatureStore builds the SageMaker readiness and record adapters over
// sess. Swapped by tests.
var newFeatureStore = func(sess *aws.Session) (ingest.StatusQuerier, ingest.RowWriter) {
	return featurestore.NewStatusQuery(sess.SageMaker), featurestore.NewRecordWriter(sess.Runtime)
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// stdout is where a command prints its results.
func stdout(cmd *cli.Command) io.Writer {
	if w := GetMeta(cmd).Stdout; w != nil {
		return w
	}
	return os.Stdout
}

// SettingsFromFlags reads the ingestion settings flags.
func SettingsFromFlags(cmd *cli.Command) config.Settings {
	s := config.Settings{
		ResourceName:       cmd.String("resource"),
		PollInterval:       time.Duration(cmd.Int("poll-interval")) * time.Second,
		MaxAttempts:        cmd.Int("max-attempts"),
		MaxParallelWriters: cmd.Int("max-parallel-writers"),
		Region:             cmd.String("region"),
		Profile:            cmd.String("profile"),
	}
	if s.ResourceName == "" && cmd.Bool("dry-run") {
		s.ResourceName = dryRunResource
	}
	return s
}

// openSession builds the AWS clients for s.
func openSession(ctx context.Context, s config.Settings) (*aws.Session, error) {
	opts := []aws.Option{
		aws.WithRegion(s.Region),
		aws.WithRetryer(func() awsv2.Retryer {
			return retry.AddWithMaxAttempts(retry.NewStandard(), sdkMaxAttempts)
		}),
	}
	if s.Profile != "" {
		opts = append(opts, aws.WithProfile(s.Profile))
	}
	sess, err := newSession(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return sess, nil
}

// needsS3 reports whether any location is an s3:// URL.
func needsS3(locs ...string) bool {
	for _, l := range locs {
		if strings.HasPrefix(l, "s3://") {
			return true
		}
	}
	return false
}

// env is what a job needs to talk to storage and the feature store. sess is
// nil when nothing requires AWS.
type env struct {
	settings config.Settings
	sess     *aws.Session
	store    blob.Store
	querier  ingest.StatusQuerier
	writer   ingest.RowWriter
	local    *featurestore.LocalWriter
}

// newEnv opens an AWS session only when the feature store is used for real
// or one of locs lives in S3.
func newEnv(ctx context.Context, cmd *cli.Command, s config.Settings, useFeatureStore bool, locs ...string) (*env, error) {
	e := &env{settings: s}
	dryRun := cmd.Bool("dry-run")

	if (useFeatureStore && !dryRun) || needsS3(locs...) {
		sess, err := openSession(ctx, s)
		if err != nil {
			return nil, err
		}
		e.sess = sess
	}

	var s3 blob.Store
	if e.sess != nil {
		client := e.sess.S3
		if ep := cmd.String("s3-endpoint"); ep != "" {
			client = aws.NewS3(e.sess.Config, aws.WithS3Endpoint(ep))
		}
		s3 = blob.NewS3(client)
	}
	e.store = blob.NewRouter(s3)

	switch {
	case !useFeatureStore:
	case dryRun:
		e.local = &featurestore.LocalWriter{}
		e.querier = featurestore.AlwaysReady{}
		e.writer = e.local
		log.Infof("dry run: feature group %s is not contacted", s.ResourceName)
	default:
		e.querier, e.writer = newFeatureStore(e.sess)
	}
	return e, nil
}

// ingestor builds an Ingestor over e honoring --fail-fast and the clock
// and sleeper carried on the command's Meta.
func (e *env) ingestor(cmd *cli.Command) *ingest.Ingestor {
	m := GetMeta(cmd)
	opts := []ingest.Option{ingest.WithClock(m.Clock)}
	if m.Sleep != nil {
		opts = append(opts, ingest.WithSleeper(m.Sleep))
	}
	if cmd.Bool("fail-fast") {
		opts = append(opts, ingest.WithFailFast(ingest.FailOnFailed))
	}
	return ingest.New(e.querier, e.writer, opts...)
}
