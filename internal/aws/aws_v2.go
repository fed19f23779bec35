// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"context"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker"
	"github.com/aws/aws-sdk-go-v2/service/sagemakerfeaturestoreruntime"

	"github.com/fsctl/fsctl/internal/log"
	"github.com/fsctl/fsctl/internal/version"
)

// options holds optional overrides for AWS config loading.
type options struct {
	profile string
	region  string
	retryer func() awsv2.Retryer
}

// Option customizes how AWS config is loaded.
// Default behavior (no options) inherits the shell environment and shared
// config chain (AWS_PROFILE, ~/.aws/config, ~/.aws/credentials, IMDS, etc.).
type Option func(*options)

// Session is the set of clients one job shares. It is built once by the
// caller and passed down; nothing in fsctl keeps a process-wide client.
type Session struct {
	Config    awsv2.Config
	S3        *s3v2.Client
	SageMaker *sagemaker.Client
	Runtime   *sagemakerfeaturestoreruntime.Client
}

// LoadAWSConfig loads AWS SDK v2 config. By default it inherits the shell's
// AWS setup (AWS_PROFILE, shared config, env, IMDS). Options can override
// profile, region, and retryer without changing callers.
func LoadAWSConfig(ctx context.Context, opts ...Option) (awsv2.Config, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	log.Debugf("opts applied: profile=%s, region=%s", o.profile, o.region)

	loadOpts := []func(*config.LoadOptions) error{
		config.WithAppID(version.UserAgent()),
	}
	if o.profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(o.profile))
	}
	if o.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(o.region))
	}
	if o.retryer != nil {
		loadOpts = append(loadOpts, config.WithRetryer(o.retryer))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		log.Debugf("config load err: err=%v", err)
		return awsv2.Config{}, err
	}
	log.Debugf("config loaded: region=%s", cfg.Region)
	return cfg, nil
}

// NewSession loads config and constructs every client fsctl uses.
func NewSession(ctx context.Context, opts ...Option) (*Session, error) {
	cfg, err := LoadAWSConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Session{
		Config:    cfg,
		S3:        NewS3(cfg),
		SageMaker: NewSageMaker(cfg),
		Runtime:   NewFeatureStoreRuntime(cfg),
	}, nil
}

// NewS3 constructs a v2 S3 client from the provided config. Additional service
// options can be supplied via optFns.
func NewS3(cfg awsv2.Config, optFns ...func(*s3v2.Options)) *s3v2.Client {
	client := s3v2.NewFromConfig(cfg, optFns...)
	log.Debugf("s3 client created")
	return client
}

// NewSageMaker constructs the control-plane client used to describe feature
// groups.
func NewSageMaker(cfg awsv2.Config, optFns ...func(*sagemaker.Options)) *sagemaker.Client {
	client := sagemaker.NewFromConfig(cfg, optFns...)
	log.Debugf("sagemaker client created")
	return client
}

// NewFeatureStoreRuntime constructs the data-plane client used for PutRecord.
func NewFeatureStoreRuntime(cfg awsv2.Config, optFns ...func(*sagemakerfeaturestoreruntime.Options)) *sagemakerfeaturestoreruntime.Client {
	client := sagemakerfeaturestoreruntime.NewFromConfig(cfg, optFns...)
	log.Debugf("featurestore runtime client created")
	return client
}

// WithProfile sets the shared config profile. Defaults to AWS_PROFILE/env chain.
func WithProfile(profile string) Option {
	return func(o *options) { o.profile = profile }
}

// WithRegion sets the region override. Defaults to env/profile/metadata chain.
func WithRegion(region string) Option {
	return func(o *options) { o.region = region }
}

// WithRetryer injects a custom retryer; if not set, SDK defaults are used.
func WithRetryer(newRetryer func() awsv2.Retryer) Option {
	return func(o *options) { o.retryer = newRetryer }
}

// WithS3Endpoint points the S3 client at a compatible endpoint (MinIO,
// LocalStack) using path-style addressing.
func WithS3Endpoint(url string) func(*s3v2.Options) {
	return func(o *s3v2.Options) {
		if url == "" {
			return
		}
		o.BaseEndpoint = awsv2.String(url)
		o.UsePathStyle = true
	}
}
