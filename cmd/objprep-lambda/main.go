// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0

// Command objprep-lambda is the Lambda entrypoint for per-object
// preprocessing of CSV files uploaded under a raw/ prefix.
package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/fsctl/fsctl/internal/aws"
	"github.com/fsctl/fsctl/internal/blob"
	"github.com/fsctl/fsctl/internal/log"
	"github.com/fsctl/fsctl/internal/objectprep"
)

func main() {
	log.InitLogger()

	cfg, err := aws.LoadAWSConfig(context.Background())
	if err != nil {
		log.Errorf("failed to load AWS config: %v", err)
		os.Exit(1)
	}
	s3 := aws.NewS3(cfg, aws.WithS3Endpoint(os.Getenv("FSCTL_S3_ENDPOINT")))
	p := &objectprep.Processor{Store: blob.NewS3(s3)}

	lambda.Start(p.HandleEvent)
}
