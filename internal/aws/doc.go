// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package aws loads AWS SDK v2 configuration and builds the S3, SageMaker and
// Feature Store runtime clients shared by one fsctl job.
package aws
