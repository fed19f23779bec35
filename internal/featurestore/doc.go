// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package featurestore binds the ingest core to SageMaker Feature Store:
// StatusQuery answers readiness from DescribeFeatureGroup, RecordWriter
// writes rows with PutRecord, and the schema helpers turn preprocessed
// employees into feature records.
//
// The SDK clients are consumed through small interfaces so tests can swap
// in fakes.
package featurestore
