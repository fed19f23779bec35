// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package ingest waits for an external resource to become ready and then
// writes a batch of rows to it with bounded parallelism.
//
// Polling uses a fixed interval and a bounded attempt count, so the worst-case
// wait is MaxAttempts*PollInterval. Ingestion is best effort: workers own
// disjoint partitions, a failing worker never cancels its siblings, and row
// failures are returned as data on Result rather than as a Go error. Writes are
// not idempotent; re-ingesting a batch writes every row again.
//
// The package has no cloud dependencies. Callers supply a StatusQuerier and a
// RowWriter; internal/featurestore provides SageMaker-backed ones.
package ingest
