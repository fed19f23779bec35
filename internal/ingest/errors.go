// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument marks precondition violations (empty name, non-positive
// interval, zero attempts).
var ErrInvalidArgument = errors.New("invalid argument")

// ErrUnacknowledged marks rows a writer returned without acknowledging or
// reporting as failed.
var ErrUnacknowledged = errors.New("row neither acknowledged nor reported")

// ResourceNotReadyError is returned when polling ran out of attempts, or the
// fail-fast hook gave up early. Callers may retry with a fresh budget.
type ResourceNotReadyError struct {
	Resource   string
	LastStatus Status
	Attempts   int
	FailedFast bool
}

func (e *ResourceNotReadyError) Error() string {
	if e.FailedFast {
		return fmt.Sprintf("%s is not usable: status %s after %d attempt(s)", e.Resource, e.LastStatus, e.Attempts)
	}
	return fmt.Sprintf("%s did not become ready after %d attempt(s): last status %s", e.Resource, e.Attempts, e.LastStatus)
}

// TransientQueryError wraps a failed status query. Polling logs it and keeps
// going; it never escapes AwaitReady.
type TransientQueryError struct {
	Resource string
	Attempt  int
	Err      error
}

func (e *TransientQueryError) Error() string {
	return fmt.Sprintf("status query for %s failed (attempt %d): %v", e.Resource, e.Attempt, e.Err)
}

func (e *TransientQueryError) Unwrap() error { return e.Err }

// PartialIngestionError summarises the rows a batch failed to write. It is
// produced by Result.Err and never returned from IngestBatch directly.
type PartialIngestionError struct {
	Resource  string
	Attempted int
	Ingested  int
	Failures  []RowFailure
}

func (e *PartialIngestionError) Error() string {
	msg := fmt.Sprintf("%s: %d of %d row(s) failed to ingest", e.Resource, len(e.Failures), e.Attempted)
	if len(e.Failures) > 0 {
		msg += ": first failure: " + e.Failures[0].String()
	}
	return msg
}

// Unwrap exposes the individual row errors to errors.Is/As.
func (e *PartialIngestionError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		if f.Err != nil {
			errs = append(errs, f.Err)
		}
	}
	return errs
}
