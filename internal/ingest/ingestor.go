// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/apex/log"
)

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Ingestor gates batch ingestion on resource readiness. It holds the
// status query and row writer handed to it by the caller; it owns no
// global client state.
type Ingestor struct {
	query    StatusQuerier
	writer   RowWriter
	sleep    Sleeper
	failFast func(Status) bool
	now      func() time.Time
}

// Option customizes an Ingestor.
type Option func(*Ingestor)

// New returns an Ingestor polling through q and writing through w.
func New(q StatusQuerier, w RowWriter, opts ...Option) *Ingestor {
	in := &Ingestor{
		query:  q,
		writer: w,
		sleep:  sleepContext,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// WithSleeper replaces the real sleep between polls.
func WithSleeper(s Sleeper) Option {
	return func(in *Ingestor) { in.sleep = s }
}

// WithClock replaces time.Now for elapsed-time accounting.
func WithClock(now func() time.Time) Option {
	return func(in *Ingestor) { in.now = now }
}

// WithFailFast installs a hook consulted for every status other than
// Creating and Created. Returning true stops polling with a
// ResourceNotReadyError instead of spending the rest of the budget. Without
// it a Failed resource is retried like any other non-ready status.
func WithFailFast(fn func(Status) bool) Option {
	return func(in *Ingestor) { in.failFast = fn }
}

// FailOnFailed is a WithFailFast hook that gives up on StatusFailed.
func FailOnFailed(s Status) bool { return s == StatusFailed }

// AwaitReady polls h until it reports Created, sleeping pollInterval between
// polls. After maxAttempts polls without Created it returns a
// *ResourceNotReadyError carrying the last observed status. No sleep follows
// the final attempt, so a resource that never becomes ready costs exactly
// maxAttempts queries and maxAttempts-1 sleeps.
func (in *Ingestor) AwaitReady(ctx context.Context, h Handle, pollInterval time.Duration, maxAttempts int) (Status, error) {
	status, _, err := in.awaitReady(ctx, h, pollInterval, maxAttempts)
	return status, err
}

func (in *Ingestor) awaitReady(ctx context.Context, h Handle, pollInterval time.Duration, maxAttempts int) (Status, int, error) {
	switch {
	case h.Name == "":
		return StatusUnknown, 0, fmt.Errorf("%w: resource name is empty", ErrInvalidArgument)
	case pollInterval <= 0:
		return StatusUnknown, 0, fmt.Errorf("%w: poll interval must be positive, got %s", ErrInvalidArgument, pollInterval)
	case maxAttempts < 1:
		return StatusUnknown, 0, fmt.Errorf("%w: max attempts must be at least 1, got %d", ErrInvalidArgument, maxAttempts)
	}

	// Status queries share a deadline of the full polling budget so one hung
	// query cannot stretch the worst case.
	budget := time.Duration(maxAttempts) * pollInterval
	pollCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	ctxLog := log.WithFields(log.Fields{
		"resource":     h.Name,
		"max_attempts": maxAttempts,
	})

	last := StatusUnknown
	attempt := 0
	for attempt < maxAttempts {
		attempt++

		report, err := in.query.QueryStatus(pollCtx, h.Name)
		switch {
		case err != nil:
			qerr := &TransientQueryError{Resource: h.Name, Attempt: attempt, Err: err}
			ctxLog.WithError(qerr).Warnf("error checking status (attempt %d/%d)", attempt, maxAttempts)
		case report.Status == StatusCreated:
			ctxLog.Infof("%s is ready (attempt %d/%d)", h, attempt, maxAttempts)
			return StatusCreated, attempt, nil
		case report.Status == StatusCreating:
			last = report.Status
			ctxLog.Infof("%s is still being created (attempt %d/%d)", h, attempt, maxAttempts)
		default:
			last = report.Status
			ctxLog.WithField("detail", report.RawDetail).Warnf("unexpected status %s (attempt %d/%d)", report.Status, attempt, maxAttempts)
			if in.failFast != nil && in.failFast(report.Status) {
				return last, attempt, &ResourceNotReadyError{Resource: h.Name, LastStatus: last, Attempts: attempt, FailedFast: true}
			}
		}

		if ctx.Err() != nil {
			return last, attempt, fmt.Errorf("waiting for %s: %w", h, ctx.Err())
		}
		if attempt == maxAttempts || pollCtx.Err() != nil {
			break
		}
		if err := in.sleep(ctx, pollInterval); err != nil {
			return last, attempt, fmt.Errorf("waiting for %s: %w", h, err)
		}
	}

	return last, attempt, &ResourceNotReadyError{Resource: h.Name, LastStatus: last, Attempts: attempt}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
