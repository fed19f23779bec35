// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type transition struct{ from, to State }

func recordTransitions(cfg *FlowConfig) *[]transition {
	var seen []transition
	cfg.OnTransition = func(from, to State) { seen = append(seen, transition{from, to}) }
	return &seen
}

func TestRun_Completed(t *testing.T) {
	q := &scriptedQuerier{script: statuses(StatusCreating, StatusCreated)}
	clock := newFakeClock()
	in := newTestIngestor(q, &recordingWriter{}, clock)

	cfg := FlowConfig{PollInterval: time.Second, MaxAttempts: 3, MaxParallelWriters: 3}
	seen := recordTransitions(&cfg)

	out, err := in.Run(context.Background(), FeatureGroup("fg"), makeBatch(10), cfg)
	require.NoError(t, err)

	assert.Equal(t, StateCompleted, out.State)
	assert.NoError(t, out.Err)
	assert.Equal(t, 10, out.Result.Ingested)
	assert.Equal(t, 2, out.Result.PollAttempts)
	assert.Equal(t, time.Second, out.Result.Elapsed)
	assert.Equal(t, []transition{
		{StateUnstarted, StatePolling},
		{StatePolling, StateReady},
		{StateReady, StateIngesting},
		{StateIngesting, StateCompleted},
	}, *seen)
}

func TestRun_TimedOut(t *testing.T) {
	q := &scriptedQuerier{script: statuses(StatusCreating)}
	w := &recordingWriter{}
	in := newTestIngestor(q, w, newFakeClock())

	cfg := FlowConfig{PollInterval: time.Second, MaxAttempts: 3, MaxParallelWriters: 3}
	seen := recordTransitions(&cfg)

	out, err := in.Run(context.Background(), FeatureGroup("fg"), makeBatch(4), cfg)
	require.NoError(t, err)

	assert.Equal(t, StateTimedOut, out.State)
	assert.True(t, out.State.Terminal())
	var notReady *ResourceNotReadyError
	require.ErrorAs(t, out.Err, &notReady)
	assert.Equal(t, 3, out.Result.PollAttempts)
	assert.Equal(t, 4, out.Result.Attempted)
	assert.Equal(t, 0, out.Result.Ingested)
	assert.Equal(t, 0, w.Written())
	assert.Equal(t, []transition{
		{StateUnstarted, StatePolling},
		{StatePolling, StateTimedOut},
	}, *seen)
}

func TestRun_PartiallyFailed(t *testing.T) {
	q := &scriptedQuerier{script: statuses(StatusCreated)}
	w := &recordingWriter{fail: func(rows []Row) bool { return rowID(rows[0]) == 0 }}
	in := newTestIngestor(q, w, newFakeClock())

	out, err := in.Run(context.Background(), FeatureGroup("fg"), makeBatch(10), FlowConfig{
		PollInterval:       time.Second,
		MaxAttempts:        1,
		MaxParallelWriters: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, StatePartiallyFailed, out.State)
	var partial *PartialIngestionError
	require.ErrorAs(t, out.Err, &partial)
	assert.Equal(t, 6, out.Result.Ingested)
	assert.Len(t, out.Result.Failures, 4)
}

func TestRun_InvalidArgumentIsAnError(t *testing.T) {
	in := newTestIngestor(&scriptedQuerier{script: statuses(StatusCreated)}, &recordingWriter{}, newFakeClock())

	out, err := in.Run(context.Background(), FeatureGroup(""), makeBatch(1), FlowConfig{PollInterval: time.Second, MaxAttempts: 1})
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.Equal(t, StatePolling, out.State)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StateUnstarted, StatePolling))
	assert.True(t, CanTransition(StatePolling, StateTimedOut))
	assert.True(t, CanTransition(StateIngesting, StatePartiallyFailed))
	assert.False(t, CanTransition(StateUnstarted, StateIngesting))
	assert.False(t, CanTransition(StateTimedOut, StatePolling))
	assert.False(t, CanTransition(StateCompleted, StateIngesting))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "PartiallyFailed", StatePartiallyFailed.String())
	assert.Equal(t, "State(42)", State(42).String())
	assert.False(t, StateIngesting.Terminal())
}

func TestRun_SilentWriterIsPartiallyFailed(t *testing.T) {
	q := &scriptedQuerier{script: statuses(StatusCreated)}
	w := RowWriterFunc(func(context.Context, string, []Row) WriteResult { return WriteResult{} })
	in := newTestIngestor(q, w, newFakeClock())

	out, err := in.Run(context.Background(), FeatureGroup("fg"), makeBatch(10), FlowConfig{
		PollInterval:       time.Second,
		MaxAttempts:        1,
		MaxParallelWriters: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, StatePartiallyFailed, out.State)
	assert.Equal(t, 0, out.Result.Ingested)
	assert.Len(t, out.Result.Failures, 10)
	assert.ErrorIs(t, out.Err, ErrUnacknowledged)
}
