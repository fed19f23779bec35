// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/apex/log"
)

// State is a step of the wait-then-ingest flow.
//
//	Unstarted -> Polling -> Ready -> Ingesting -> Completed | PartiallyFailed
//	                     -> TimedOut
//
// TimedOut and PartiallyFailed are terminal but not fatal; the caller decides
// whether the surrounding job continues.
type State int

const (
	StateUnstarted State = iota
	StatePolling
	StateReady
	StateIngesting
	StateCompleted
	StatePartiallyFailed
	StateTimedOut
)

var stateNames = [...]string{
	StateUnstarted:       "Unstarted",
	StatePolling:         "Polling",
	StateReady:           "Ready",
	StateIngesting:       "Ingesting",
	StateCompleted:       "Completed",
	StatePartiallyFailed: "PartiallyFailed",
	StateTimedOut:        "TimedOut",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StatePartiallyFailed || s == StateTimedOut
}

var transitions = map[State][]State{
	StateUnstarted: {StatePolling},
	StatePolling:   {StateReady, StateTimedOut},
	StateReady:     {StateIngesting},
	StateIngesting: {StateCompleted, StatePartiallyFailed},
}

// CanTransition reports whether from -> to is an edge of the flow.
func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// FlowConfig parameterizes Run.
type FlowConfig struct {
	PollInterval       time.Duration
	MaxAttempts        int
	MaxParallelWriters int
	// OnTransition, if set, is called for every state change.
	OnTransition func(from, to State)
}

// Outcome is the terminal state of Run with its result. Err is the
// *ResourceNotReadyError for TimedOut and the *PartialIngestionError for
// PartiallyFailed.
type Outcome struct {
	State  State
	Result *Result
	Err    error
}

// Run waits for h to become ready and then ingests batch, waiting for
// completion. Only invalid arguments and context cancellation are returned
// as an error; readiness timeouts and row failures are reported on Outcome.
func (in *Ingestor) Run(ctx context.Context, h Handle, batch Batch, cfg FlowConfig) (Outcome, error) {
	state := StateUnstarted
	move := func(to State) {
		if !CanTransition(state, to) {
			panic(fmt.Sprintf("ingest: illegal transition %s -> %s", state, to))
		}
		log.WithField("resource", h.Name).Debugf("flow %s -> %s", state, to)
		if cfg.OnTransition != nil {
			cfg.OnTransition(state, to)
		}
		state = to
	}

	move(StatePolling)
	start := in.now()
	_, attempts, err := in.awaitReady(ctx, h, cfg.PollInterval, cfg.MaxAttempts)
	if err != nil {
		var notReady *ResourceNotReadyError
		if !errors.As(err, &notReady) {
			return Outcome{State: state}, err
		}
		move(StateTimedOut)
		res := &Result{
			Resource:     h.Name,
			Attempted:    len(batch),
			PollAttempts: attempts,
			Elapsed:      in.now().Sub(start),
			done:         make(chan struct{}),
		}
		close(res.done)
		return Outcome{State: state, Result: res, Err: notReady}, nil
	}

	move(StateReady)
	move(StateIngesting)
	res := in.IngestBatch(ctx, h, batch, IngestOptions{
		MaxParallelWriters: cfg.MaxParallelWriters,
		Wait:               true,
	})
	res.PollAttempts = attempts
	res.Elapsed = in.now().Sub(start)

	if perr := res.Err(); perr != nil {
		move(StatePartiallyFailed)
		return Outcome{State: state, Result: res, Err: perr}, nil
	}
	move(StateCompleted)
	return Outcome{State: state, Result: res}, nil
}
