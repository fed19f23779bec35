// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// scriptedQuerier answers QueryStatus from a fixed script, repeating the last
// entry once the script runs out.
type scriptedQuerier struct {
	mu     sync.Mutex
	script []scripted
	calls  int
}

type scripted struct {
	status Status
	err    error
}

func (q *scriptedQuerier) QueryStatus(_ context.Context, _ string) (StatusReport, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	i := q.calls
	if i >= len(q.script) {
		i = len(q.script) - 1
	}
	q.calls++
	s := q.script[i]
	if s.err != nil {
		return StatusReport{}, s.err
	}
	return StatusReport{Status: s.status, RawDetail: s.status.String()}, nil
}

func statuses(ss ...Status) []scripted {
	out := make([]scripted, len(ss))
	for i, s := range ss {
		out[i] = scripted{status: s}
	}
	return out
}

// fakeClock advances only when the fake sleeper sleeps.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return nil
}

func (c *fakeClock) Sleeps() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sleeps)
}

func newTestIngestor(q StatusQuerier, w RowWriter, clock *fakeClock, opts ...Option) *Ingestor {
	opts = append([]Option{WithSleeper(clock.Sleep), WithClock(clock.Now)}, opts...)
	return New(q, w, opts...)
}

// makeBatch builds n rows with an integer id and a string payload.
func makeBatch(n int) Batch {
	b := make(Batch, n)
	for i := range b {
		b[i] = Row{
			{Name: "id", Value: Int(int64(i))},
			{Name: "payload", Value: String(fmt.Sprintf("row-%d", i))},
		}
	}
	return b
}

func rowID(r Row) int64 {
	v, _ := r.Get("id")
	var id int64
	_, _ = fmt.Sscan(v.String(), &id)
	return id
}

// recordingWriter acknowledges every row not rejected by fail and counts
// every row it was asked to write.
type recordingWriter struct {
	mu      sync.Mutex
	written []int64
	fail    func(rows []Row) bool
}

var errWrite = errors.New("write rejected")

func (w *recordingWriter) WriteRows(_ context.Context, _ string, rows []Row) WriteResult {
	w.mu.Lock()
	for _, r := range rows {
		w.written = append(w.written, rowID(r))
	}
	w.mu.Unlock()

	if w.fail != nil && w.fail(rows) {
		failed := make([]RowFailure, len(rows))
		for i, r := range rows {
			failed[i] = RowFailure{Index: i, Row: r, Err: errWrite}
		}
		return WriteResult{Failed: failed}
	}
	return WriteResult{Acknowledged: len(rows)}
}

func (w *recordingWriter) Written() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.written)
}
