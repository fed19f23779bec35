// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package featurestore

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/fsctl/fsctl/internal/dataset"
	"github.com/fsctl/fsctl/internal/ingest"
)

var (
	_ ingest.RowWriter     = (*LocalWriter)(nil)
	_ ingest.StatusQuerier = AlwaysReady{}
)

// LocalWriter keeps written rows in memory so a dry run can dump them as CSV
// instead of calling AWS. It is safe for concurrent writers.
type LocalWriter struct {
	mu   sync.Mutex
	rows []ingest.Row
}

func (w *LocalWriter) WriteRows(ctx context.Context, _ string, rows []ingest.Row) ingest.WriteResult {
	if err := ctx.Err(); err != nil {
		res := ingest.WriteResult{}
		for i, r := range rows {
			res.Failed = append(res.Failed, ingest.RowFailure{Index: i, Row: r, Err: err})
		}
		return res
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rows = append(w.rows, rows...)
	return ingest.WriteResult{Acknowledged: len(rows)}
}

// Frame returns the written rows ordered by employee_id.
func (w *LocalWriter) Frame() *dataset.Frame {
	w.mu.Lock()
	rows := make(ingest.Batch, len(w.rows))
	copy(rows, w.rows)
	w.mu.Unlock()

	sort.SliceStable(rows, func(i, j int) bool { return rowID(rows[i]) < rowID(rows[j]) })
	return BatchFrame(rows)
}

// Len is the number of rows written so far.
func (w *LocalWriter) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.rows)
}

func rowID(r ingest.Row) int64 {
	v, ok := r.Get(FeatureEmployeeID)
	if !ok {
		return -1
	}
	id, _ := strconv.ParseInt(v.String(), 10, 64)
	return id
}

// AlwaysReady answers Created for every name. Dry runs pair it with
// LocalWriter.
type AlwaysReady struct{}

func (AlwaysReady) QueryStatus(context.Context, string) (ingest.StatusReport, error) {
	return ingest.StatusReport{Status: ingest.StatusCreated, RawDetail: "dry-run"}, nil
}
